package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/vibeshare/vibeshare/cmd/vibeshare/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "vibeshare",
		Short:         "Vibeshare: share your projects and react to others",
		SilenceUsage:  true,
	}

	rootCmd.AddCommand(cmd.ServeCmd())
	rootCmd.AddCommand(cmd.MigrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
