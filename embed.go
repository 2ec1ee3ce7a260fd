package vibeshare

import "embed"

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.960 generate

// ContentFS holds the default markdown content (legal pages). Files under
// CONTENT_PATH on disk take precedence.
//
//go:embed content
var ContentFS embed.FS

// AssetsFS holds the static files served under /assets/.
//
//go:embed assets
var AssetsFS embed.FS
