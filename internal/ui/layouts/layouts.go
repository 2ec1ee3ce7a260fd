package layouts

import (
	"context"
	"encoding/json"
	"time"

	"github.com/vibeshare/vibeshare/internal/config"
	"github.com/vibeshare/vibeshare/internal/ctxkeys"
)

var defaultConfig = config.Config{
	AppName:     "Vibeshare",
	AppTagline:  "Code & Create",
	SplashDelay: time.Second,
}

// AppConfig returns the request's config. Views rendered outside a request,
// as in tests, get the defaults.
func AppConfig(ctx context.Context) *config.Config {
	if cfg := ctxkeys.Config(ctx); cfg != nil {
		return cfg
	}
	cfg := defaultConfig
	return &cfg
}

// csrfHeaders is the hx-headers value that sends the CSRF token with every
// htmx request.
func csrfHeaders(ctx context.Context) string {
	b, err := json.Marshal(map[string]string{"X-CSRF-Token": ctxkeys.CSRFToken(ctx)})
	if err != nil {
		return "{}"
	}
	return string(b)
}

type footerLink struct {
	Href  string
	Label string
}

var footerLinks = []footerLink{
	{Href: "/legal/privacy", Label: "Privacy"},
	{Href: "/legal/terms", Label: "Terms"},
	{Href: "/legal/support", Label: "Support"},
}
