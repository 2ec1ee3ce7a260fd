package middleware

import (
	"fmt"
	"net/http"
)

// htmx and the tailwind play build come from CDNs.
const scriptCDNs = "https://unpkg.com https://cdn.tailwindcss.com"

// SecurityHeaders sets the CSP and the usual hardening headers. It must run
// after NonceMiddleware. Post media may live on any https host, so images
// are allowed from https: while scripts are limited to self, the CDN and
// the request nonce.
func SecurityHeaders(isProduction bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Content-Security-Policy", contentSecurityPolicy(GetNonce(r.Context())))
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			if isProduction {
				h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}

func contentSecurityPolicy(nonce string) string {
	script := fmt.Sprintf("script-src 'self' %s", scriptCDNs)
	if nonce != "" {
		script += fmt.Sprintf(" 'nonce-%s'", nonce)
	}
	return "default-src 'self'; " +
		script + "; " +
		"style-src 'self' 'unsafe-inline'; " +
		"img-src 'self' https: data:; " +
		"connect-src 'self'; " +
		"form-action 'self' https://github.com; " +
		"frame-ancestors 'none'; " +
		"base-uri 'self'"
}
