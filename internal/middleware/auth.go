package middleware

import (
	"log/slog"
	"net/http"

	"github.com/vibeshare/vibeshare/internal/ctxkeys"
	"github.com/vibeshare/vibeshare/internal/service"
)

// AuthMiddleware resolves the auth cookie into a session and the viewer's
// profile. Any failure leaves the request anonymous and clears the cookie.
func AuthMiddleware(authService *service.AuthService, profileService *service.ProfileService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(service.AuthCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			session, err := authService.Session(r.Context(), cookie.Value)
			if err != nil {
				slog.Debug("dropping invalid session", "error", err, "path", r.URL.Path)
				authService.ClearJWTCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			ctx := ctxkeys.WithSession(r.Context(), session)

			// The welcome line falls back to the email, so a missing profile is not fatal.
			profile, err := profileService.ByID(ctx, session.ID)
			if err != nil {
				slog.Warn("failed to load viewer profile", "error", err, "user_id", session.ID)
			} else {
				ctx = ctxkeys.WithProfile(ctx, profile)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth sends anonymous visitors back to the landing page.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.Session(r.Context()) == nil {
			redirect(w, r, "/")
			return
		}
		next.ServeHTTP(w, r)
	}
}

// RequireGuest keeps signed-in viewers away from the auth forms.
func RequireGuest(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.Session(r.Context()) != nil {
			redirect(w, r, "/")
			return
		}
		next.ServeHTTP(w, r)
	}
}

// redirect forces a full page load for htmx requests.
func redirect(w http.ResponseWriter, r *http.Request, to string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", to)
		w.WriteHeader(http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}
