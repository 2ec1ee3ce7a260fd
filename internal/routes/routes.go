package routes

import (
	"io/fs"
	"net/http"

	"github.com/vibeshare/vibeshare"
	"github.com/vibeshare/vibeshare/internal/app"
	"github.com/vibeshare/vibeshare/internal/handler"
	"github.com/vibeshare/vibeshare/internal/middleware"
)

func SetupRoutes(app *app.App) (http.Handler, error) {
	// Handlers
	home := handler.NewHomeHandler()
	seo := handler.NewSEOHandler(app.LegalService, app.Cfg.AppURL)
	legal := handler.NewLegalHandler(app.LegalService)
	auth := handler.NewAuthHandler(app.AuthService, app.Cfg)
	post := handler.NewPostHandler(app.PostService, app.ReactionService, app.FileService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	// Static files
	assets, err := fs.Sub(vibeshare.AssetsFS, "assets")
	if err != nil {
		return nil, err
	}
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServer(http.FS(assets))))

	// SEO
	mux.HandleFunc("GET /robots.txt", seo.Robots)
	mux.HandleFunc("GET /sitemap.xml", seo.Sitemap)

	// Shell
	mux.HandleFunc("GET /{$}", home.Shell)
	mux.HandleFunc("GET /shell", home.ShellContent)
	mux.HandleFunc("GET /modal/close", home.CloseModal)

	// Content
	mux.HandleFunc("GET /legal/{page}", legal.ShowPage)

	// Uploaded media
	mux.HandleFunc("GET /media/{id}", post.Media)

	// Auth (rate limited)
	limit := app.AuthRateLimiter.Limit

	mux.HandleFunc("GET /auth/modal", middleware.RequireGuest(auth.Modal))
	mux.HandleFunc("POST /auth/signup", limit(middleware.RequireGuest(auth.SignUp)))
	mux.HandleFunc("POST /auth/signin", limit(middleware.RequireGuest(auth.SignIn)))
	mux.HandleFunc("POST /auth/logout", auth.Logout)
	mux.HandleFunc("GET /auth/verify/{token}", limit(auth.VerifyEmail))

	// OAuth
	mux.HandleFunc("GET /auth/github", limit(middleware.RequireGuest(auth.GitHubLogin)))
	mux.HandleFunc("GET /auth/github/callback", limit(auth.GitHubCallback))

	// ============================================================================
	// PROTECTED ROUTES (/app/*)
	// ============================================================================

	// Posts
	mux.HandleFunc("GET /app/posts", middleware.RequireAuth(post.List))
	mux.HandleFunc("GET /app/posts/new", middleware.RequireAuth(post.NewDialog))
	mux.HandleFunc("POST /app/posts", middleware.RequireAuth(post.Create))
	mux.HandleFunc("POST /app/posts/{id}/reactions", middleware.RequireAuth(post.React))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	// 404
	mux.HandleFunc("/{path...}", home.NotFound)

	// Global middleware - executed in order (top to bottom)
	h := middleware.Chain(
		mux,
		middleware.RequestLogging,
		middleware.Config(app.Cfg), // Config first, templates and cookies read it
		middleware.NonceMiddleware, // Nonce before SecurityHeaders builds the CSP
		middleware.SecurityHeaders(app.Cfg.IsProduction()),
		middleware.WithURLPath,
		middleware.CSRFProtection,
		middleware.AuthMiddleware(app.AuthService, app.ProfileService),
	)

	return h, nil
}
