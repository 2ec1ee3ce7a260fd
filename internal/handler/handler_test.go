package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/vibeshare/vibeshare/internal/cache"
	"github.com/vibeshare/vibeshare/internal/config"
	"github.com/vibeshare/vibeshare/internal/ctxkeys"
	"github.com/vibeshare/vibeshare/internal/db"
	"github.com/vibeshare/vibeshare/internal/model"
	"github.com/vibeshare/vibeshare/internal/repository"
	"github.com/vibeshare/vibeshare/internal/service"
)

type fixture struct {
	db       *sqlx.DB
	cfg      *config.Config
	auth     *service.AuthService
	posts    repository.PostRepository
	home     *HomeHandler
	authH    *AuthHandler
	post     *PostHandler
	legal    *LegalHandler
	seo      *SEOHandler
	viewer   *model.Session
	profiles *service.ProfileService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	conn := filepath.Join(t.TempDir(), "handler.db") + "?_pragma=foreign_keys(1)"
	database, err := db.Init(ctx, "sqlite", conn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, db.RunMigrations(ctx, database.DB, "sqlite"))

	cfg := &config.Config{
		AppName:     "Vibeshare",
		AppTagline:  "Code & Create",
		AppEnv:      "development",
		AppURL:      "http://localhost:8090",
		SplashDelay: time.Second,
	}

	users := repository.NewUserRepository(database)
	profileRepo := repository.NewProfileRepository(database)
	postRepo := repository.NewPostRepository(database)
	reactionRepo := repository.NewReactionRepository(database)

	emailService := service.NewEmailService("", "noreply@vibeshare.dev", cfg.AppURL, cfg.AppName, true)
	authService := service.NewAuthService(users, profileRepo, repository.NewTokenRepository(database), emailService, service.AuthOptions{
		JWTSecret:              "test-secret",
		JWTExpiry:              time.Hour,
		TokenEmailVerifyExpiry: time.Hour,
	})
	profiles := service.NewProfileService(profileRepo, cache.NopProfileCache{})
	postService := service.NewPostService(postRepo, reactionRepo, profiles, nil)
	reactionService := service.NewReactionService(postRepo, reactionRepo)

	legalService := service.NewLegalService("", fstest.MapFS{
		"legal/privacy.md": {Data: []byte("---\ntitle: Privacy Policy\nlastUpdated: 2025-01-01\n---\n\nWe keep your data safe.\n")},
	})

	user, err := authService.SignUp(ctx, service.SignUpInput{Email: "test@example.com", Password: "password123", Name: "Test User"})
	require.NoError(t, err)

	return &fixture{
		db:       database,
		cfg:      cfg,
		auth:     authService,
		posts:    postRepo,
		home:     NewHomeHandler(),
		authH:    NewAuthHandler(authService, cfg),
		post:     NewPostHandler(postService, reactionService, nil),
		legal:    NewLegalHandler(legalService),
		seo:      NewSEOHandler(legalService, cfg.AppURL+"/"),
		viewer:   user.Session(),
		profiles: profiles,
	}
}

// request builds a request carrying what the middleware chain would put
// into the context.
func (f *fixture) request(method, target string, form url.Values, session *model.Session) *http.Request {
	var r *http.Request
	if form != nil {
		r = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	r.Header.Set("HX-Request", "true")

	ctx := ctxkeys.WithConfig(r.Context(), f.cfg.Sanitized())
	ctx = ctxkeys.WithCSRFToken(ctx, "csrf")
	if session != nil {
		ctx = ctxkeys.WithSession(ctx, session)
		profile, err := f.profiles.ByID(ctx, session.ID)
		if err == nil {
			ctx = ctxkeys.WithProfile(ctx, profile)
		}
	}
	return r.WithContext(ctx)
}

func strPtr(s string) *string { return &s }

func (f *fixture) seedPosts(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, f.posts.Create(ctx, &model.Post{
		ID:        "post-old",
		UserID:    f.viewer.ID,
		Title:     "Test Post 2",
		CreatedAt: now.Add(-time.Hour),
	}))
	require.NoError(t, f.posts.Create(ctx, &model.Post{
		ID:          "post-new",
		UserID:      f.viewer.ID,
		Title:       "Test Post 1",
		Description: strPtr("This is a test post"),
		CodeLink:    strPtr("https://github.com/test/repo"),
		Tags:        model.Tags{"react", "testing"},
		CreatedAt:   now,
	}))
}

func (f *fixture) count(t *testing.T, table string) int {
	t.Helper()
	var n int
	require.NoError(t, f.db.Get(&n, `SELECT COUNT(*) FROM `+table))
	return n
}
