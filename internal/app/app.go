package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/jmoiron/sqlx"
	"github.com/vibeshare/vibeshare"
	"github.com/vibeshare/vibeshare/internal/cache"
	"github.com/vibeshare/vibeshare/internal/config"
	"github.com/vibeshare/vibeshare/internal/db"
	"github.com/vibeshare/vibeshare/internal/middleware"
	"github.com/vibeshare/vibeshare/internal/repository"
	"github.com/vibeshare/vibeshare/internal/service"
	"github.com/vibeshare/vibeshare/internal/storage"
)

type App struct {
	Cfg             *config.Config
	DB              *sqlx.DB
	ProfileCache    cache.ProfileCache
	AuthService     *service.AuthService
	ProfileService  *service.ProfileService
	EmailService    *service.EmailService
	FileService     *service.FileService // nil when uploads are disabled
	PostService     *service.PostService
	ReactionService *service.ReactionService
	LegalService    *service.LegalService
	AuthRateLimiter *middleware.RateLimiter
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(ctx, cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(ctx, database.DB, cfg.DBDriver)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	profileRepository := repository.NewProfileRepository(database)
	tokenRepository := repository.NewTokenRepository(database)
	fileRepository := repository.NewFileRepository(database)
	postRepository := repository.NewPostRepository(database)
	reactionRepository := repository.NewReactionRepository(database)

	// Profile cache (Redis when REDIS_URL is set)
	profileCache, err := cache.NewProfileCache(ctx, cfg.RedisURL, cfg.ProfileCacheTTL)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to initialize profile cache: %w", err)
	}

	// Storage (only with a bucket configured)
	var fileService *service.FileService
	if cfg.UploadsEnabled() {
		fileStorage, err := storage.New(ctx, cfg)
		if err != nil {
			_ = profileCache.Close()
			_ = database.Close()
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		fileService = service.NewFileService(fileRepository, fileStorage)
	}

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	authService := service.NewAuthService(
		userRepository,
		profileRepository,
		tokenRepository,
		emailService,
		service.AuthOptions{
			JWTSecret:              cfg.JWTSecret,
			JWTExpiry:              cfg.JWTExpiry,
			TokenEmailVerifyExpiry: cfg.TokenEmailVerifyExpiry,
			RequireVerification:    cfg.RequireEmailVerification,
			IsProduction:           cfg.IsProduction(),
		},
	)
	profileService := service.NewProfileService(profileRepository, profileCache)
	postService := service.NewPostService(postRepository, reactionRepository, profileService, fileService)
	reactionService := service.NewReactionService(postRepository, reactionRepository)

	defaults, err := fs.Sub(vibeshare.ContentFS, "content")
	if err != nil {
		_ = profileCache.Close()
		_ = database.Close()
		return nil, fmt.Errorf("failed to open embedded content: %w", err)
	}
	legalService := service.NewLegalService(cfg.ContentPath, defaults)

	return &App{
		Cfg:             cfg,
		DB:              database,
		ProfileCache:    profileCache,
		AuthService:     authService,
		ProfileService:  profileService,
		EmailService:    emailService,
		FileService:     fileService,
		PostService:     postService,
		ReactionService: reactionService,
		LegalService:    legalService,
		AuthRateLimiter: middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow),
	}, nil
}

// Close stops background work and releases connections.
func (a *App) Close() error {
	var errs []error
	if a.AuthRateLimiter != nil {
		errs = append(errs, a.AuthRateLimiter.Close())
	}
	if a.ProfileCache != nil {
		errs = append(errs, a.ProfileCache.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}
