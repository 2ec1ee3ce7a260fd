package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/vibeshare/vibeshare/internal/model"
	"github.com/vibeshare/vibeshare/internal/repository"
	"github.com/vibeshare/vibeshare/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

const AuthCookieName = "auth_token"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("an account with this email already exists")
	ErrEmailNotVerified   = errors.New("please verify your email before signing in")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrNameRequired       = errors.New("name is required")
	ErrNameTooLong        = validation.ErrNameTooLong
	ErrPasswordlessLogin  = errors.New("this account uses GitHub sign-in")
	ErrInvalidToken       = errors.New("invalid or expired verification link")
	ErrInvalidSession     = errors.New("invalid session")
)

type AuthOptions struct {
	JWTSecret              string
	JWTExpiry              time.Duration
	TokenEmailVerifyExpiry time.Duration
	RequireVerification    bool
	IsProduction           bool
}

type AuthService struct {
	userRepository    repository.UserRepository
	profileRepository repository.ProfileRepository
	tokenRepository   repository.TokenRepository
	emailService      *EmailService
	opts              AuthOptions
}

func NewAuthService(
	userRepository repository.UserRepository,
	profileRepository repository.ProfileRepository,
	tokenRepository repository.TokenRepository,
	emailService *EmailService,
	opts AuthOptions,
) *AuthService {
	return &AuthService{
		userRepository:    userRepository,
		profileRepository: profileRepository,
		tokenRepository:   tokenRepository,
		emailService:      emailService,
		opts:              opts,
	}
}

type SignUpInput struct {
	Email    string
	Password string
	Name     string
}

// ValidateSignUp checks the form before anything touches the database.
func ValidateSignUp(in SignUpInput) error {
	err := validation.ValidateEmail(normalizeEmail(in.Email))
	if err != nil {
		return ErrInvalidEmail
	}
	err = validation.ValidatePassword(in.Password)
	if err != nil {
		return err
	}
	err = validation.ValidateName(in.Name)
	if errors.Is(err, validation.ErrNameTooLong) {
		return ErrNameTooLong
	}
	if err != nil {
		return ErrNameRequired
	}
	return nil
}

// ValidateSignIn checks the sign-in form. Name is not required here.
func ValidateSignIn(email, password string) error {
	err := validation.ValidateEmail(normalizeEmail(email))
	if err != nil {
		return ErrInvalidEmail
	}
	return validation.ValidatePassword(password)
}

// SignUp creates the account and its profile in one transaction and sends
// the verification mail. It does not sign the user in.
func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) (*model.User, error) {
	err := ValidateSignUp(in)
	if err != nil {
		return nil, err
	}

	email := normalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)

	hash, err := s.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: &hash,
		CreatedAt:    now,
	}
	profile := &model.Profile{
		ID:        user.ID,
		Name:      name,
		AvatarURL: model.AvatarURLFor(name),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.userRepository.CreateWithProfile(ctx, user, profile)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	slog.Info("user signed up", "user_id", user.ID)

	err = s.sendVerification(ctx, user, name)
	if err != nil {
		slog.Warn("failed to send verification email", "error", err, "user_id", user.ID)
	}

	return user, nil
}

func (s *AuthService) sendVerification(ctx context.Context, user *model.User, name string) error {
	token, err := s.GenerateToken()
	if err != nil {
		return err
	}

	err = s.tokenRepository.Create(ctx, &model.Token{
		UserID:    user.ID,
		Type:      model.TokenTypeEmailVerify,
		Token:     token,
		ExpiresAt: time.Now().Add(s.opts.TokenEmailVerifyExpiry),
	})
	if err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}

	return s.emailService.SendVerificationEmail(ctx, user.Email, token, name)
}

// SignIn checks credentials and makes sure the account has a profile.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*model.User, error) {
	err := ValidateSignIn(email, password)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepository.ByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.HasPassword() {
		return nil, ErrPasswordlessLogin
	}

	err = s.ComparePassword(password, *user.PasswordHash)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if s.opts.RequireVerification && !user.IsVerified() {
		return nil, ErrEmailNotVerified
	}

	err = s.EnsureProfile(ctx, user, "")
	if err != nil {
		return nil, err
	}

	slog.Info("user signed in", "user_id", user.ID)
	return user, nil
}

// EnsureProfile creates a profile for the user when none exists yet.
// An empty name falls back to the email local part.
func (s *AuthService) EnsureProfile(ctx context.Context, user *model.User, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		name = user.Session().EmailName()
	}

	now := time.Now()
	err := s.profileRepository.CreateIfMissing(ctx, &model.Profile{
		ID:        user.ID,
		Name:      name,
		AvatarURL: model.AvatarURLFor(name),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return fmt.Errorf("failed to ensure profile: %w", err)
	}
	return nil
}

// VerifyEmail consumes a verification token and marks the email verified.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*model.User, error) {
	t, err := s.tokenRepository.ConsumeToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to consume token: %w", err)
	}
	if t.Type != model.TokenTypeEmailVerify {
		return nil, ErrInvalidToken
	}

	err = s.userRepository.MarkVerified(ctx, t.UserID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to verify email: %w", err)
	}

	user, err := s.userRepository.ByID(ctx, t.UserID)
	if err != nil {
		return nil, err
	}

	profile, err := s.profileRepository.ByID(ctx, user.ID)
	name := user.Session().EmailName()
	if err == nil {
		name = profile.Name
	}
	err = s.emailService.SendWelcomeEmail(ctx, user.Email, name)
	if err != nil {
		slog.Warn("failed to send welcome email", "error", err, "user_id", user.ID)
	}

	slog.Info("email verified", "user_id", user.ID)
	return user, nil
}

// AuthenticateOAuth signs in an account verified by an OAuth provider,
// creating the account and its profile on first login.
func (s *AuthService) AuthenticateOAuth(ctx context.Context, email, name, provider string) (*model.User, error) {
	email = normalizeEmail(email)
	err := validation.ValidateEmail(email)
	if err != nil {
		return nil, ErrInvalidEmail
	}

	user, err := s.userRepository.ByEmail(ctx, email)
	if err == nil {
		if !user.IsVerified() {
			err = s.userRepository.MarkVerified(ctx, user.ID, time.Now())
			if err != nil {
				slog.Warn("failed to mark email as verified", "error", err, "user_id", user.ID)
			}
		}
		err = s.EnsureProfile(ctx, user, name)
		if err != nil {
			return nil, err
		}
		slog.Info("user authenticated via OAuth", "user_id", user.ID, "provider", provider)
		return user, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to lookup user: %w", err)
	}

	now := time.Now()
	user = &model.User{
		ID:              uuid.New().String(),
		Email:           email,
		EmailVerifiedAt: &now,
		CreatedAt:       now,
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = user.Session().EmailName()
	}
	profile := &model.Profile{
		ID:        user.ID,
		Name:      name,
		AvatarURL: model.AvatarURLFor(name),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.userRepository.CreateWithProfile(ctx, user, profile)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	slog.Info("new OAuth user created", "user_id", user.ID, "provider", provider)
	return user, nil
}

// Session resolves a JWT into the viewer it was issued for.
func (s *AuthService) Session(ctx context.Context, tokenString string) (*model.Session, error) {
	claims, err := s.VerifyJWT(tokenString)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return nil, ErrInvalidSession
	}

	user, err := s.userRepository.ByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}
	return user.Session(), nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (s *AuthService) GenerateToken() (string, error) {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

func (s *AuthService) JWTExpiry() time.Duration {
	return s.opts.JWTExpiry
}

func (s *AuthService) GenerateJWT(user *model.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     now.Add(s.opts.JWTExpiry).Unix(),
		"iat":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.opts.JWTSecret))
}

func (s *AuthService) VerifyJWT(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.opts.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

func (s *AuthService) SetJWTCookie(w http.ResponseWriter, token string, expiry time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    token,
		Expires:  expiry,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.IsProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *AuthService) ClearJWTCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.IsProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}
