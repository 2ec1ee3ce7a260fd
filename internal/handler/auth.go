package handler

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/vibeshare/vibeshare/internal/config"
	"github.com/vibeshare/vibeshare/internal/ctxkeys"
	"github.com/vibeshare/vibeshare/internal/service"
	"github.com/vibeshare/vibeshare/internal/ui"
	"github.com/vibeshare/vibeshare/internal/ui/pages"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

const (
	signUpSuccess = "Account created successfully! Please check your email to verify your account."
	signInSuccess = "Signed in successfully!"

	oauthStateCookie = "oauth_state"
)

var errNoGitHubEmail = errors.New("github: no verified primary email")

type AuthHandler struct {
	authService       *service.AuthService
	githubOAuthConfig *oauth2.Config
	isProduction      bool
}

func NewAuthHandler(authService *service.AuthService, cfg *config.Config) *AuthHandler {
	h := &AuthHandler{
		authService:  authService,
		isProduction: cfg.IsProduction(),
	}
	if cfg.GitHubEnabled() {
		h.githubOAuthConfig = &oauth2.Config{
			ClientID:     cfg.GitHubClientID,
			ClientSecret: cfg.GitHubClientSecret,
			RedirectURL:  cfg.AppURL + "/auth/github/callback",
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		}
	}
	return h
}

// Modal renders a fresh auth form. Switching modes goes through here too,
// so fields and messages never carry over.
func (h *AuthHandler) Modal(w http.ResponseWriter, r *http.Request) {
	mode := pages.AuthModeSignUp
	if r.URL.Query().Get("mode") == pages.AuthModeSignIn {
		mode = pages.AuthModeSignIn
	}
	ui.Render(w, r, pages.AuthModal(pages.AuthForm{Mode: mode}))
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	in := service.SignUpInput{
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
		Name:     strings.TrimSpace(r.FormValue("name")),
	}
	form := pages.AuthForm{Mode: pages.AuthModeSignUp, Email: in.Email, Name: in.Name}

	err := service.ValidateSignUp(in)
	if err != nil {
		form.Error = formMessage(err, authFormErrors)
		ui.Render(w, r, pages.AuthModal(form))
		return
	}

	_, err = h.authService.SignUp(r.Context(), in)
	if err != nil {
		if !errors.Is(err, service.ErrEmailAlreadyExists) {
			slog.Error("sign-up failed", "error", err)
		}
		form.Error = formMessage(err, authFormErrors)
		ui.Render(w, r, pages.AuthModal(form))
		return
	}

	ui.Render(w, r, pages.AuthModal(pages.AuthForm{
		Mode:    pages.AuthModeSignUp,
		Success: signUpSuccess,
	}))
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	form := pages.AuthForm{Mode: pages.AuthModeSignIn, Email: email}

	err := service.ValidateSignIn(email, password)
	if err != nil {
		form.Error = formMessage(err, authFormErrors)
		ui.Render(w, r, pages.AuthModal(form))
		return
	}

	user, err := h.authService.SignIn(r.Context(), email, password)
	if err != nil {
		slog.Warn("sign-in failed", "error", err)
		form.Error = formMessage(err, authFormErrors)
		ui.Render(w, r, pages.AuthModal(form))
		return
	}

	token, err := h.authService.GenerateJWT(user)
	if err != nil {
		slog.Error("failed to generate JWT", "error", err, "user_id", user.ID)
		form.Error = genericError
		ui.Render(w, r, pages.AuthModal(form))
		return
	}
	h.authService.SetJWTCookie(w, token, time.Now().Add(h.authService.JWTExpiry()))

	ui.Render(w, r, pages.AuthModal(pages.AuthForm{
		Mode:     pages.AuthModeSignIn,
		Success:  signInSuccess,
		SignedIn: true,
	}))
}

// Logout clears the session. htmx callers get session-changed so the
// shell swaps back to the landing page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearJWTCookie(w)

	session := ctxkeys.Session(r.Context())
	if session != nil {
		slog.Info("user signed out", "user_id", session.ID)
	}

	if r.Header.Get("HX-Request") != "true" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	ui.Trigger(w, "session-changed")
	w.WriteHeader(http.StatusOK)
}

// VerifyEmail consumes the link from the verification mail. Owning the
// inbox proves the identity, so the visitor is signed in as well.
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.VerifyEmail(r.Context(), r.PathValue("token"))
	if err != nil {
		slog.Warn("email verification failed", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		ui.Render(w, r, pages.Notice("Verification failed", "This verification link is invalid or has expired."))
		return
	}

	token, err := h.authService.GenerateJWT(user)
	if err != nil {
		slog.Error("failed to generate JWT", "error", err, "user_id", user.ID)
		ui.Render(w, r, pages.Notice("Email verified", "Your email is verified. You can sign in now."))
		return
	}
	h.authService.SetJWTCookie(w, token, time.Now().Add(h.authService.JWTExpiry()))

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// GitHubLogin redirects to the GitHub consent screen.
func (h *AuthHandler) GitHubLogin(w http.ResponseWriter, r *http.Request) {
	if h.githubOAuthConfig == nil {
		http.NotFound(w, r)
		return
	}

	state, err := generateOAuthState()
	if err != nil {
		slog.Error("failed to generate oauth state", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.isProduction,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600,
	})

	http.Redirect(w, r, h.githubOAuthConfig.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

func (h *AuthHandler) GitHubCallback(w http.ResponseWriter, r *http.Request) {
	if h.githubOAuthConfig == nil {
		http.NotFound(w, r)
		return
	}

	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || state == "" || cookie.Value != state {
		slog.Warn("github oauth state validation failed", "error", err)
		h.oauthFailed(w, r)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:   oauthStateCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	code := r.URL.Query().Get("code")
	if code == "" {
		slog.Warn("github oauth callback missing code")
		h.oauthFailed(w, r)
		return
	}

	ctx := r.Context()
	token, err := h.githubOAuthConfig.Exchange(ctx, code)
	if err != nil {
		slog.Error("github oauth token exchange failed", "error", err)
		h.oauthFailed(w, r)
		return
	}

	client := h.githubOAuthConfig.Client(ctx, token)
	email, name, err := githubIdentity(client)
	if err != nil {
		slog.Error("failed to get github identity", "error", err)
		h.oauthFailed(w, r)
		return
	}

	user, err := h.authService.AuthenticateOAuth(ctx, email, name, "github")
	if err != nil {
		slog.Error("oauth authentication failed", "error", err)
		h.oauthFailed(w, r)
		return
	}

	jwtToken, err := h.authService.GenerateJWT(user)
	if err != nil {
		slog.Error("failed to generate JWT", "error", err, "user_id", user.ID)
		h.oauthFailed(w, r)
		return
	}
	h.authService.SetJWTCookie(w, jwtToken, time.Now().Add(h.authService.JWTExpiry()))

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) oauthFailed(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusBadRequest)
	ui.Render(w, r, pages.Notice("Sign-in failed", "GitHub sign-in did not complete. Please try again."))
}

// githubIdentity reads the profile and, when the public email is hidden,
// the primary verified address.
func githubIdentity(client *http.Client) (email, name string, err error) {
	var user struct {
		Email string `json:"email"`
		Name  string `json:"name"`
		Login string `json:"login"`
	}
	err = getJSON(client, "https://api.github.com/user", &user)
	if err != nil {
		return "", "", err
	}

	name = user.Name
	if name == "" {
		name = user.Login
	}
	if user.Email != "" {
		return user.Email, name, nil
	}

	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	err = getJSON(client, "https://api.github.com/user/emails", &emails)
	if err != nil {
		return "", "", err
	}
	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, name, nil
		}
	}
	return "", "", errNoGitHubEmail
}

func getJSON(client *http.Client, url string, v any) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			slog.Error("failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %d", url, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

func generateOAuthState() (string, error) {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
