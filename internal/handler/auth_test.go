package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vibeshare/vibeshare/internal/service"
)

func TestModalModes(t *testing.T) {
	f := newFixture(t)

	w := httptest.NewRecorder()
	f.authH.Modal(w, f.request(http.MethodGet, "/auth/modal?mode=signin", nil, nil))
	assert.Contains(t, w.Body.String(), `hx-post="/auth/signin"`)

	w = httptest.NewRecorder()
	f.authH.Modal(w, f.request(http.MethodGet, "/auth/modal?mode=bogus", nil, nil))
	assert.Contains(t, w.Body.String(), `hx-post="/auth/signup"`)
}

func TestSignUpSuccessClearsForm(t *testing.T) {
	f := newFixture(t)
	w := httptest.NewRecorder()
	form := url.Values{"email": {"new@example.com"}, "password": {"password123"}, "name": {"New Person"}}

	f.authH.SignUp(w, f.request(http.MethodPost, "/auth/signup", form, nil))

	body := w.Body.String()
	assert.Contains(t, body, signUpSuccess)
	assert.NotContains(t, body, `value="new@example.com"`)
	assert.NotContains(t, body, `value="New Person"`)
	assert.Empty(t, w.Result().Cookies(), "sign-up does not sign in")
	assert.Equal(t, 2, f.count(t, "profiles"))
}

func TestSignUpDuplicateKeepsFields(t *testing.T) {
	f := newFixture(t)
	w := httptest.NewRecorder()
	form := url.Values{"email": {"test@example.com"}, "password": {"password123"}, "name": {"Again"}}

	f.authH.SignUp(w, f.request(http.MethodPost, "/auth/signup", form, nil))

	body := w.Body.String()
	assert.Contains(t, body, "An account with this email already exists")
	assert.Contains(t, body, `value="test@example.com"`)
	assert.Contains(t, body, `value="Again"`)
	assert.Equal(t, 1, f.count(t, "users"))
}

func TestSignUpValidationBlocksBackend(t *testing.T) {
	f := newFixture(t)
	w := httptest.NewRecorder()
	form := url.Values{"email": {"fresh@example.com"}, "password": {"123"}, "name": {"Short"}}

	f.authH.SignUp(w, f.request(http.MethodPost, "/auth/signup", form, nil))

	assert.Contains(t, w.Body.String(), "Password must be at least 6 characters")
	assert.Equal(t, 1, f.count(t, "users"))
}

func TestSignInSetsCookie(t *testing.T) {
	f := newFixture(t)
	w := httptest.NewRecorder()
	form := url.Values{"email": {"test@example.com"}, "password": {"password123"}}

	f.authH.SignIn(w, f.request(http.MethodPost, "/auth/signin", form, nil))

	body := w.Body.String()
	assert.Contains(t, body, signInSuccess)
	assert.Contains(t, body, "load delay:1500ms")

	var token string
	for _, c := range w.Result().Cookies() {
		if c.Name == service.AuthCookieName {
			token = c.Value
		}
	}
	require.NotEmpty(t, token)

	session, err := f.auth.Session(t.Context(), token)
	require.NoError(t, err)
	assert.Equal(t, f.viewer.ID, session.ID)
}

func TestSignInWrongPassword(t *testing.T) {
	f := newFixture(t)
	w := httptest.NewRecorder()
	form := url.Values{"email": {"test@example.com"}, "password": {"wrong-password"}}

	f.authH.SignIn(w, f.request(http.MethodPost, "/auth/signin", form, nil))

	assert.Contains(t, w.Body.String(), "Invalid email or password")
	assert.Contains(t, w.Body.String(), `value="test@example.com"`)
	assert.Empty(t, w.Result().Cookies())
}

func TestLogout(t *testing.T) {
	f := newFixture(t)

	w := httptest.NewRecorder()
	f.authH.Logout(w, f.request(http.MethodPost, "/auth/logout", url.Values{}, f.viewer))
	assert.Equal(t, "session-changed", w.Header().Get("HX-Trigger"))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, service.AuthCookieName, cookies[0].Name)
	assert.Negative(t, cookies[0].MaxAge)

	r := f.request(http.MethodPost, "/auth/logout", url.Values{}, f.viewer)
	r.Header.Del("HX-Request")
	w = httptest.NewRecorder()
	f.authH.Logout(w, r)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestVerifyEmailRejectsUnknownToken(t *testing.T) {
	f := newFixture(t)
	w := httptest.NewRecorder()

	r := f.request(http.MethodGet, "/auth/verify/nope", nil, nil)
	r.SetPathValue("token", "nope")
	f.authH.VerifyEmail(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid or has expired")
}

func TestVerifyEmailSignsIn(t *testing.T) {
	f := newFixture(t)
	var token string
	require.NoError(t, f.db.Get(&token, `SELECT token FROM tokens WHERE user_id = $1`, f.viewer.ID))
	w := httptest.NewRecorder()

	r := f.request(http.MethodGet, "/auth/verify/"+token, nil, nil)
	r.SetPathValue("token", token)
	f.authH.VerifyEmail(w, r)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	var verified int
	require.NoError(t, f.db.Get(&verified, `SELECT COUNT(*) FROM users WHERE email_verified_at IS NOT NULL`))
	assert.Equal(t, 1, verified)
}

func TestGitHubDisabled(t *testing.T) {
	f := newFixture(t)
	w := httptest.NewRecorder()

	f.authH.GitHubLogin(w, f.request(http.MethodGet, "/auth/github", nil, nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFormMessageHidesInternalErrors(t *testing.T) {
	assert.Equal(t, "Invalid email or password", formMessage(service.ErrInvalidCredentials, authFormErrors))
	assert.Equal(t, genericError, formMessage(assert.AnError, authFormErrors))
}
