package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vibeshare/vibeshare/internal/ctxkeys"
	"github.com/vibeshare/vibeshare/internal/model"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestCSRFProtection(t *testing.T) {
	var seen string
	h := CSRFProtection(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ctxkeys.CSRFToken(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, seen)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, seen, cookie.Value)

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/app/posts", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("header token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/app/posts", nil)
		req.AddCookie(cookie)
		req.Header.Set(CSRFHeader, cookie.Value)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("form token", func(t *testing.T) {
		form := url.Values{CSRFFormField: {cookie.Value}}
		req := httptest.NewRequest(http.MethodPost, "/auth/signin", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestNonceAndSecurityHeaders(t *testing.T) {
	var nonce string
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nonce = templ.GetNonce(r.Context())
	}), NonceMiddleware, SecurityHeaders(true))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotEmpty(t, nonce)
	csp := rec.Header().Get("Content-Security-Policy")
	assert.Contains(t, csp, "'nonce-"+nonce+"'")
	assert.Contains(t, csp, "frame-ancestors 'none'")
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestRequireAuth(t *testing.T) {
	h := RequireAuth(okHandler)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/app/posts", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/app/posts", nil)
	req.Header.Set("HX-Request", "true")
	rec = httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, "/", rec.Header().Get("HX-Redirect"))

	req = httptest.NewRequest(http.MethodGet, "/app/posts", nil)
	req = req.WithContext(ctxkeys.WithSession(req.Context(), &model.Session{ID: "u1"}))
	rec = httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireGuest(t *testing.T) {
	h := RequireGuest(okHandler)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/auth/modal", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/auth/modal", nil)
	req = req.WithContext(ctxkeys.WithSession(req.Context(), &model.Session{ID: "u1"}))
	rec = httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	Chain(http.HandlerFunc(okHandler), mw("a"), mw("b"), mw("c")).
		ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"a", "b", "c"}, order)
}
