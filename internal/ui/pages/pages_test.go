package pages

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vibeshare/vibeshare/internal/config"
	"github.com/vibeshare/vibeshare/internal/ctxkeys"
	"github.com/vibeshare/vibeshare/internal/model"
)

func render(t *testing.T, ctx context.Context, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(ctx, &buf))
	return buf.String()
}

func strPtr(s string) *string { return &s }

func mockFeed() []*model.FeedItem {
	now := time.Date(2025, 1, 2, 15, 0, 0, 0, time.UTC)
	return []*model.FeedItem{
		{
			Post: &model.Post{
				ID:          "p2",
				UserID:      "u1",
				Title:       "Test Post 1",
				Description: strPtr("This is a test post"),
				CodeLink:    strPtr("https://github.com/test/repo"),
				Tags:        model.Tags{"react", "testing"},
				CreatedAt:   now,
			},
			Author:   &model.Profile{ID: "u1", Name: "Test User"},
			Counts:   map[model.ReactionType]int{model.ReactionFire: 3},
			Selected: model.ReactionFire,
		},
		{
			Post:   &model.Post{ID: "p1", UserID: "u2", Title: "Test Post 2", CreatedAt: now.Add(-time.Hour)},
			Counts: map[model.ReactionType]int{},
		},
	}
}

func TestPostListRendersPosts(t *testing.T) {
	html := render(t, context.Background(), PostList(mockFeed()))

	assert.Contains(t, html, "Test Post 1")
	assert.Contains(t, html, "Test Post 2")
	assert.Contains(t, html, "This is a test post")
	assert.Contains(t, html, "#react")
	assert.Contains(t, html, "#testing")
	assert.Equal(t, 1, strings.Count(html, "View Code"))
	assert.Less(t, strings.Index(html, "Test Post 1"), strings.Index(html, "Test Post 2"), "order is kept")

	assert.Contains(t, html, "Test User")
	assert.Contains(t, html, "Anonymous", "missing author falls back")
	assert.Contains(t, html, `aria-pressed="true"`)
	assert.Contains(t, html, "🔥")
	assert.Contains(t, html, "Love")
	assert.Contains(t, html, "Idea")
	assert.NotContains(t, html, "No posts yet")
}

func TestPostListEmptyState(t *testing.T) {
	html := render(t, context.Background(), PostList([]*model.FeedItem{}))

	assert.Contains(t, html, "No posts yet")
	assert.Contains(t, html, "Create Your First Post")
	assert.NotContains(t, html, "Loading posts...")
}

func TestPostCardEscapesUserContent(t *testing.T) {
	items := []*model.FeedItem{{
		Post: &model.Post{
			ID:          "p1",
			Title:       "<script>alert(1)</script>",
			Description: strPtr("**bold** <img src=x onerror=alert(1)>"),
			CodeLink:    strPtr("javascript:alert(1)"),
		},
		Counts: map[model.ReactionType]int{},
	}}

	html := render(t, context.Background(), PostList(items))

	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.NotContains(t, html, "onerror=alert(1)>")
	assert.Contains(t, html, "<strong>bold</strong>")
	assert.NotContains(t, html, `href="javascript:`)
	assert.Contains(t, html, "about:invalid#TemplFailedSanitizationURL")
}

func TestMainAppWelcome(t *testing.T) {
	html := render(t, context.Background(), MainApp(&model.Session{ID: "u1", Email: "ada@example.com"}, nil))

	assert.Contains(t, html, "Welcome back, ada! 👋")
	assert.Contains(t, html, "Loading posts...")
	assert.Contains(t, html, "Create Post")
	assert.Contains(t, html, "Sign Out")
	assert.Contains(t, html, "posts-refresh from:body")
}

func TestWelcomeName(t *testing.T) {
	session := &model.Session{ID: "u1", Email: "grace@example.com"}

	assert.Equal(t, "Grace Hopper", WelcomeName(session, &model.Profile{Name: "Grace Hopper"}))
	assert.Equal(t, "grace", WelcomeName(session, nil))
	assert.Equal(t, "grace", WelcomeName(session, &model.Profile{}))
	assert.Equal(t, "Creator", WelcomeName(&model.Session{ID: "u1"}, nil))
	assert.Equal(t, "Creator", WelcomeName(nil, nil))

	assert.Equal(t, "G", ViewerInitial(session, &model.Profile{Name: "Grace"}))
	assert.Equal(t, "g", ViewerInitial(session, nil))
	assert.Equal(t, "?", ViewerInitial(nil, nil))
}

func TestViewerInitialKeepsWholeRune(t *testing.T) {
	initial := ViewerInitial(&model.Session{ID: "u1", Email: "élodie@example.com"}, nil)

	assert.Equal(t, "é", initial)
	assert.True(t, utf8.ValidString(initial))

	html := render(t, context.Background(), MainApp(&model.Session{ID: "u1", Email: "élodie@example.com"}, nil))
	assert.Contains(t, html, ">é</span>")
}

func TestShellLoadsAfterSplashDelay(t *testing.T) {
	ctx := ctxkeys.WithConfig(context.Background(), &config.Config{AppName: "Vibeshare", AppTagline: "Code & Create", SplashDelay: time.Second})
	ctx = ctxkeys.WithCSRFToken(ctx, "tok")
	ctx = templ.WithNonce(ctx, "n0nce")

	html := render(t, ctx, Shell())

	assert.Contains(t, html, "Loading Vibeshare...")
	assert.Contains(t, html, "load delay:1000ms, session-changed from:body")
	assert.Contains(t, html, `nonce="n0nce"`)
	assert.Contains(t, html, `id="modal"`)
	assert.Contains(t, html, "tok")
}

func TestLanding(t *testing.T) {
	html := render(t, context.Background(), Landing())

	assert.Contains(t, html, "Get Started")
	assert.Contains(t, html, "Learn More")
	assert.Contains(t, html, "/auth/modal?mode=signup")
	assert.Contains(t, html, "/legal/privacy")
}

func TestAuthModalModes(t *testing.T) {
	signup := render(t, context.Background(), AuthModal(AuthForm{Mode: AuthModeSignUp, Email: "a@b.co", Name: "Ada", Error: "boom"}))
	assert.Contains(t, signup, "Create Account")
	assert.Contains(t, signup, `name="name"`)
	assert.Contains(t, signup, `value="a@b.co"`)
	assert.Contains(t, signup, `value="Ada"`)
	assert.Contains(t, signup, "boom")
	assert.Contains(t, signup, `hx-post="/auth/signup"`)
	assert.Contains(t, signup, "Maybe Later")

	signin := render(t, context.Background(), AuthModal(AuthForm{Mode: AuthModeSignIn, Success: "Signed in successfully!", SignedIn: true}))
	assert.Contains(t, signin, "Welcome Back")
	assert.NotContains(t, signin, `name="name"`)
	assert.Contains(t, signin, `hx-post="/auth/signin"`)
	assert.Contains(t, signin, "Signed in successfully!")
	assert.Contains(t, signin, "load delay:1500ms")
}

func TestCreatePostModal(t *testing.T) {
	html := render(t, context.Background(), CreatePostModal(PostForm{Title: "Kept", Tags: "a, b", Error: "Title is required"}))

	assert.Contains(t, html, "Create New Post")
	assert.Contains(t, html, "Title *")
	assert.Contains(t, html, "What did you build?")
	assert.Contains(t, html, "react, javascript, web-dev (comma separated)")
	assert.Contains(t, html, `value="Kept"`)
	assert.Contains(t, html, `value="a, b"`)
	assert.Contains(t, html, "Title is required")
	assert.Contains(t, html, "Cancel")
	assert.NotContains(t, html, `name="media"`, "upload field needs a bucket")
}

func TestReactionButtonPostsKind(t *testing.T) {
	html := render(t, context.Background(), PostList(mockFeed()))

	assert.Contains(t, html, `hx-post="/app/posts/p2/reactions"`)
	assert.Contains(t, html, `hx-vals="{&#34;kind&#34;:&#34;heart&#34;}"`)
	assert.Contains(t, html, "text-orange-400", "selected reaction is highlighted")
	assert.Contains(t, html, `<time datetime="2025-01-02T15:00:00Z">Jan 2, 2025</time>`)
}

func TestEmptyRendersNothing(t *testing.T) {
	assert.Empty(t, render(t, context.Background(), Empty()))
}

func TestNotice(t *testing.T) {
	html := render(t, context.Background(), Notice("Link expired", "Request a new one."))

	assert.Contains(t, html, "Link expired")
	assert.Contains(t, html, "Request a new one.")
	assert.Contains(t, html, "Back to Vibeshare")
}

func TestLegalRendersContent(t *testing.T) {
	html := render(t, context.Background(), Legal("Privacy Policy", "<p>We keep little.</p>", "January 1, 2025"))

	assert.Contains(t, html, "<h1 class=\"text-4xl font-bold mb-2\">Privacy Policy</h1>")
	assert.Contains(t, html, "<p>We keep little.</p>")
	assert.Contains(t, html, "Last updated January 1, 2025")
	assert.Contains(t, html, "<!doctype html>")
}

func TestNotFound(t *testing.T) {
	html := render(t, context.Background(), NotFound())

	assert.Contains(t, html, "404")
	assert.Contains(t, html, "Page not found")
}
