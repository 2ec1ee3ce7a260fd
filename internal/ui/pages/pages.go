// Package pages holds the templ views and the small helpers they share.
package pages

import (
	"encoding/json"
	"html"
	"unicode/utf8"

	"github.com/a-h/templ"
	"github.com/vibeshare/vibeshare/internal/markdown"
	"github.com/vibeshare/vibeshare/internal/model"
)

var md = markdown.NewParser()

// WelcomeName picks profile name, then email local part, then "Creator".
func WelcomeName(session *model.Session, profile *model.Profile) string {
	if profile != nil && profile.Name != "" {
		return profile.Name
	}
	if session != nil {
		if name := session.EmailName(); name != "" {
			return name
		}
	}
	return "Creator"
}

// ViewerInitial is the avatar letter in the header.
func ViewerInitial(session *model.Session, profile *model.Profile) string {
	if profile != nil && profile.Name != "" {
		return profile.Initial()
	}
	if session != nil && session.Email != "" {
		r, _ := utf8.DecodeRuneInString(session.Email)
		return string(r)
	}
	return "?"
}

const (
	AuthModeSignUp = "signup"
	AuthModeSignIn = "signin"
)

type AuthForm struct {
	Mode    string
	Email   string
	Name    string
	Error   string
	Success string
	// SignedIn schedules the shell reload that closes the modal.
	SignedIn bool
}

func (f AuthForm) IsSignUp() bool {
	return f.Mode == AuthModeSignUp
}

// AuthModal renders the sign in / sign up modal. Unknown modes fall back
// to sign up.
func AuthModal(form AuthForm) templ.Component {
	if form.Mode != AuthModeSignIn {
		form.Mode = AuthModeSignUp
	}
	return authModal(form)
}

type PostForm struct {
	Title       string
	Description string
	MediaURL    string
	CodeLink    string
	Tags        string
	Error       string
}

// Empty renders nothing. Swapping it into #modal closes the modal.
func Empty() templ.Component {
	return templ.NopComponent
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// renderMarkdown turns a post description into HTML. The parser drops raw
// HTML, so the result is trusted.
func renderMarkdown(s string) string {
	out, err := md.Parse([]byte(s))
	if err != nil {
		return html.EscapeString(s)
	}
	return string(out)
}

var reactionColors = map[model.ReactionType]string{
	model.ReactionFire:  "text-orange-400 border-orange-400 bg-orange-950",
	model.ReactionHeart: "text-red-400 border-red-400 bg-red-950",
	model.ReactionIdea:  "text-yellow-300 border-yellow-300 bg-yellow-950",
}

// reactionClass highlights the viewer's current reaction.
func reactionClass(kind, selected model.ReactionType) string {
	if kind != selected {
		return ""
	}
	return reactionColors[kind]
}

func reactionVals(kind model.ReactionType) string {
	b, _ := json.Marshal(map[string]string{"kind": string(kind)})
	return string(b)
}
