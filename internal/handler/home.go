package handler

import (
	"net/http"

	"github.com/vibeshare/vibeshare/internal/ctxkeys"
	"github.com/vibeshare/vibeshare/internal/ui"
	"github.com/vibeshare/vibeshare/internal/ui/pages"
)

type HomeHandler struct{}

func NewHomeHandler() *HomeHandler {
	return &HomeHandler{}
}

// Shell renders the document with the loading spinner. The content is
// fetched from /shell once the splash delay has passed.
func (h *HomeHandler) Shell(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, pages.Shell())
}

// ShellContent renders the main view for a session and the landing page
// otherwise. Any open modal is closed.
func (h *HomeHandler) ShellContent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := ctxkeys.Session(ctx)

	if session != nil {
		ui.Render(w, r, pages.MainApp(session, ctxkeys.Profile(ctx)))
	} else {
		ui.Render(w, r, pages.Landing())
	}

	ui.RenderOOB(w, r, pages.Empty(), "innerHTML:#modal")
}

// CloseModal answers with an empty body; swapped into #modal it closes
// whatever dialog is open.
func (h *HomeHandler) CloseModal(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, pages.Empty())
}

func (h *HomeHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	ui.Render(w, r, pages.NotFound())
}
