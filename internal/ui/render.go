package ui

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
)

func Render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	err := c.Render(r.Context(), w)
	if err != nil {
		slog.Error("render failed", "error", err, "path", r.URL.Path)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// RenderOOB renders c inside an out-of-band swap wrapper, e.g.
// target "innerHTML:#modal" replaces the content of #modal.
func RenderOOB(w http.ResponseWriter, r *http.Request, c templ.Component, target string) {
	_, err := fmt.Fprintf(w, `<div hx-swap-oob="%s">`, templ.EscapeString(target))
	if err != nil {
		slog.Error("render oob write wrapper start failed", "error", err)
		return
	}

	err = c.Render(r.Context(), w)
	if err != nil {
		slog.Error("render oob component render failed", "error", err)
		return
	}

	_, err = w.Write([]byte(`</div>`))
	if err != nil {
		slog.Error("render oob write wrapper end failed", "error", err)
	}
}

// Trigger sets the HX-Trigger header so htmx fires the given events on
// the client after the swap.
func Trigger(w http.ResponseWriter, events ...string) {
	if len(events) == 0 {
		return
	}
	value := events[0]
	for _, e := range events[1:] {
		value += ", " + e
	}
	w.Header().Set("HX-Trigger", value)
}
