package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/vibeshare/vibeshare/internal/service"
	"github.com/vibeshare/vibeshare/internal/ui"
	"github.com/vibeshare/vibeshare/internal/ui/pages"
)

type LegalHandler struct {
	legalService *service.LegalService
}

func NewLegalHandler(legalService *service.LegalService) *LegalHandler {
	return &LegalHandler{
		legalService: legalService,
	}
}

func (h *LegalHandler) ShowPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.legalService.Page(r.PathValue("page"))
	if err != nil {
		if !errors.Is(err, service.ErrPageNotFound) {
			slog.Error("failed to load legal page", "error", err, "page", r.PathValue("page"))
		}
		w.WriteHeader(http.StatusNotFound)
		ui.Render(w, r, pages.NotFound())
		return
	}

	ui.Render(w, r, pages.Legal(page.Title, page.Content, page.LastUpdated))
}
