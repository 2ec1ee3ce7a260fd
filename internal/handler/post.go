package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/vibeshare/vibeshare/internal/ctxkeys"
	"github.com/vibeshare/vibeshare/internal/model"
	"github.com/vibeshare/vibeshare/internal/service"
	"github.com/vibeshare/vibeshare/internal/ui"
	"github.com/vibeshare/vibeshare/internal/ui/components/toast"
	"github.com/vibeshare/vibeshare/internal/ui/pages"
	"github.com/vibeshare/vibeshare/internal/validation"
)

// maxPostBody leaves room for the text fields next to the largest upload.
const maxPostBody = validation.MaxPostMediaSize + 1<<20

type PostHandler struct {
	postService     *service.PostService
	reactionService *service.ReactionService
	fileService     *service.FileService // nil when uploads are disabled
}

func NewPostHandler(postService *service.PostService, reactionService *service.ReactionService, fileService *service.FileService) *PostHandler {
	return &PostHandler{
		postService:     postService,
		reactionService: reactionService,
		fileService:     fileService,
	}
}

// List renders the whole feed. When the client has gone away mid-query
// nothing is rendered.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	items, err := h.postService.Feed(ctx, ctxkeys.Session(ctx))
	if err != nil {
		if ctx.Err() != nil {
			slog.Debug("feed request abandoned", "error", err)
			return
		}
		slog.Error("failed to load feed", "error", err)
		http.Error(w, "failed to load posts", http.StatusInternalServerError)
		return
	}

	ui.Render(w, r, pages.PostList(items))
}

func (h *PostHandler) NewDialog(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, pages.CreatePostModal(pages.PostForm{}))
}

// Create stores a post. On success the modal closes, the feed refreshes
// and a toast confirms; on failure the form comes back with its values.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPostBody)

	form := pages.PostForm{}
	err := r.ParseMultipartForm(maxPostBody)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		slog.Warn("failed to parse post form", "error", err)
		form.Error = "The upload is too large or malformed."
		ui.Render(w, r, pages.CreatePostModal(form))
		return
	}

	in := service.CreatePostInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		MediaURL:    r.FormValue("media_url"),
		CodeLink:    r.FormValue("code_link"),
		Tags:        r.FormValue("tags"),
	}
	if r.MultipartForm != nil {
		files := r.MultipartForm.File["media"]
		if len(files) > 0 && files[0].Size > 0 {
			in.Media = files[0]
		}
	}
	form = pages.PostForm{
		Title:       in.Title,
		Description: in.Description,
		MediaURL:    in.MediaURL,
		CodeLink:    in.CodeLink,
		Tags:        in.Tags,
	}

	err = service.ValidatePost(in)
	if err != nil {
		form.Error = formMessage(err, postFormErrors)
		ui.Render(w, r, pages.CreatePostModal(form))
		return
	}

	ctx := r.Context()
	_, err = h.postService.Create(ctx, ctxkeys.Session(ctx), in)
	if err != nil {
		slog.Warn("failed to create post", "error", err)
		form.Error = formMessage(err, postFormErrors)
		ui.Render(w, r, pages.CreatePostModal(form))
		return
	}

	ui.Trigger(w, "posts-refresh")
	ui.Render(w, r, pages.Empty())
	ui.RenderOOB(w, r, toast.Toast(toast.Props{Description: "Post created!", Variant: toast.VariantSuccess}), "beforeend:#toast")
}

// React records the viewer's reaction. The feed is refreshed whatever the
// outcome; failures are only logged.
func (h *PostHandler) React(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	postID := r.PathValue("id")
	kind := model.ReactionType(r.FormValue("kind"))

	err := h.reactionService.React(ctx, ctxkeys.Session(ctx), postID, kind)
	if err != nil {
		slog.Warn("failed to save reaction", "error", err, "post_id", postID, "type", kind)
	}

	ui.Trigger(w, "posts-refresh")
	w.WriteHeader(http.StatusOK)
}

// Media redirects to a fresh storage URL for an uploaded image.
func (h *PostHandler) Media(w http.ResponseWriter, r *http.Request) {
	if h.fileService == nil {
		http.NotFound(w, r)
		return
	}

	url, err := h.fileService.URL(r.Context(), r.PathValue("id"))
	if err != nil {
		slog.Debug("media lookup failed", "error", err, "file_id", r.PathValue("id"))
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Cache-Control", "private, max-age=300")
	http.Redirect(w, r, url, http.StatusFound)
}
