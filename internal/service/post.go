package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vibeshare/vibeshare/internal/model"
	"github.com/vibeshare/vibeshare/internal/repository"
	"github.com/vibeshare/vibeshare/internal/validation"
)

var (
	ErrUnauthenticated  = errors.New("you must be signed in")
	ErrTitleRequired    = errors.New("Title is required")
	ErrInvalidMediaURL  = errors.New("media URL must be an http(s) link")
	ErrInvalidCodeLink  = errors.New("code link must be an http(s) link")
	ErrUploadsDisabled  = errors.New("media uploads are not enabled")
	ErrMediaURLConflict = errors.New("use either a media URL or an upload, not both")
)

type CreatePostInput struct {
	Title       string
	Description string
	MediaURL    string
	CodeLink    string
	Tags        string
	// Media is an optional uploaded image, used instead of MediaURL.
	Media *multipart.FileHeader
}

// ValidatePost checks the form before anything touches the database.
func ValidatePost(in CreatePostInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return ErrTitleRequired
	}
	if validation.ValidateURL(in.MediaURL) != nil {
		return ErrInvalidMediaURL
	}
	if validation.ValidateURL(in.CodeLink) != nil {
		return ErrInvalidCodeLink
	}
	if in.Media != nil && strings.TrimSpace(in.MediaURL) != "" {
		return ErrMediaURLConflict
	}
	return nil
}

type PostService struct {
	postRepo     repository.PostRepository
	reactionRepo repository.ReactionRepository
	profiles     *ProfileService
	files        *FileService // nil when uploads are disabled
}

func NewPostService(
	postRepo repository.PostRepository,
	reactionRepo repository.ReactionRepository,
	profiles *ProfileService,
	files *FileService,
) *PostService {
	return &PostService{
		postRepo:     postRepo,
		reactionRepo: reactionRepo,
		profiles:     profiles,
		files:        files,
	}
}

// Create stores a post owned by the viewer. Blank optional fields are
// stored as NULL and tags are parsed from the comma separated input.
func (s *PostService) Create(ctx context.Context, viewer *model.Session, in CreatePostInput) (*model.Post, error) {
	if viewer == nil {
		return nil, ErrUnauthenticated
	}
	err := ValidatePost(in)
	if err != nil {
		return nil, err
	}

	post := &model.Post{
		ID:          uuid.New().String(),
		UserID:      viewer.ID,
		Title:       strings.TrimSpace(in.Title),
		Description: model.OptionalString(in.Description),
		MediaURL:    model.OptionalString(in.MediaURL),
		CodeLink:    model.OptionalString(in.CodeLink),
		Tags:        model.ParseTags(in.Tags),
		CreatedAt:   time.Now(),
	}

	var upload *model.File
	if in.Media != nil {
		if s.files == nil {
			return nil, ErrUploadsDisabled
		}
		upload, err = s.files.UploadPostMedia(ctx, viewer, post.ID, in.Media)
		if err != nil {
			return nil, err
		}
		// Presigned links expire, so the post points at the redirecting route.
		url := MediaPath(upload.ID)
		post.MediaURL = &url
	}

	err = s.postRepo.Create(ctx, post)
	if err != nil {
		if upload != nil {
			delErr := s.files.Delete(ctx, upload.ID)
			if delErr != nil {
				slog.Error("failed to clean up media after failed post", "error", delErr, "file_id", upload.ID)
			}
		}
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	slog.Info("post created", "post_id", post.ID, "user_id", viewer.ID)
	return post, nil
}

// Feed returns every post newest first with author, reaction counts and
// the viewer's own reaction. When ctx is done between fetches the partial
// result is discarded and ctx.Err() returned.
func (s *PostService) Feed(ctx context.Context, viewer *model.Session) ([]*model.FeedItem, error) {
	posts, err := s.postRepo.Posts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	if err = ctx.Err(); err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return []*model.FeedItem{}, nil
	}

	postIDs := make([]string, len(posts))
	ownerIDs := make([]string, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
		ownerIDs[i] = p.UserID
	}

	authors, err := s.profiles.ByIDs(ctx, ownerIDs)
	if err != nil {
		// Cards still render with the anonymous fallback.
		slog.Warn("failed to load post authors", "error", err)
		authors = map[string]*model.Profile{}
	}
	if err = ctx.Err(); err != nil {
		return nil, err
	}

	counts, err := s.reactionRepo.Counts(ctx, postIDs)
	if err != nil {
		slog.Warn("failed to load reaction counts", "error", err)
	}

	selected := map[string]model.ReactionType{}
	if viewer != nil {
		mine, err := s.reactionRepo.ByUser(ctx, viewer.ID, postIDs)
		if err != nil {
			slog.Warn("failed to load viewer reactions", "error", err, "user_id", viewer.ID)
		}
		for _, r := range mine {
			selected[r.PostID] = r.ReactionType
		}
	}
	if err = ctx.Err(); err != nil {
		return nil, err
	}

	items := make([]*model.FeedItem, len(posts))
	byPost := make(map[string]*model.FeedItem, len(posts))
	for i, p := range posts {
		items[i] = &model.FeedItem{
			Post:     p,
			Author:   authors[p.UserID],
			Counts:   map[model.ReactionType]int{},
			Selected: selected[p.ID],
		}
		byPost[p.ID] = items[i]
	}
	for _, c := range counts {
		if item, ok := byPost[c.PostID]; ok {
			item.Counts[c.ReactionType] = c.Count
		}
	}

	return items, nil
}
