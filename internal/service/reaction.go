package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vibeshare/vibeshare/internal/model"
	"github.com/vibeshare/vibeshare/internal/repository"
)

var (
	ErrInvalidReaction = errors.New("unknown reaction")
	ErrPostRequired    = errors.New("post is required")
	ErrPostNotFound    = repository.ErrPostNotFound
)

type ReactionService struct {
	postRepo     repository.PostRepository
	reactionRepo repository.ReactionRepository
}

func NewReactionService(postRepo repository.PostRepository, reactionRepo repository.ReactionRepository) *ReactionService {
	return &ReactionService{
		postRepo:     postRepo,
		reactionRepo: reactionRepo,
	}
}

// React sets the viewer's reaction on a post, replacing an earlier one.
// Without a viewer nothing is sent to the database.
func (s *ReactionService) React(ctx context.Context, viewer *model.Session, postID string, kind model.ReactionType) error {
	if viewer == nil {
		return ErrUnauthenticated
	}
	if !kind.Valid() {
		return ErrInvalidReaction
	}
	if postID == "" {
		return ErrPostRequired
	}

	_, err := s.postRepo.ByID(ctx, postID)
	if errors.Is(err, repository.ErrPostNotFound) {
		return ErrPostNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load post: %w", err)
	}

	err = s.reactionRepo.Upsert(ctx, &model.Reaction{
		PostID:       postID,
		UserID:       viewer.ID,
		ReactionType: kind,
	})
	if err != nil {
		return fmt.Errorf("failed to save reaction: %w", err)
	}

	slog.Debug("reaction saved", "post_id", postID, "user_id", viewer.ID, "type", kind)
	return nil
}
