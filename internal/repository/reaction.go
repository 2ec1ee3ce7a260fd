package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/vibeshare/vibeshare/internal/model"
)

type ReactionRepository interface {
	// Upsert records the viewer's reaction on a post, replacing any previous
	// one. Uniqueness of (post_id, user_id) is enforced by the schema.
	Upsert(ctx context.Context, reaction *model.Reaction) error
	Counts(ctx context.Context, postIDs []string) ([]*model.ReactionCount, error)
	ByUser(ctx context.Context, userID string, postIDs []string) ([]*model.Reaction, error)
}

type reactionRepository struct {
	db *sqlx.DB
}

func NewReactionRepository(db *sqlx.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

func (r *reactionRepository) Upsert(ctx context.Context, reaction *model.Reaction) error {
	if reaction.ID == "" {
		reaction.ID = uuid.New().String()
	}
	now := time.Now()
	if reaction.CreatedAt.IsZero() {
		reaction.CreatedAt = now
	}
	reaction.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reactions (id, post_id, user_id, reaction_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (post_id, user_id)
		DO UPDATE SET reaction_type = excluded.reaction_type, updated_at = excluded.updated_at
	`, reaction.ID, reaction.PostID, reaction.UserID, reaction.ReactionType, reaction.CreatedAt, reaction.UpdatedAt)

	return err
}

func (r *reactionRepository) Counts(ctx context.Context, postIDs []string) ([]*model.ReactionCount, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT post_id, reaction_type, COUNT(*) AS count
		FROM reactions
		WHERE post_id IN (?)
		GROUP BY post_id, reaction_type
	`, postIDs)
	if err != nil {
		return nil, err
	}

	var counts []*model.ReactionCount
	err = r.db.SelectContext(ctx, &counts, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *reactionRepository) ByUser(ctx context.Context, userID string, postIDs []string) ([]*model.Reaction, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM reactions WHERE user_id = ? AND post_id IN (?)`, userID, postIDs)
	if err != nil {
		return nil, err
	}

	var reactions []*model.Reaction
	err = r.db.SelectContext(ctx, &reactions, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	return reactions, nil
}
