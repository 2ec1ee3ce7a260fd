package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/vibeshare/vibeshare/internal/model"
)

type ProfileRepository interface {
	ByID(ctx context.Context, id string) (*model.Profile, error)
	// ByIDs fetches all requested profiles in one query. Unknown ids are
	// absent from the result.
	ByIDs(ctx context.Context, ids []string) ([]*model.Profile, error)
	// CreateIfMissing inserts the profile unless one already exists for its id.
	CreateIfMissing(ctx context.Context, profile *model.Profile) error
}

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) ByID(ctx context.Context, id string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.GetContext(ctx, &profile, `SELECT * FROM profiles WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) ByIDs(ctx context.Context, ids []string) ([]*model.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM profiles WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}

	var profiles []*model.Profile
	err = r.db.SelectContext(ctx, &profiles, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *profileRepository) CreateIfMissing(ctx context.Context, profile *model.Profile) error {
	now := time.Now()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	if profile.UpdatedAt.IsZero() {
		profile.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (id, name, avatar_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`, profile.ID, profile.Name, profile.AvatarURL, profile.CreatedAt, profile.UpdatedAt)

	return err
}
