package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/vibeshare/vibeshare/internal/model"
)

var (
	ErrPostNotFound = errors.New("post not found")
)

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	ByID(ctx context.Context, id string) (*model.Post, error)
	// Posts returns every post, newest first.
	Posts(ctx context.Context) ([]*model.Post, error)
}

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	query := `INSERT INTO posts (id, user_id, title, description, media_url, code_link, tags, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		post.ID,
		post.UserID,
		post.Title,
		post.Description,
		post.MediaURL,
		post.CodeLink,
		post.Tags,
		post.CreatedAt,
	)

	return err
}

func (r *postRepository) ByID(ctx context.Context, id string) (*model.Post, error) {
	post := &model.Post{}
	err := r.db.GetContext(ctx, post, `SELECT * FROM posts WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (r *postRepository) Posts(ctx context.Context) ([]*model.Post, error) {
	var posts []*model.Post
	// id breaks ties so equal timestamps still list in a stable order
	err := r.db.SelectContext(ctx, &posts, `SELECT * FROM posts ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	return posts, nil
}
