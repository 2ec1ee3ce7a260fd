package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vibeshare/vibeshare/internal/model"
)

func newPostService(posts *fakePostRepo, reactions *fakeReactionRepo, profiles *fakeProfileRepo) *PostService {
	return NewPostService(posts, reactions, NewProfileService(profiles, nil), nil)
}

func strPtr(s string) *string { return &s }

func TestPostServiceCreate(t *testing.T) {
	posts := &fakePostRepo{}
	svc := newPostService(posts, &fakeReactionRepo{}, &fakeProfileRepo{})
	viewer := &model.Session{ID: "u1", Email: "test@example.com"}

	post, err := svc.Create(context.Background(), viewer, CreatePostInput{
		Title:       "New Test Post",
		Description: "A new post for testing.",
		Tags:        "new,test",
	})
	require.NoError(t, err)

	require.Len(t, posts.created, 1)
	assert.Same(t, post, posts.created[0])
	assert.Equal(t, "u1", post.UserID)
	assert.Equal(t, "New Test Post", post.Title)
	assert.Equal(t, "A new post for testing.", *post.Description)
	assert.Equal(t, model.Tags{"new", "test"}, post.Tags)
	assert.Nil(t, post.MediaURL)
	assert.Nil(t, post.CodeLink)
}

func TestPostServiceCreateTitleOnly(t *testing.T) {
	posts := &fakePostRepo{}
	svc := newPostService(posts, &fakeReactionRepo{}, &fakeProfileRepo{})

	post, err := svc.Create(context.Background(), &model.Session{ID: "u1"}, CreatePostInput{
		Title:       "  Just a title  ",
		Description: "   ",
		Tags:        " , ,",
	})
	require.NoError(t, err)

	assert.Equal(t, "Just a title", post.Title)
	assert.Nil(t, post.Description)
	assert.Nil(t, post.MediaURL)
	assert.Nil(t, post.CodeLink)
	assert.Nil(t, post.Tags)
}

func TestPostServiceCreateRejectsBeforeInsert(t *testing.T) {
	tests := []struct {
		name   string
		viewer *model.Session
		input  CreatePostInput
		want   error
	}{
		{"no session", nil, CreatePostInput{Title: "Hello"}, ErrUnauthenticated},
		{"blank title", &model.Session{ID: "u1"}, CreatePostInput{Title: "   "}, ErrTitleRequired},
		{"bad media url", &model.Session{ID: "u1"}, CreatePostInput{Title: "Hi", MediaURL: "javascript:alert(1)"}, ErrInvalidMediaURL},
		{"bad code link", &model.Session{ID: "u1"}, CreatePostInput{Title: "Hi", CodeLink: "repo"}, ErrInvalidCodeLink},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts := &fakePostRepo{}
			svc := newPostService(posts, &fakeReactionRepo{}, &fakeProfileRepo{})

			_, err := svc.Create(context.Background(), tt.viewer, tt.input)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, posts.created)
		})
	}
}

func TestPostServiceCreateWrapsStoreError(t *testing.T) {
	storeErr := errors.New("insert failed")
	svc := newPostService(&fakePostRepo{err: storeErr}, &fakeReactionRepo{}, &fakeProfileRepo{})

	_, err := svc.Create(context.Background(), &model.Session{ID: "u1"}, CreatePostInput{Title: "Hi"})
	assert.ErrorIs(t, err, storeErr)
}

func TestPostServiceFeed(t *testing.T) {
	now := time.Now()
	posts := &fakePostRepo{posts: []*model.Post{
		{ID: "p2", UserID: "u1", Title: "Newest", CreatedAt: now},
		{ID: "p1", UserID: "u2", Title: "Middle", CreatedAt: now.Add(-time.Minute)},
		{ID: "p0", UserID: "u1", Title: "Oldest", CreatedAt: now.Add(-time.Hour), CodeLink: strPtr("https://github.com/x")},
	}}
	reactions := &fakeReactionRepo{
		counts: []*model.ReactionCount{
			{PostID: "p2", ReactionType: model.ReactionFire, Count: 2},
			{PostID: "p0", ReactionType: model.ReactionIdea, Count: 1},
		},
		mine: []*model.Reaction{{PostID: "p2", UserID: "u2", ReactionType: model.ReactionFire}},
	}
	profiles := &fakeProfileRepo{profiles: map[string]*model.Profile{
		"u1": {ID: "u1", Name: "Ada"},
	}}
	svc := newPostService(posts, reactions, profiles)

	items, err := svc.Feed(context.Background(), &model.Session{ID: "u2"})
	require.NoError(t, err)

	require.Len(t, items, 3)
	assert.Equal(t, "Newest", items[0].Post.Title)
	assert.Equal(t, "Middle", items[1].Post.Title)
	assert.Equal(t, "Oldest", items[2].Post.Title)

	require.Len(t, profiles.lookups, 1, "authors are fetched in one batch")
	assert.ElementsMatch(t, []string{"u1", "u2"}, profiles.lookups[0])

	assert.Equal(t, "Ada", items[0].Author.DisplayName())
	assert.Nil(t, items[1].Author)
	assert.Equal(t, "Anonymous", items[1].Author.DisplayName())

	assert.Equal(t, 2, items[0].Counts[model.ReactionFire])
	assert.Equal(t, model.ReactionFire, items[0].Selected)
	assert.Empty(t, items[1].Selected)
	assert.Equal(t, 1, items[2].Counts[model.ReactionIdea])
}

func TestPostServiceFeedEmpty(t *testing.T) {
	reactions := &fakeReactionRepo{}
	svc := newPostService(&fakePostRepo{}, reactions, &fakeProfileRepo{})

	items, err := svc.Feed(context.Background(), &model.Session{ID: "u1"})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, reactions.calls)
}

func TestPostServiceFeedDiscardsResultsWhenClientGone(t *testing.T) {
	posts := &fakePostRepo{posts: []*model.Post{{ID: "p1", UserID: "u1", Title: "Hi"}}}
	profiles := &fakeProfileRepo{}
	svc := newPostService(posts, &fakeReactionRepo{}, profiles)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items, err := svc.Feed(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, items)
	assert.Empty(t, profiles.lookups)
}
