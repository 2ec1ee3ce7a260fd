package repository

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vibeshare/vibeshare/internal/db"
	"github.com/vibeshare/vibeshare/internal/model"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()

	conn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)"
	database, err := db.Init(ctx, "sqlite", conn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, db.RunMigrations(ctx, database.DB, "sqlite"))
	return database
}

func createAccount(t *testing.T, users UserRepository, email, name string) *model.User {
	t.Helper()
	now := time.Now().UTC()
	user := &model.User{ID: uuid.New().String(), Email: email, CreatedAt: now}
	profile := &model.Profile{ID: user.ID, Name: name, AvatarURL: model.AvatarURLFor(name), CreatedAt: now, UpdatedAt: now}
	require.NoError(t, users.CreateWithProfile(context.Background(), user, profile))
	return user
}

func TestUserRepositoryCreateWithProfile(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	users := NewUserRepository(database)
	profiles := NewProfileRepository(database)

	user := createAccount(t, users, "ada@example.com", "Ada")

	got, err := users.ByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.False(t, got.IsVerified())

	profile, err := profiles.ByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.Name)

	require.NoError(t, users.MarkVerified(ctx, user.ID, time.Now().UTC()))
	got, err = users.ByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, got.IsVerified())
}

func TestUserRepositoryCreateIsAtomic(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	users := NewUserRepository(database)

	first := createAccount(t, users, "dup@example.com", "First")

	// Same email: user insert fails, so the profile must not be written either.
	now := time.Now().UTC()
	second := &model.User{ID: uuid.New().String(), Email: "dup@example.com", CreatedAt: now}
	err := users.CreateWithProfile(ctx, second, &model.Profile{ID: second.ID, Name: "Second", CreatedAt: now, UpdatedAt: now})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	// Profile insert fails (existing id): the new user row is rolled back.
	third := &model.User{ID: uuid.New().String(), Email: "third@example.com", CreatedAt: now}
	err = users.CreateWithProfile(ctx, third, &model.Profile{ID: first.ID, Name: "Clash", CreatedAt: now, UpdatedAt: now})
	require.Error(t, err)

	_, err = users.ByEmail(ctx, "third@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	var count int
	require.NoError(t, database.Get(&count, `SELECT COUNT(*) FROM profiles`))
	assert.Equal(t, 1, count)
}

func TestProfileRepositoryByIDsAndCreateIfMissing(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	users := NewUserRepository(database)
	profiles := NewProfileRepository(database)

	a := createAccount(t, users, "a@example.com", "A")
	b := createAccount(t, users, "b@example.com", "B")

	got, err := profiles.ByIDs(ctx, []string{a.ID, b.ID, "missing"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = profiles.ByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	// Existing profile is left untouched.
	require.NoError(t, profiles.CreateIfMissing(ctx, &model.Profile{ID: a.ID, Name: "Other"}))
	profile, err := profiles.ByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", profile.Name)

	_, err = profiles.ByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestPostRepositoryOrdersNewestFirst(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	users := NewUserRepository(database)
	posts := NewPostRepository(database)

	author := createAccount(t, users, "author@example.com", "Author")
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, title := range []string{"oldest", "middle", "newest"} {
		require.NoError(t, posts.Create(ctx, &model.Post{
			ID:        uuid.New().String(),
			UserID:    author.ID,
			Title:     title,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	list, err := posts.Posts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "newest", list[0].Title)
	assert.Equal(t, "middle", list[1].Title)
	assert.Equal(t, "oldest", list[2].Title)
}

func TestPostRepositoryStoresAbsentOptionalFields(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	users := NewUserRepository(database)
	posts := NewPostRepository(database)

	author := createAccount(t, users, "author@example.com", "Author")
	post := &model.Post{ID: uuid.New().String(), UserID: author.ID, Title: "Only a title", CreatedAt: time.Now().UTC()}
	require.NoError(t, posts.Create(ctx, post))

	var nulls struct {
		Description *string `db:"description"`
		Tags        *string `db:"tags"`
	}
	require.NoError(t, database.Get(&nulls, `SELECT description, tags FROM posts WHERE id = $1`, post.ID))
	assert.Nil(t, nulls.Description)
	assert.Nil(t, nulls.Tags)

	tagged := &model.Post{ID: uuid.New().String(), UserID: author.ID, Title: "Tagged", Tags: model.Tags{"go", "htmx"}, CreatedAt: time.Now().UTC()}
	require.NoError(t, posts.Create(ctx, tagged))

	got, err := posts.ByID(ctx, tagged.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Tags{"go", "htmx"}, got.Tags)

	_, err = posts.ByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestPostRepositoryRejectsBlankTitle(t *testing.T) {
	database := newTestDB(t)
	users := NewUserRepository(database)
	posts := NewPostRepository(database)

	author := createAccount(t, users, "author@example.com", "Author")
	err := posts.Create(context.Background(), &model.Post{ID: uuid.New().String(), UserID: author.ID, Title: "  ", CreatedAt: time.Now().UTC()})
	assert.Error(t, err)
}

func TestReactionRepositoryUpsertKeepsOneRowPerViewer(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	users := NewUserRepository(database)
	posts := NewPostRepository(database)
	reactions := NewReactionRepository(database)

	author := createAccount(t, users, "author@example.com", "Author")
	viewer := createAccount(t, users, "viewer@example.com", "Viewer")
	post := &model.Post{ID: uuid.New().String(), UserID: author.ID, Title: "Post", CreatedAt: time.Now().UTC()}
	require.NoError(t, posts.Create(ctx, post))

	require.NoError(t, reactions.Upsert(ctx, &model.Reaction{PostID: post.ID, UserID: viewer.ID, ReactionType: model.ReactionFire}))
	require.NoError(t, reactions.Upsert(ctx, &model.Reaction{PostID: post.ID, UserID: viewer.ID, ReactionType: model.ReactionIdea}))
	require.NoError(t, reactions.Upsert(ctx, &model.Reaction{PostID: post.ID, UserID: author.ID, ReactionType: model.ReactionIdea}))

	mine, err := reactions.ByUser(ctx, viewer.ID, []string{post.ID})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, model.ReactionIdea, mine[0].ReactionType)

	counts, err := reactions.Counts(ctx, []string{post.ID})
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, model.ReactionIdea, counts[0].ReactionType)
	assert.Equal(t, 2, counts[0].Count)
}

func TestReactionRepositoryBatchesAcrossPosts(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	users := NewUserRepository(database)
	posts := NewPostRepository(database)
	reactions := NewReactionRepository(database)

	author := createAccount(t, users, "author@example.com", "Author")
	viewer := createAccount(t, users, "viewer@example.com", "Viewer")

	var ids []string
	for _, title := range []string{"One", "Two", "Three"} {
		post := &model.Post{ID: uuid.New().String(), UserID: author.ID, Title: title, CreatedAt: time.Now().UTC()}
		require.NoError(t, posts.Create(ctx, post))
		ids = append(ids, post.ID)
	}

	require.NoError(t, reactions.Upsert(ctx, &model.Reaction{PostID: ids[0], UserID: viewer.ID, ReactionType: model.ReactionFire}))
	require.NoError(t, reactions.Upsert(ctx, &model.Reaction{PostID: ids[2], UserID: viewer.ID, ReactionType: model.ReactionHeart}))
	require.NoError(t, reactions.Upsert(ctx, &model.Reaction{PostID: ids[2], UserID: author.ID, ReactionType: model.ReactionHeart}))

	mine, err := reactions.ByUser(ctx, viewer.ID, ids[1:])
	require.NoError(t, err)
	require.Len(t, mine, 1, "only the requested posts")
	assert.Equal(t, ids[2], mine[0].PostID)

	counts, err := reactions.Counts(ctx, ids)
	require.NoError(t, err)
	byPost := map[string]int{}
	for _, c := range counts {
		byPost[c.PostID] += c.Count
	}
	assert.Equal(t, map[string]int{ids[0]: 1, ids[2]: 2}, byPost)
}

func TestReactionRepositoryConcurrentUpserts(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	users := NewUserRepository(database)
	posts := NewPostRepository(database)
	reactions := NewReactionRepository(database)

	author := createAccount(t, users, "author@example.com", "Author")
	post := &model.Post{ID: uuid.New().String(), UserID: author.ID, Title: "Post", CreatedAt: time.Now().UTC()}
	require.NoError(t, posts.Create(ctx, post))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			kind := model.ReactionTypes[i%len(model.ReactionTypes)]
			assert.NoError(t, reactions.Upsert(ctx, &model.Reaction{PostID: post.ID, UserID: author.ID, ReactionType: kind}))
		}(i)
	}
	wg.Wait()

	var count int
	require.NoError(t, database.Get(&count, `SELECT COUNT(*) FROM reactions WHERE post_id = $1`, post.ID))
	assert.Equal(t, 1, count)
}

func TestTokenRepositoryConsumeOnce(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	users := NewUserRepository(database)
	tokens := NewTokenRepository(database)

	user := createAccount(t, users, "token@example.com", "Token")
	require.NoError(t, tokens.Create(ctx, &model.Token{
		UserID:    user.ID,
		Type:      model.TokenTypeEmailVerify,
		Token:     "abc",
		ExpiresAt: time.Now().Add(time.Hour),
	}))
	require.NoError(t, tokens.Create(ctx, &model.Token{
		UserID:    user.ID,
		Type:      model.TokenTypeEmailVerify,
		Token:     "expired",
		ExpiresAt: time.Now().Add(-time.Hour),
	}))

	token, err := tokens.ConsumeToken(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, user.ID, token.UserID)

	_, err = tokens.ConsumeToken(ctx, "abc")
	assert.ErrorIs(t, err, ErrTokenNotFound)

	_, err = tokens.ConsumeToken(ctx, "expired")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestFileRepositoryRoundTrip(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	users := NewUserRepository(database)
	files := NewFileRepository(database)

	user := createAccount(t, users, "files@example.com", "Files")
	file := &model.File{
		ID:           uuid.New().String(),
		UserID:       user.ID,
		OwnerType:    model.FileOwnerPost,
		OwnerID:      "post-1",
		Type:         model.FileTypePostMedia,
		Filename:     "x.png",
		OriginalName: "screenshot.png",
		MimeType:     "image/png",
		Size:         42,
		StoragePath:  "public/post_medias/x.png",
		Public:       true,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, files.Create(ctx, file))

	got, err := files.ByID(ctx, file.ID)
	require.NoError(t, err)
	assert.Equal(t, "screenshot.png", got.OriginalName)

	require.NoError(t, files.Delete(ctx, file.ID))
	_, err = files.ByID(ctx, file.ID)
	assert.ErrorIs(t, err, ErrFileNotFound)
}
