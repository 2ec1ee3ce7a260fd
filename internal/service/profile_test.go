package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vibeshare/vibeshare/internal/model"
	"github.com/vibeshare/vibeshare/internal/repository"
)

func TestProfileServiceByIDsUsesCache(t *testing.T) {
	repo := &fakeProfileRepo{profiles: map[string]*model.Profile{
		"u1": {ID: "u1", Name: "Ada"},
		"u2": {ID: "u2", Name: "Linus"},
	}}
	profileCache := &mapProfileCache{entries: map[string]*model.Profile{
		"u1": {ID: "u1", Name: "Ada"},
	}}
	svc := NewProfileService(repo, profileCache)

	got, err := svc.ByIDs(context.Background(), []string{"u1", "u2", "u1", ""})
	require.NoError(t, err)

	assert.Len(t, got, 2)
	require.Len(t, repo.lookups, 1)
	assert.Equal(t, []string{"u2"}, repo.lookups[0], "only cache misses hit the database")
	assert.Contains(t, profileCache.entries, "u2")

	_, err = svc.ByIDs(context.Background(), []string{"u1", "u2"})
	require.NoError(t, err)
	assert.Len(t, repo.lookups, 1, "second lookup is served from cache")
}

func TestProfileServiceByIDNotFound(t *testing.T) {
	svc := NewProfileService(&fakeProfileRepo{}, nil)

	_, err := svc.ByID(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrProfileNotFound)
}
