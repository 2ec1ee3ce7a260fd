package service

import (
	"context"
	"log/slog"

	"github.com/vibeshare/vibeshare/internal/cache"
	"github.com/vibeshare/vibeshare/internal/model"
	"github.com/vibeshare/vibeshare/internal/repository"
)

type ProfileService struct {
	profileRepo repository.ProfileRepository
	cache       cache.ProfileCache
}

func NewProfileService(profileRepo repository.ProfileRepository, profileCache cache.ProfileCache) *ProfileService {
	if profileCache == nil {
		profileCache = cache.NopProfileCache{}
	}
	return &ProfileService{
		profileRepo: profileRepo,
		cache:       profileCache,
	}
}

func (s *ProfileService) ByID(ctx context.Context, id string) (*model.Profile, error) {
	profiles, err := s.ByIDs(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	profile, ok := profiles[id]
	if !ok {
		return nil, repository.ErrProfileNotFound
	}
	return profile, nil
}

// ByIDs resolves a set of profiles with at most one database query.
// Cache failures are logged and fall through to the database.
func (s *ProfileService) ByIDs(ctx context.Context, ids []string) (map[string]*model.Profile, error) {
	ids = distinct(ids)
	result := make(map[string]*model.Profile, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	cached, err := s.cache.GetMany(ctx, ids)
	if err != nil {
		slog.Warn("profile cache read failed", "error", err)
	}
	var missing []string
	for _, id := range ids {
		if p, ok := cached[id]; ok {
			result[id] = p
			continue
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return result, nil
	}

	profiles, err := s.profileRepo.ByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	for _, p := range profiles {
		result[p.ID] = p
	}

	err = s.cache.SetMany(ctx, profiles)
	if err != nil {
		slog.Warn("profile cache write failed", "error", err)
	}

	return result, nil
}

// distinct keeps the first occurrence of every non-empty id.
func distinct(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
