package service

import (
	"context"
	"sync"

	"github.com/vibeshare/vibeshare/internal/model"
	"github.com/vibeshare/vibeshare/internal/repository"
)

type fakePostRepo struct {
	mu      sync.Mutex
	created []*model.Post
	posts   []*model.Post
	err     error
}

func (r *fakePostRepo) Create(_ context.Context, post *model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.created = append(r.created, post)
	return nil
}

func (r *fakePostRepo) ByID(_ context.Context, id string) (*model.Post, error) {
	for _, p := range r.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, repository.ErrPostNotFound
}

func (r *fakePostRepo) Posts(context.Context) ([]*model.Post, error) {
	return r.posts, r.err
}

type fakeReactionRepo struct {
	mu       sync.Mutex
	calls    int
	upserted []*model.Reaction
	counts   []*model.ReactionCount
	mine     []*model.Reaction
	err      error
}

func (r *fakeReactionRepo) Upsert(_ context.Context, reaction *model.Reaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return r.err
	}
	r.upserted = append(r.upserted, reaction)
	return nil
}

func (r *fakeReactionRepo) Counts(context.Context, []string) ([]*model.ReactionCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return r.counts, nil
}

func (r *fakeReactionRepo) ByUser(context.Context, string, []string) ([]*model.Reaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return r.mine, nil
}

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]*model.Profile
	lookups  [][]string
}

func (r *fakeProfileRepo) ByID(_ context.Context, id string) (*model.Profile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return nil, repository.ErrProfileNotFound
	}
	return p, nil
}

func (r *fakeProfileRepo) ByIDs(_ context.Context, ids []string) ([]*model.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups = append(r.lookups, ids)
	var out []*model.Profile
	for _, id := range ids {
		if p, ok := r.profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProfileRepo) CreateIfMissing(_ context.Context, p *model.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.profiles == nil {
		r.profiles = map[string]*model.Profile{}
	}
	if _, ok := r.profiles[p.ID]; !ok {
		r.profiles[p.ID] = p
	}
	return nil
}

type mapProfileCache struct {
	entries map[string]*model.Profile
	sets    int
}

func (c *mapProfileCache) GetMany(_ context.Context, ids []string) (map[string]*model.Profile, error) {
	out := map[string]*model.Profile{}
	for _, id := range ids {
		if p, ok := c.entries[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (c *mapProfileCache) SetMany(_ context.Context, profiles []*model.Profile) error {
	c.sets++
	if c.entries == nil {
		c.entries = map[string]*model.Profile{}
	}
	for _, p := range profiles {
		c.entries[p.ID] = p
	}
	return nil
}

func (c *mapProfileCache) Close() error { return nil }
