package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/tapeball/cricket-scoring-service/internal/model"
	"github.com/tapeball/cricket-scoring-service/internal/repository"
)

// matchRepository is an in-memory MatchRepository with the same versioning
// contract as the Postgres store. It backs tests and the "memory" storage
// mode; documents are deep-cloned on the way in and out so callers never
// share state with the store.
type matchRepository struct {
	mu      sync.RWMutex
	matches map[string]*model.Match
	order   map[string]int
	nextSeq int
}

func NewMatchRepository() repository.MatchRepository {
	return &matchRepository{
		matches: make(map[string]*model.Match),
		order:   make(map[string]int),
	}
}

func (r *matchRepository) Create(_ context.Context, m *model.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.matches[m.ID]; ok {
		return repository.ErrAlreadyExists
	}
	stored := m.Clone()
	stored.Version = 1
	r.matches[m.ID] = stored
	r.nextSeq++
	r.order[m.ID] = r.nextSeq
	m.Version = 1
	return nil
}

func (r *matchRepository) Get(_ context.Context, id string) (*model.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.matches[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return stored.Clone(), nil
}

func (r *matchRepository) Save(_ context.Context, m *model.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.matches[m.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if stored.Version != m.Version {
		return repository.ErrConflict
	}
	next := m.Clone()
	next.Version = stored.Version + 1
	r.matches[m.ID] = next
	m.Version = next.Version
	return nil
}

func (r *matchRepository) List(_ context.Context, p repository.Page) (repository.PageResult[*model.Match], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.matches))
	for id := range r.matches {
		ids = append(ids, id)
	}
	// newest-first, mirroring the created_at ordering of the SQL store
	sort.Slice(ids, func(i, j int) bool { return r.order[ids[i]] > r.order[ids[j]] })

	limit, offset := p.Limit, p.Offset
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	res := repository.PageResult[*model.Match]{Items: make([]*model.Match, 0, limit), Total: len(ids)}
	for i := offset; i < len(ids) && len(res.Items) < limit; i++ {
		res.Items = append(res.Items, r.matches[ids[i]].Clone())
	}
	return res, nil
}

var _ repository.MatchRepository = (*matchRepository)(nil)
