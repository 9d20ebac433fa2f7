package repository

import (
	"context"

	"github.com/tapeball/cricket-scoring-service/internal/model"
)

// Pinger represents a minimal readiness probe capability.
// I use it to decouple health checks from storage implementation details.
type Pinger interface {
	Ping(ctx context.Context) error
}

// MatchRepository stores and loads whole match documents. The scoring core
// treats storage as an external collaborator: it hands over a snapshot and
// gets snapshots back, nothing more.
//
// Save is an optimistic compare-and-swap on the document's Version: a stale
// writer gets ErrConflict and must reload and revalidate against the fresh
// document rather than blindly reapply.
type MatchRepository interface {
	Create(ctx context.Context, m *model.Match) error
	Get(ctx context.Context, id string) (*model.Match, error)
	Save(ctx context.Context, m *model.Match) error
	List(ctx context.Context, p Page) (PageResult[*model.Match], error)
}
