package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tapeball/cricket-scoring-service/internal/model"
	"github.com/tapeball/cricket-scoring-service/internal/repository"
)

// matchRepository persists whole match documents as JSONB. The scoring core
// always works on a full in-memory snapshot, so a document column beats a
// normalized schema here: one read, one compare-and-swap write per operation.
type matchRepository struct{ pool *pgxpool.Pool }

func NewMatchRepository(pool *pgxpool.Pool) repository.MatchRepository {
	return &matchRepository{pool: pool}
}

func (r *matchRepository) Create(ctx context.Context, m *model.Match) error {
	if err := ensurePool(r.pool); err != nil {
		return err
	}
	doc, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal match document: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO matches (id, doc, version) VALUES ($1, $2, 1)`,
		m.ID, doc,
	)
	if err != nil {
		return repository.MapPgError(err)
	}
	m.Version = 1
	return nil
}

func (r *matchRepository) Get(ctx context.Context, id string) (*model.Match, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	row := r.pool.QueryRow(ctx,
		`SELECT doc, version FROM matches WHERE id = $1`, id,
	)
	var doc []byte
	var version int64
	if err := row.Scan(&doc, &version); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, repository.MapPgError(err)
	}
	var m model.Match
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil, fmt.Errorf("unmarshal match document: %w", err)
	}
	m.Version = version
	return &m, nil
}

// Save replaces the document only if the caller still holds the current
// version. A zero-row update means either a concurrent writer won the race
// or the match vanished; the two cases map to different errors.
func (r *matchRepository) Save(ctx context.Context, m *model.Match) error {
	if err := ensurePool(r.pool); err != nil {
		return err
	}
	doc, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal match document: %w", err)
	}
	row := r.pool.QueryRow(ctx,
		`UPDATE matches
		 SET doc = $2, version = version + 1, updated_at = now()
		 WHERE id = $1 AND version = $3
		 RETURNING version`,
		m.ID, doc, m.Version,
	)
	var version int64
	if err := row.Scan(&version); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			if exErr := r.pool.QueryRow(ctx,
				`SELECT EXISTS(SELECT 1 FROM matches WHERE id = $1)`, m.ID,
			).Scan(&exists); exErr != nil {
				return repository.MapPgError(exErr)
			}
			if !exists {
				return repository.ErrNotFound
			}
			return repository.ErrConflict
		}
		return repository.MapPgError(err)
	}
	m.Version = version
	return nil
}

func (r *matchRepository) List(ctx context.Context, p repository.Page) (repository.PageResult[*model.Match], error) {
	if err := ensurePool(r.pool); err != nil {
		return repository.PageResult[*model.Match]{}, err
	}
	limit, offset := sanitizeLimitOffset(p.Limit, p.Offset)
	rows, err := r.pool.Query(ctx,
		`SELECT doc, version, COUNT(*) OVER() AS total
		 FROM matches
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return repository.PageResult[*model.Match]{}, repository.MapPgError(err)
	}
	defer rows.Close()
	res := repository.PageResult[*model.Match]{Items: make([]*model.Match, 0, limit)}
	for rows.Next() {
		var doc []byte
		var version int64
		var total int
		if err := rows.Scan(&doc, &version, &total); err != nil {
			return repository.PageResult[*model.Match]{}, repository.MapPgError(err)
		}
		var m model.Match
		if err := json.Unmarshal(doc, &m); err != nil {
			return repository.PageResult[*model.Match]{}, fmt.Errorf("unmarshal match document: %w", err)
		}
		m.Version = version
		res.Items = append(res.Items, &m)
		res.Total = total
	}
	return res, nil
}

var _ repository.MatchRepository = (*matchRepository)(nil)
