package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

var errNilPool = errors.New("postgres pool is not initialized")

func ensurePool(pool *pgxpool.Pool) error {
	if pool == nil {
		return errNilPool
	}
	return nil
}

// sanitizeLimitOffset clamps paging inputs to sane bounds so a hostile or
// buggy caller cannot ask for a full-table scan.
func sanitizeLimitOffset(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
