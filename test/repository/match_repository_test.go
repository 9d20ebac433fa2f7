package repository_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tapeball/cricket-scoring-service/internal/model"
	"github.com/tapeball/cricket-scoring-service/internal/repository"
	"github.com/tapeball/cricket-scoring-service/internal/repository/memory"
)

// The in-memory store must honor the same contract as the Postgres one:
// version starts at 1, every save bumps it, a stale version loses.
func TestMatchRepository_VersionCAS(t *testing.T) {
	repo := memory.NewMatchRepository()
	ctx := context.Background()

	m := &model.Match{ID: "m1", TeamA: "Team A", TeamB: "Team B", Status: model.StatusUpcoming}
	require.NoError(t, repo.Create(ctx, m))
	require.EqualValues(t, 1, m.Version)

	require.ErrorIs(t, repo.Create(ctx, m), repository.ErrAlreadyExists)

	fresh, err := repo.Get(ctx, "m1")
	require.NoError(t, err)
	require.EqualValues(t, 1, fresh.Version)

	fresh.Status = model.StatusLive
	require.NoError(t, repo.Save(ctx, fresh))
	require.EqualValues(t, 2, fresh.Version)

	// a writer still holding version 1 must lose
	stale := &model.Match{ID: "m1", Version: 1}
	require.ErrorIs(t, repo.Save(ctx, stale), repository.ErrConflict)

	require.ErrorIs(t, repo.Save(ctx, &model.Match{ID: "ghost", Version: 1}), repository.ErrNotFound)

	_, err = repo.Get(ctx, "ghost")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMatchRepository_SnapshotsAreIsolated(t *testing.T) {
	repo := memory.NewMatchRepository()
	ctx := context.Background()

	m := &model.Match{ID: "m1", TeamA: "Team A", TeamB: "Team B"}
	require.NoError(t, repo.Create(ctx, m))

	loaded, err := repo.Get(ctx, "m1")
	require.NoError(t, err)
	loaded.TeamA = "Mutated"

	again, err := repo.Get(ctx, "m1")
	require.NoError(t, err)
	require.Equal(t, "Team A", again.TeamA, "callers must never share state with the store")
}

func TestMatchRepository_ListNewestFirst(t *testing.T) {
	repo := memory.NewMatchRepository()
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		require.NoError(t, repo.Create(ctx, &model.Match{ID: fmt.Sprintf("m%d", i)}))
	}

	res, err := repo.List(ctx, repository.Page{Limit: 2, Offset: 0})
	require.NoError(t, err)
	require.Equal(t, 5, res.Total)
	require.Len(t, res.Items, 2)
	require.Equal(t, "m5", res.Items[0].ID)
	require.Equal(t, "m4", res.Items[1].ID)

	res, err = repo.List(ctx, repository.Page{Limit: 2, Offset: 4})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	require.Equal(t, "m1", res.Items[0].ID)
}
