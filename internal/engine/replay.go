package engine

import (
	"github.com/tapeball/cricket-scoring-service/internal/model"
)

// Rebuild recomputes every derived field of an innings by replaying its
// ledger from the opening seed. Full replay is deliberate: free-hit state,
// awaiting-bowler, and strike rotation are path-dependent, and inverting
// them ball-by-ball is exactly the kind of code that rots. An innings is a
// few hundred balls at most; replaying it is cheap.
func Rebuild(cfg model.MatchConfig, inn *model.Innings) {
	fresh := NewInnings(inn.BattingTeam, inn.BowlingTeam)
	if inn.Opening != nil {
		SeedOpening(&fresh, *inn.Opening)
	}
	fresh.InPowerplay = cfg.PowerplayOvers > 0
	fresh.Balls = inn.Balls
	for _, b := range fresh.Balls {
		applyBall(cfg, &fresh, b)
	}
	*inn = fresh
}

// UndoLast removes the most recent ledger entry and restores the previous
// consistent state by replay. Undoing past the start of the second innings
// drops the chase entirely — its opening included — and brings the first
// innings back live.
func UndoLast(m *model.Match) error {
	if m.Status == model.StatusCompleted {
		return reject("match is completed; use reset to amend it")
	}
	inn := m.CurrentInnings()
	if inn == nil {
		return ErrNothingToUndo
	}

	if len(inn.Balls) == 0 {
		if m.InningsIndex != 1 {
			return ErrNothingToUndo
		}
		m.Innings = m.Innings[:1]
		m.InningsIndex = 0
		m.Target = 0
		inn = &m.Innings[0]
		if len(inn.Balls) == 0 {
			return ErrNothingToUndo
		}
	}

	inn.Balls = inn.Balls[:len(inn.Balls)-1]
	Rebuild(m.Config, inn)
	inn.Closed = false
	return nil
}
