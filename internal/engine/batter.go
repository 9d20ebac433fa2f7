package engine

import (
	"github.com/tapeball/cricket-scoring-service/internal/model"
)

// RecordNextBatter resolves an awaiting_batter phase by naming the
// replacement on the pending wicket ball and replaying the innings. Writing
// the name into the ledger entry (rather than patching OnField directly)
// keeps the ledger the single source of truth: an undo and replay later
// reproduces the same crease.
func RecordNextBatter(m *model.Match, name string) error {
	if m.Status != model.StatusLive {
		return reject("match is not live")
	}
	inn := m.CurrentInnings()
	if inn == nil || inn.Opening == nil {
		return ErrSetupPending
	}
	if inn.OnField.Phase != model.PhaseAwaitingBatter {
		return reject("no replacement batter is pending")
	}
	if name == "" {
		return reject("next batter must be selected")
	}

	// Only a wicket ball can leave the innings awaiting a batter, and it is
	// necessarily the last entry: nothing commits past that phase.
	last := &inn.Balls[len(inn.Balls)-1]
	if last.Wicket == nil || last.Wicket.NextBatter != "" {
		return reject("no replacement batter is pending")
	}

	of := inn.OnField
	if name == of.Striker || name == of.NonStriker {
		return reject("next batter is already at the crease")
	}
	if line, ok := inn.Batters[name]; ok && line.Out {
		return reject("%s is already dismissed", name)
	}
	if xi := m.PlayingXI[inn.BattingTeam]; len(xi) > 0 && !contains(xi, name) {
		return reject("%s is not in the %s playing XI", name, inn.BattingTeam)
	}

	last.Wicket.NextBatter = name
	Rebuild(m.Config, inn)
	return nil
}
