package engine

import (
	"math"

	"github.com/tapeball/cricket-scoring-service/internal/model"
)

// checkTransition runs after every commit. It closes a finished innings,
// opens the chase with its target, and completes the match the moment the
// chase is won or the second innings is exhausted.
func checkTransition(m *model.Match) {
	inn := m.CurrentInnings()
	if inn == nil || inn.Closed {
		return
	}

	// Immediate chase win: checked on every commit, not only over boundaries.
	if m.InningsIndex == 1 && m.Target > 0 && inn.Runs >= m.Target {
		completeMatch(m)
		return
	}

	if inn.LegalBalls < m.TotalBallsPerInnings() && inn.Wickets < 10 {
		return
	}

	if m.InningsIndex == 0 {
		inn.Closed = true
		inn.InPowerplay = false
		m.Target = inn.Runs + 1
		// The chase starts locked: no delivery until a fresh opening
		// (striker, non-striker, bowler) is recorded for it.
		m.Innings = append(m.Innings, NewInnings(inn.BowlingTeam, inn.BattingTeam))
		m.InningsIndex = 1
		return
	}

	completeMatch(m)
}

// Complete ends the match manually: the current innings freezes and the
// result and awards are computed from whatever the ledger holds. The
// automatic transition path funnels through the same code.
func Complete(m *model.Match) {
	completeMatch(m)
}

func completeMatch(m *model.Match) {
	if inn := m.CurrentInnings(); inn != nil {
		inn.Closed = true
		inn.InPowerplay = false
	}
	m.Status = model.StatusCompleted
	Finalize(m)
}

// Finalize computes the result and awards exactly once. Re-invoking it when
// they already exist is a no-op returning the stored awards.
func Finalize(m *model.Match) *model.Awards {
	if m.Result == nil {
		m.Result = ComputeResult(m)
	}
	if m.Awards == nil {
		m.Awards = ComputeAwards(m)
	}
	return m.Awards
}

// Chase derives the live chase metrics for the second innings. Nothing here
// is stored; the numbers are recomputed from the document on every read.
func Chase(m *model.Match) *model.ChaseSnapshot {
	if m.InningsIndex != 1 || m.Target <= 0 || len(m.Innings) < 2 {
		return nil
	}
	inn := &m.Innings[1]
	needed := m.Target - inn.Runs
	if needed < 0 {
		needed = 0
	}
	left := m.TotalBallsPerInnings() - inn.LegalBalls
	if left < 0 {
		left = 0
	}
	var rrr float64
	if left > 0 {
		rrr = round2(float64(needed) * 6 / float64(left))
	}
	return &model.ChaseSnapshot{
		Target:          m.Target,
		RunsNeeded:      needed,
		BallsLeft:       left,
		RequiredRunRate: rrr,
	}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
