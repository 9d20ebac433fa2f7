package engine

import (
	"fmt"
	"sort"

	"github.com/tapeball/cricket-scoring-service/internal/model"
)

// ComputeResult derives the final result text from the two innings. Ties are
// flagged and stop here; how the tie is broken (the house rule is a repeated
// Super Over) lives outside the ball ledger.
func ComputeResult(m *model.Match) *model.Result {
	if len(m.Innings) < 2 {
		return &model.Result{Text: "No result"}
	}
	first, second := &m.Innings[0], &m.Innings[1]

	if m.Target > 0 && second.Runs >= m.Target {
		wickets := 10 - second.Wickets
		return &model.Result{
			Text:   fmt.Sprintf("%s won by %d wickets", second.BattingTeam, wickets),
			Winner: second.BattingTeam,
		}
	}
	if first.Runs > second.Runs {
		return &model.Result{
			Text:   fmt.Sprintf("%s won by %d runs", first.BattingTeam, first.Runs-second.Runs),
			Winner: first.BattingTeam,
		}
	}
	return &model.Result{Text: "Match tied", Tie: true}
}

type playerTotals struct {
	name    string
	team    string
	runs    int
	sixes   int
	wickets int
	// bowling
	balls    int
	conceded int
}

// ComputeAwards evaluates the three rule-based awards over both innings'
// aggregates. Deterministic: ties break by runs and then by name, so the
// same document always yields the same awards.
func ComputeAwards(m *model.Match) *model.Awards {
	totals := make(map[string]*playerTotals)
	get := func(name, team string) *playerTotals {
		t, ok := totals[name]
		if !ok {
			t = &playerTotals{name: name, team: team}
			totals[name] = t
		}
		if t.team == "" {
			t.team = team
		}
		return t
	}

	for i := range m.Innings {
		inn := &m.Innings[i]
		for name, line := range inn.Batters {
			t := get(name, inn.BattingTeam)
			t.runs += line.Runs
			t.sixes += line.Sixes
		}
		for name, line := range inn.Bowlers {
			t := get(name, inn.BowlingTeam)
			t.wickets += line.Wickets
			t.balls += line.Balls
			t.conceded += line.Runs
		}
	}
	if len(totals) == 0 {
		return &model.Awards{}
	}

	players := make([]*playerTotals, 0, len(totals))
	for _, t := range totals {
		players = append(players, t)
	}
	// Name-sorted base order keeps every tie-break deterministic.
	sort.Slice(players, func(a, b int) bool { return players[a].name < players[b].name })

	awards := &model.Awards{}

	// Man of the Match: runs + 20 per wicket; ties by runs, then name.
	best := players[0]
	momScore := func(t *playerTotals) int { return t.runs + t.wickets*20 }
	for _, t := range players[1:] {
		if momScore(t) > momScore(best) || (momScore(t) == momScore(best) && t.runs > best.runs) {
			best = t
		}
	}
	awards.ManOfTheMatch = &model.PlayerAward{Name: best.name, Team: best.team, Score: momScore(best)}

	// Sixer King: most sixes; ties by runs.
	six := players[0]
	for _, t := range players[1:] {
		if t.sixes > six.sixes || (t.sixes == six.sixes && t.runs > six.runs) {
			six = t
		}
	}
	awards.SixerKing = &model.SixerAward{Name: six.name, Team: six.team, Sixes: six.sixes, Runs: six.runs}

	// Best Bowler: lowest economy among bowlers with at least one full over;
	// ties by most wickets.
	var bb *playerTotals
	econ := func(t *playerTotals) float64 { return float64(t.conceded) * 6 / float64(t.balls) }
	for _, t := range players {
		if t.balls < 6 {
			continue
		}
		if bb == nil || econ(t) < econ(bb) || (econ(t) == econ(bb) && t.wickets > bb.wickets) {
			bb = t
		}
	}
	if bb != nil {
		awards.BestBowler = &model.BowlerAward{Name: bb.name, Team: bb.team, Wickets: bb.wickets, Economy: round2(econ(bb))}
	}

	return awards
}
