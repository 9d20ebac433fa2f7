package service

import (
	"strings"

	"github.com/tapeball/cricket-scoring-service/internal/engine"
	"github.com/tapeball/cricket-scoring-service/internal/model"
	"github.com/tapeball/cricket-scoring-service/internal/repository"
)

func normalizePage(p repository.Page) repository.Page {
	limit := p.Limit
	offset := p.Offset
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return repository.Page{Limit: limit, Offset: offset}
}

// validateXI checks an eleven for the right size, duplicates, blank names
// and squad membership (when a squad was supplied at creation).
func validateXI(team string, players, squad []string) []FieldError {
	var ferrs []FieldError
	if len(players) != 11 {
		ferrs = append(ferrs, FieldError{Field: "playing_xi." + team, Message: "must name exactly 11 players"})
	}
	seen := make(map[string]bool, len(players))
	for _, p := range players {
		name := strings.TrimSpace(p)
		if name == "" {
			ferrs = append(ferrs, FieldError{Field: "playing_xi." + team, Message: "player names cannot be blank"})
			continue
		}
		if seen[name] {
			ferrs = append(ferrs, FieldError{Field: "playing_xi." + team, Message: name + " appears more than once"})
		}
		seen[name] = true
		if len(squad) > 0 && !inList(squad, name) {
			ferrs = append(ferrs, FieldError{Field: "playing_xi." + team, Message: name + " is not in the squad"})
		}
	}
	return ferrs
}

// validateLeadership requires every named role holder to be in the XI.
func validateLeadership(team string, lead model.Leadership, xi []string) []FieldError {
	var ferrs []FieldError
	check := func(role, name string) {
		if name != "" && !inList(xi, name) {
			ferrs = append(ferrs, FieldError{Field: "leadership." + team + "." + role, Message: name + " is not in the playing XI"})
		}
	}
	check("captain", lead.Captain)
	check("vice_captain", lead.ViceCaptain)
	check("wicket_keeper", lead.WicketKeeper)
	return ferrs
}

// validateOpening checks the opening trio against the XIs and the
// keeper-cannot-open-the-bowling rule.
func validateOpening(m *model.Match, inn *model.Innings, op model.Opening) error {
	batXI := m.PlayingXI[inn.BattingTeam]
	bowlXI := m.PlayingXI[inn.BowlingTeam]
	if !inList(batXI, op.Striker) {
		return engine.Reject("%s is not in the %s playing XI", op.Striker, inn.BattingTeam)
	}
	if !inList(batXI, op.NonStriker) {
		return engine.Reject("%s is not in the %s playing XI", op.NonStriker, inn.BattingTeam)
	}
	if !inList(bowlXI, op.Bowler) {
		return engine.Reject("%s is not in the %s playing XI", op.Bowler, inn.BowlingTeam)
	}
	if keeper := m.Leadership[inn.BowlingTeam].WicketKeeper; keeper != "" && op.Bowler == keeper {
		return engine.Reject("the wicket-keeper cannot open the bowling")
	}
	return nil
}

func inList(list []string, name string) bool {
	for _, n := range list {
		if n == name {
			return true
		}
	}
	return false
}
