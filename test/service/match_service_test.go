package service_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tapeball/cricket-scoring-service/internal/engine"
	"github.com/tapeball/cricket-scoring-service/internal/model"
	"github.com/tapeball/cricket-scoring-service/internal/repository/memory"
	"github.com/tapeball/cricket-scoring-service/internal/service"
)

// countingPublisher records how many snapshots reached the stream side.
type countingPublisher struct{ published int }

func (p *countingPublisher) Publish(string, *model.Match) { p.published++ }

var defaults = model.MatchConfig{OversPerInnings: 10, PowerplayOvers: 3, MaxOversPerBowler: 2}

func newSvc() (service.MatchService, *countingPublisher) {
	pub := &countingPublisher{}
	svc := service.NewMatchService(memory.NewMatchRepository(), pub, defaults, zerolog.New(io.Discard))
	return svc, pub
}

func xi(prefix string) []string {
	names := make([]string, 11)
	for i := range names {
		names[i] = fmt.Sprintf("%s%d", prefix, i+1)
	}
	return names
}

// liveMatch walks a match through the whole setup wizard: create, toss,
// elevens, opening, go live.
func liveMatch(t *testing.T, svc service.MatchService) string {
	t.Helper()
	ctx := context.Background()

	m, err := svc.CreateMatch(ctx, service.CreateMatchInput{TeamA: "Team A", TeamB: "Team B"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.RecordToss(ctx, m.ID, "Team A", model.DecisionBat); err != nil {
		t.Fatalf("toss: %v", err)
	}
	lead := map[string]model.Leadership{
		"Team B": {Captain: "B1", WicketKeeper: "B2"},
	}
	if _, err := svc.RecordPlayingXI(ctx, m.ID, map[string][]string{"Team A": xi("A"), "Team B": xi("B")}, lead); err != nil {
		t.Fatalf("playing xi: %v", err)
	}
	if _, err := svc.RecordOpening(ctx, m.ID, model.Opening{Striker: "A1", NonStriker: "A2", Bowler: "B1"}); err != nil {
		t.Fatalf("opening: %v", err)
	}
	if _, err := svc.SetMatchStatus(ctx, m.ID, model.StatusLive); err != nil {
		t.Fatalf("go live: %v", err)
	}
	return m.ID
}

func TestCreateMatch_Validation(t *testing.T) {
	svc, _ := newSvc()
	ctx := context.Background()

	cases := []struct {
		name  string
		in    service.CreateMatchInput
		field string
	}{
		{"missing team a", service.CreateMatchInput{TeamB: "Team B"}, "team_a"},
		{"missing team b", service.CreateMatchInput{TeamA: "Team A"}, "team_b"},
		{"same teams", service.CreateMatchInput{TeamA: "X", TeamB: "X"}, "teams"},
		{"bad overs", service.CreateMatchInput{TeamA: "A", TeamB: "B", Config: &model.MatchConfig{OversPerInnings: 0}}, "config.overs_per_innings"},
		{"stranger squad", service.CreateMatchInput{TeamA: "A", TeamB: "B", Squads: map[string][]string{"C": {"p"}}}, "squads"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateMatch(ctx, tc.in)
			if !errors.Is(err, service.ErrInvalidInput) {
				t.Fatalf("want invalid input, got %v", err)
			}
			found := false
			for _, fe := range service.FieldErrors(err) {
				if fe.Field == tc.field {
					found = true
					break
				}
			}
			if !found {
				t.Fatalf("missing field error %s in %v", tc.field, service.FieldErrors(err))
			}
		})
	}
}

func TestCreateMatch_DefaultsAndID(t *testing.T) {
	svc, _ := newSvc()
	m, err := svc.CreateMatch(context.Background(), service.CreateMatchInput{TeamA: "Team A", TeamB: "Team B"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.ID == "" {
		t.Fatalf("expected a minted id")
	}
	if m.Status != model.StatusUpcoming {
		t.Fatalf("expected UPCOMING, got %s", m.Status)
	}
	if m.Config != defaults {
		t.Fatalf("expected default config, got %+v", m.Config)
	}
}

func TestWizardOrderEnforced(t *testing.T) {
	svc, _ := newSvc()
	ctx := context.Background()

	m, _ := svc.CreateMatch(ctx, service.CreateMatchInput{TeamA: "Team A", TeamB: "Team B"})

	// opening before toss and XIs
	if _, err := svc.RecordOpening(ctx, m.ID, model.Opening{Striker: "A1", NonStriker: "A2", Bowler: "B1"}); !errors.Is(err, engine.ErrRejected) {
		t.Fatalf("want rejection before toss, got %v", err)
	}
	// live before setup
	if _, err := svc.SetMatchStatus(ctx, m.ID, model.StatusLive); !errors.Is(err, engine.ErrRejected) {
		t.Fatalf("want rejection before setup, got %v", err)
	}
	// toss winner must play the match
	if _, err := svc.RecordToss(ctx, m.ID, "Team C", model.DecisionBat); !errors.Is(err, service.ErrInvalidInput) {
		t.Fatalf("want invalid input for stranger team, got %v", err)
	}
}

func TestRecordPlayingXI_Validation(t *testing.T) {
	svc, _ := newSvc()
	ctx := context.Background()
	m, _ := svc.CreateMatch(ctx, service.CreateMatchInput{TeamA: "Team A", TeamB: "Team B"})

	ten := xi("A")[:10]
	if _, err := svc.RecordPlayingXI(ctx, m.ID, map[string][]string{"Team A": ten}, nil); !errors.Is(err, service.ErrInvalidInput) {
		t.Fatalf("want invalid input for ten players, got %v", err)
	}

	dup := append([]string{}, xi("A")...)
	dup[10] = dup[0]
	if _, err := svc.RecordPlayingXI(ctx, m.ID, map[string][]string{"Team A": dup}, nil); !errors.Is(err, service.ErrInvalidInput) {
		t.Fatalf("want invalid input for duplicate player, got %v", err)
	}

	// leadership must come from the eleven
	lead := map[string]model.Leadership{"Team A": {Captain: "Z9"}}
	if _, err := svc.RecordPlayingXI(ctx, m.ID, map[string][]string{"Team A": xi("A")}, lead); !errors.Is(err, service.ErrInvalidInput) {
		t.Fatalf("want invalid input for stranger captain, got %v", err)
	}
}

func TestOpeningBowlerCannotBeKeeper(t *testing.T) {
	svc, _ := newSvc()
	ctx := context.Background()

	m, _ := svc.CreateMatch(ctx, service.CreateMatchInput{TeamA: "Team A", TeamB: "Team B"})
	_, _ = svc.RecordToss(ctx, m.ID, "Team A", model.DecisionBat)
	lead := map[string]model.Leadership{"Team B": {WicketKeeper: "B2"}}
	_, _ = svc.RecordPlayingXI(ctx, m.ID, map[string][]string{"Team A": xi("A"), "Team B": xi("B")}, lead)

	_, err := svc.RecordOpening(ctx, m.ID, model.Opening{Striker: "A1", NonStriker: "A2", Bowler: "B2"})
	if !errors.Is(err, engine.ErrRejected) {
		t.Fatalf("want rejection for keeper opening the bowling, got %v", err)
	}
}

func TestDeliveryUndoAndStream(t *testing.T) {
	svc, pub := newSvc()
	ctx := context.Background()
	id := liveMatch(t, svc)

	before := pub.published

	m, err := svc.RecordDelivery(ctx, id, model.Ball{
		Type: model.BallRun, Runs: 4, Striker: "A1", NonStriker: "A2", Bowler: "B1",
	})
	if err != nil {
		t.Fatalf("delivery: %v", err)
	}
	if m.CurrentInnings().Runs != 4 {
		t.Fatalf("expected 4 runs, got %d", m.CurrentInnings().Runs)
	}
	if pub.published != before+1 {
		t.Fatalf("expected one publish per commit, got %d", pub.published-before)
	}

	m, err = svc.UndoLastDelivery(ctx, id)
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if m.CurrentInnings().Runs != 0 || len(m.CurrentInnings().Balls) != 0 {
		t.Fatalf("undo did not restore: runs=%d balls=%d", m.CurrentInnings().Runs, len(m.CurrentInnings().Balls))
	}

	if _, err := svc.UndoLastDelivery(ctx, id); !errors.Is(err, engine.ErrNothingToUndo) {
		t.Fatalf("want nothing to undo, got %v", err)
	}
}

func TestRejectedDeliveryChangesNothing(t *testing.T) {
	svc, _ := newSvc()
	ctx := context.Background()
	id := liveMatch(t, svc)

	_, err := svc.RecordDelivery(ctx, id, model.Ball{
		Type: model.BallRun, Runs: 1, Striker: "A1", NonStriker: "A1", Bowler: "B1",
	})
	if !errors.Is(err, engine.ErrRejected) {
		t.Fatalf("want rejection, got %v", err)
	}

	m, _ := svc.GetMatch(ctx, id)
	if len(m.CurrentInnings().Balls) != 0 {
		t.Fatalf("rejected delivery must not reach the ledger")
	}
}

func TestNextBatterFlow(t *testing.T) {
	svc, _ := newSvc()
	ctx := context.Background()
	id := liveMatch(t, svc)

	_, err := svc.RecordDelivery(ctx, id, model.Ball{
		Type: model.BallWicket, Striker: "A1", NonStriker: "A2", Bowler: "B1",
		Wicket: &model.Wicket{Kind: model.WicketRetiredHurt, Batter: "A1"},
	})
	if err != nil {
		t.Fatalf("retirement: %v", err)
	}

	// scoring is blocked until the replacement is named
	_, err = svc.RecordDelivery(ctx, id, model.Ball{
		Type: model.BallRun, Runs: 0, Striker: "A3", NonStriker: "A2", Bowler: "B1",
	})
	if !errors.Is(err, engine.ErrRejected) {
		t.Fatalf("want rejection while awaiting batter, got %v", err)
	}

	m, err := svc.RecordNextBatter(ctx, id, "A3")
	if err != nil {
		t.Fatalf("next batter: %v", err)
	}
	if m.CurrentInnings().OnField.Striker != "A3" {
		t.Fatalf("expected A3 at the crease, got %q", m.CurrentInnings().OnField.Striker)
	}
}

func TestResetClearsMatchState(t *testing.T) {
	svc, _ := newSvc()
	ctx := context.Background()
	id := liveMatch(t, svc)

	_, _ = svc.RecordDelivery(ctx, id, model.Ball{Type: model.BallRun, Runs: 6, Striker: "A1", NonStriker: "A2", Bowler: "B1"})

	m, err := svc.ResetMatch(ctx, id)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if m.Status != model.StatusUpcoming || m.Toss != nil || len(m.Innings) != 0 || m.Result != nil {
		t.Fatalf("reset left state behind: %+v", m)
	}
	if m.TeamA != "Team A" || m.TeamB != "Team B" {
		t.Fatalf("reset must keep the teams")
	}
}

func TestFinalizeIsIdempotent(t *testing.T) {
	svc, _ := newSvc()
	ctx := context.Background()
	id := liveMatch(t, svc)

	_, _ = svc.RecordDelivery(ctx, id, model.Ball{Type: model.BallRun, Runs: 4, Striker: "A1", NonStriker: "A2", Bowler: "B1"})

	first, err := svc.FinalizeAndComputeAwards(ctx, id)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if first == nil || first.ManOfTheMatch == nil {
		t.Fatalf("expected awards after finalize")
	}

	second, err := svc.FinalizeAndComputeAwards(ctx, id)
	if err != nil {
		t.Fatalf("second finalize: %v", err)
	}
	if second.ManOfTheMatch.Name != first.ManOfTheMatch.Name || second.ManOfTheMatch.Score != first.ManOfTheMatch.Score {
		t.Fatalf("finalize must return the stored awards unchanged")
	}

	m, _ := svc.GetMatch(ctx, id)
	if m.Status != model.StatusCompleted {
		t.Fatalf("finalize must complete the match")
	}
}

func TestChaseSnapshotOutsideChaseRejected(t *testing.T) {
	svc, _ := newSvc()
	id := liveMatch(t, svc)
	if _, err := svc.ChaseSnapshot(context.Background(), id); !errors.Is(err, engine.ErrRejected) {
		t.Fatalf("want rejection outside the chase, got %v", err)
	}
}
