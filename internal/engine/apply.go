package engine

import (
	"fmt"
	"time"

	"github.com/tapeball/cricket-scoring-service/internal/model"
)

// NewInnings returns an empty innings for the given sides.
func NewInnings(batting, bowling string) model.Innings {
	return model.Innings{
		BattingTeam: batting,
		BowlingTeam: bowling,
		Batters:     make(map[string]*model.BatterLine),
		Bowlers:     make(map[string]*model.BowlerLine),
		OnField:     model.OnField{Phase: model.PhaseReady},
	}
}

// SeedOpening installs the opening selection as the innings' starting
// on-field state. It is also the replay seed: Rebuild restarts from here.
func SeedOpening(inn *model.Innings, op model.Opening) {
	inn.Opening = &op
	inn.OnField = model.OnField{
		Striker:    op.Striker,
		NonStriker: op.NonStriker,
		Bowler:     op.Bowler,
		Phase:      model.PhaseReady,
	}
}

// normalize maps legacy delivery shapes onto the canonical one: a dismissal
// carried on a WIDE or NO_BALL entry becomes a WICKET entry with the
// matching delivery context, and a bare WICKET defaults to a legal ball.
func normalize(b model.Ball) model.Ball {
	if b.Wicket != nil && b.Type != model.BallWicket {
		switch b.Type {
		case model.BallWide:
			b.Delivery = model.DeliveryWide
		case model.BallNoBall:
			b.Delivery = model.DeliveryNoBall
		default:
			b.Delivery = model.DeliveryLegal
		}
		b.Type = model.BallWicket
	}
	if b.Type == model.BallWicket && b.Delivery == "" {
		b.Delivery = model.DeliveryLegal
	}
	return b
}

// Commit validates a delivery, appends it to the ledger and folds it into
// the innings aggregates. The fold runs against a copy; the match document
// is only touched when every step succeeded, so a rejected or failed
// delivery leaves no partial state behind.
func Commit(m *model.Match, b model.Ball) error {
	if m.Status != model.StatusLive {
		return reject("match is not live")
	}
	inn := m.CurrentInnings()
	if inn == nil || inn.Opening == nil {
		return ErrSetupPending
	}
	if inn.Closed {
		return reject("innings is already closed")
	}

	b = normalize(b)
	if err := ValidateDelivery(m, b); err != nil {
		return err
	}

	work := inn.Clone()
	b.Seq = len(work.Balls) + 1
	if b.At.IsZero() {
		b.At = time.Now().UTC()
	}
	work.Balls = append(work.Balls, b)
	applyBall(m.Config, work, b)

	m.Innings[m.InningsIndex] = *work
	checkTransition(m)
	return nil
}

// applyBall is the single fold step shared by Commit and Rebuild. Given an
// innings and one ledger entry it updates every derived aggregate: totals,
// extras, batter and bowler lines, legal-ball count, fall of wickets and the
// on-field pointer state.
func applyBall(cfg model.MatchConfig, inn *model.Innings, b model.Ball) {
	of := &inn.OnField
	of.Striker = b.Striker
	of.NonStriker = b.NonStriker
	of.Bowler = b.Bowler
	if of.Phase == model.PhaseAwaitingBowler {
		// the delivery itself supplies the new bowler
		of.Phase = model.PhaseReady
	}

	bat := batterLine(inn, b.Striker)
	_ = batterLine(inn, b.NonStriker)
	bowl := bowlerLine(inn, b.Bowler)

	legal := b.IsLegal()
	if legal {
		inn.LegalBalls++
		bowl.Balls++
	}

	switch b.Type {
	case model.BallRun:
		inn.Runs += b.Runs
		bat.Runs += b.Runs
		bat.Balls++
		countBoundary(bat, b.Runs)
		bowl.Runs += b.Runs
		if b.Runs%2 == 1 {
			swapStrike(of)
		}

	case model.BallWide:
		inn.Extras.Wides += b.Runs
		inn.Runs += b.Runs
		bowl.Wides++
		bowl.Runs += b.Runs

	case model.BallNoBall:
		// only the penalty-and-overthrows portion is an extra; the bat
		// portion goes to the striker without a ball faced
		inn.Extras.NoBalls += b.Runs - b.BatRuns
		inn.Runs += b.Runs
		bowl.NoBalls++
		bowl.Runs += b.Runs
		bat.Runs += b.BatRuns
		countBoundary(bat, b.BatRuns)
		if b.BatRuns%2 == 1 {
			swapStrike(of)
		}

	case model.BallBye:
		inn.Extras.Byes += b.Runs
		inn.Runs += b.Runs
		bat.Balls++
		if b.Runs%2 == 1 {
			swapStrike(of)
		}

	case model.BallLegBye:
		inn.Extras.LegByes += b.Runs
		inn.Runs += b.Runs
		bat.Balls++
		if b.Runs%2 == 1 {
			swapStrike(of)
		}

	case model.BallWicket:
		switch b.Delivery {
		case model.DeliveryWide:
			inn.Extras.Wides += b.Runs
			inn.Runs += b.Runs
			bowl.Wides++
			bowl.Runs += b.Runs
		case model.DeliveryNoBall:
			inn.Extras.NoBalls += b.Runs - b.BatRuns
			inn.Runs += b.Runs
			bowl.NoBalls++
			bowl.Runs += b.Runs
			bat.Runs += b.BatRuns
			countBoundary(bat, b.BatRuns)
		default:
			// completed runs before the dismissal count off the bat
			inn.Runs += b.Runs
			bat.Runs += b.Runs
			bat.Balls++
			countBoundary(bat, b.Runs)
			bowl.Runs += b.Runs
		}
		applyWicket(inn, b, bowl, legal)
	}

	// A no-ball arms the free hit; any legal delivery consumes it, whatever
	// the outcome (only a run out is possible on a free hit anyway).
	if legal {
		of.FreeHit = false
	}
	if b.Type == model.BallNoBall || (b.Type == model.BallWicket && b.Delivery == model.DeliveryNoBall) {
		of.FreeHit = true
	}

	// Over change: swap strike regardless of the last ball's parity,
	// composed with any odd-run swap that already happened above.
	if legal && inn.LegalBalls%6 == 0 {
		swapStrike(of)
		of.LastOverBowler = b.Bowler
		of.Bowler = ""
		if of.Phase == model.PhaseReady {
			of.Phase = model.PhaseAwaitingBowler
		}
	}

	inn.InPowerplay = cfg.PowerplayOvers > 0 && inn.LegalBalls < cfg.PowerplayOvers*6
}

func applyWicket(inn *model.Innings, b model.Ball, bowl *model.BowlerLine, legal bool) {
	w := b.Wicket
	of := &inn.OnField

	line := batterLine(inn, w.Batter)
	line.Out = true
	line.Dismissal = dismissalText(b)

	inn.Wickets++
	inn.FallOfWickets = append(inn.FallOfWickets, model.FallOfWicket{
		Score:  inn.Runs,
		Wicket: inn.Wickets,
		Over:   model.OversText(inn.LegalBalls),
		Batter: w.Batter,
	})

	if legal && bowlerCredited(w.Kind) {
		bowl.Wickets++
	}

	if w.NextBatter != "" {
		batterLine(inn, w.NextBatter)
		if w.Batter == of.Striker {
			if w.Crossed {
				of.Striker = of.NonStriker
				of.NonStriker = w.NextBatter
			} else {
				of.Striker = w.NextBatter
			}
		} else {
			if w.Crossed {
				of.NonStriker = of.Striker
				of.Striker = w.NextBatter
			} else {
				of.NonStriker = w.NextBatter
			}
		}
		return
	}

	// No replacement supplied: vacate the end and block scoring until one
	// arrives, unless the innings just lost its last wicket.
	if w.Batter == of.Striker {
		of.Striker = ""
	} else if w.Batter == of.NonStriker {
		of.NonStriker = ""
	}
	if inn.Wickets < 10 {
		of.Phase = model.PhaseAwaitingBatter
	}
}

func batterLine(inn *model.Innings, name string) *model.BatterLine {
	if line, ok := inn.Batters[name]; ok {
		return line
	}
	line := &model.BatterLine{}
	inn.Batters[name] = line
	return line
}

func bowlerLine(inn *model.Innings, name string) *model.BowlerLine {
	if line, ok := inn.Bowlers[name]; ok {
		return line
	}
	line := &model.BowlerLine{}
	inn.Bowlers[name] = line
	return line
}

func countBoundary(bat *model.BatterLine, runs int) {
	switch runs {
	case 4:
		bat.Fours++
	case 6:
		bat.Sixes++
	}
}

func swapStrike(of *model.OnField) {
	of.Striker, of.NonStriker = of.NonStriker, of.Striker
}

func dismissalText(b model.Ball) string {
	w := b.Wicket
	switch w.Kind {
	case model.WicketBowled:
		return fmt.Sprintf("b %s", b.Bowler)
	case model.WicketCaught:
		return fmt.Sprintf("c %s b %s", w.Fielder, b.Bowler)
	case model.WicketRunOut:
		return fmt.Sprintf("run out (%s)", w.Fielder)
	case model.WicketStumped:
		return fmt.Sprintf("st %s b %s", w.Fielder, b.Bowler)
	case model.WicketHitWicket:
		return fmt.Sprintf("hit wicket b %s", b.Bowler)
	case model.WicketRetiredHurt:
		return "retired hurt"
	case model.WicketRetiredOut:
		return "retired out"
	default:
		return string(w.Kind)
	}
}
