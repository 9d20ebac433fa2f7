package engine

import (
	"github.com/tapeball/cricket-scoring-service/internal/model"
)

// fielderRequired lists the wicket kinds that need a fielder on record.
func fielderRequired(k model.WicketKind) bool {
	switch k {
	case model.WicketCaught, model.WicketRunOut, model.WicketStumped:
		return true
	default:
		return false
	}
}

// bowlerCredited reports whether a dismissal counts toward the bowler's
// wicket tally. Run outs and retirements never do.
func bowlerCredited(k model.WicketKind) bool {
	switch k {
	case model.WicketRunOut, model.WicketRetiredHurt, model.WicketRetiredOut:
		return false
	default:
		return true
	}
}

// allowedWicketKinds returns the dismissals legal for the given delivery
// context. Free hits and no-balls permit only run outs and retirements;
// wides additionally permit stumpings.
func allowedWicketKinds(freeHit bool, d model.DeliveryKind) []model.WicketKind {
	if d == model.DeliveryNoBall || (freeHit && d == model.DeliveryLegal) {
		return []model.WicketKind{model.WicketRunOut, model.WicketRetiredHurt, model.WicketRetiredOut}
	}
	if d == model.DeliveryWide {
		return []model.WicketKind{model.WicketRunOut, model.WicketStumped, model.WicketRetiredHurt, model.WicketRetiredOut}
	}
	return []model.WicketKind{
		model.WicketBowled, model.WicketCaught, model.WicketRunOut, model.WicketStumped,
		model.WicketHitWicket, model.WicketRetiredHurt, model.WicketRetiredOut,
	}
}

func kindAllowed(kinds []model.WicketKind, k model.WicketKind) bool {
	for _, allowed := range kinds {
		if allowed == k {
			return true
		}
	}
	return false
}

func contains(list []string, name string) bool {
	for _, n := range list {
		if n == name {
			return true
		}
	}
	return false
}

// ValidateDelivery decides the legality of a proposed delivery against the
// current on-field state. It is a pure check: no mutation happens here, and
// a nil return is the only path into Commit's fold.
func ValidateDelivery(m *model.Match, b model.Ball) error {
	inn := m.CurrentInnings()
	if inn == nil {
		return ErrSetupPending
	}
	of := inn.OnField

	switch b.Type {
	case model.BallRun, model.BallWide, model.BallNoBall, model.BallBye, model.BallLegBye, model.BallWicket:
	default:
		return reject("unknown ball type %q", b.Type)
	}
	if b.Runs < 0 || b.BatRuns < 0 {
		return reject("run value cannot be negative")
	}
	if b.Type == model.BallWide || b.Type == model.BallNoBall {
		// wides and no-balls carry at least the one-run penalty
		if b.Runs < 1 {
			return reject("%s total must be at least 1", b.Type)
		}
	}
	if b.Type == model.BallNoBall && b.BatRuns > b.Runs-1 {
		return reject("no-ball bat runs exceed the total")
	}
	if b.Type == model.BallWicket {
		switch b.Delivery {
		case model.DeliveryWide, model.DeliveryNoBall:
			// the one-run penalty applies even when a wicket falls
			if b.Runs < 1 {
				return reject("%s total must be at least 1", b.Delivery)
			}
		}
		if b.Delivery == model.DeliveryNoBall && b.BatRuns > b.Runs-1 {
			return reject("no-ball bat runs exceed the total")
		}
	}
	if b.Type == model.BallWicket && b.Wicket == nil {
		return reject("wicket delivery is missing its dismissal record")
	}

	// Rule 1: on-field names must be present, distinct and from the XIs.
	if b.Striker == "" || b.NonStriker == "" {
		return reject("striker and non-striker must be selected")
	}
	if b.Striker == b.NonStriker {
		return reject("striker and non-striker cannot be the same player")
	}
	if b.Bowler == "" {
		return reject("bowler must be selected")
	}
	batXI := m.PlayingXI[inn.BattingTeam]
	bowlXI := m.PlayingXI[inn.BowlingTeam]
	if len(batXI) > 0 {
		if !contains(batXI, b.Striker) {
			return reject("%s is not in the %s playing XI", b.Striker, inn.BattingTeam)
		}
		if !contains(batXI, b.NonStriker) {
			return reject("%s is not in the %s playing XI", b.NonStriker, inn.BattingTeam)
		}
	}
	if len(bowlXI) > 0 && !contains(bowlXI, b.Bowler) {
		return reject("%s is not in the %s playing XI", b.Bowler, inn.BowlingTeam)
	}

	// Rule 2: a fallen wicket blocks everything until the replacement is in.
	if of.Phase == model.PhaseAwaitingBatter {
		return reject("next batter pending; select the replacement before the next delivery")
	}

	// The named pair must be the current crease. This also shuts the door on
	// a delivery reinstating a batter who is already out.
	if b.Striker != of.Striker {
		return reject("%s is not on strike", b.Striker)
	}
	if b.NonStriker != of.NonStriker {
		return reject("%s is not at the non-striker's end", b.NonStriker)
	}

	// Rule 3: no consecutive overs for the same bowler.
	if of.Phase == model.PhaseAwaitingBowler && of.LastOverBowler != "" && b.Bowler == of.LastOverBowler {
		return reject("bowler cannot bowl consecutive overs")
	}

	// Rule 4: per-bowler over cap.
	if maxBalls := m.Config.MaxOversPerBowler * 6; maxBalls > 0 {
		if line, ok := inn.Bowlers[b.Bowler]; ok && line.Balls >= maxBalls {
			return reject("%s has completed the maximum %d overs", b.Bowler, m.Config.MaxOversPerBowler)
		}
	}

	if b.Wicket == nil {
		return nil
	}
	w := b.Wicket

	// Rule 5: wicket kind legality depends on the delivery context.
	delivery := b.Delivery
	if delivery == "" {
		delivery = model.DeliveryLegal
	}
	if !kindAllowed(allowedWicketKinds(of.FreeHit, delivery), w.Kind) {
		if of.FreeHit && delivery == model.DeliveryLegal {
			return reject("free hit: only Run Out, Retired Hurt or Retired Out is possible")
		}
		return reject("%s is not possible on a %s delivery", w.Kind, delivery)
	}

	if w.Batter != b.Striker && w.Batter != b.NonStriker {
		return reject("dismissed batter must be the striker or the non-striker")
	}

	// Rule 6: catches, run outs and stumpings need a fielder from the XI.
	if fielderRequired(w.Kind) {
		if w.Fielder == "" {
			return reject("%s requires a fielder", w.Kind)
		}
		if len(bowlXI) > 0 && !contains(bowlXI, w.Fielder) {
			return reject("%s is not in the %s playing XI", w.Fielder, inn.BowlingTeam)
		}
	}

	// Rule 7: a replacement batter is mandatory until the ninth wicket falls.
	if w.Kind != model.WicketRetiredHurt && inn.Wickets < 9 {
		if w.NextBatter == "" {
			return reject("next batter must be selected")
		}
	}
	if w.NextBatter != "" {
		if w.NextBatter == b.Striker || w.NextBatter == b.NonStriker {
			return reject("next batter is already at the crease")
		}
		if line, ok := inn.Batters[w.NextBatter]; ok && line.Out {
			return reject("%s is already dismissed", w.NextBatter)
		}
		if len(batXI) > 0 && !contains(batXI, w.NextBatter) {
			return reject("%s is not in the %s playing XI", w.NextBatter, inn.BattingTeam)
		}
	}

	return nil
}
