// Package model contains the match document and its nested shapes.
// I keep it lean and focused on data without behavior; every derived
// aggregate in here is the fold of the ball ledger, never set by hand.
package model

import (
	"fmt"
	"time"
)

// MatchStatus is the match lifecycle state.
type MatchStatus string

const (
	StatusUpcoming  MatchStatus = "UPCOMING"
	StatusLive      MatchStatus = "LIVE"
	StatusCompleted MatchStatus = "COMPLETED"
)

// TossDecision is what the toss winner chose to do.
type TossDecision string

const (
	DecisionBat  TossDecision = "BAT"
	DecisionBowl TossDecision = "BOWL"
)

// BallType classifies a delivery in the ledger.
type BallType string

const (
	BallRun    BallType = "RUN"
	BallWide   BallType = "WIDE"
	BallNoBall BallType = "NO_BALL"
	BallBye    BallType = "BYE"
	BallLegBye BallType = "LEG_BYE"
	BallWicket BallType = "WICKET"
)

// DeliveryKind is the delivery context of a wicket ball. A WICKET entry can
// fall on a legal ball, a wide or a no-ball; the extras accounting and the
// allowed wicket kinds depend on it.
type DeliveryKind string

const (
	DeliveryLegal  DeliveryKind = "LEGAL"
	DeliveryWide   DeliveryKind = "WIDE"
	DeliveryNoBall DeliveryKind = "NO_BALL"
)

// WicketKind is the dismissal type. LBW is intentionally absent (house rule).
type WicketKind string

const (
	WicketBowled      WicketKind = "Bowled"
	WicketCaught      WicketKind = "Caught"
	WicketRunOut      WicketKind = "Run Out"
	WicketStumped     WicketKind = "Stumped"
	WicketHitWicket   WicketKind = "Hit Wicket"
	WicketRetiredHurt WicketKind = "Retired Hurt"
	WicketRetiredOut  WicketKind = "Retired Out"
)

// OnFieldPhase gates what the scorer may record next.
type OnFieldPhase string

const (
	PhaseReady          OnFieldPhase = "ready"
	PhaseAwaitingBatter OnFieldPhase = "awaiting_batter"
	PhaseAwaitingBowler OnFieldPhase = "awaiting_bowler"
)

// MatchConfig holds the per-match rule parameters.
type MatchConfig struct {
	OversPerInnings   int `json:"overs_per_innings"`
	PowerplayOvers    int `json:"powerplay_overs"`
	MaxOversPerBowler int `json:"max_overs_per_bowler"`
}

// Toss records the toss outcome.
type Toss struct {
	Winner   string       `json:"winner"`
	Decision TossDecision `json:"decision"`
}

// Leadership is the per-team XI metadata. The wicket-keeper matters to the
// core: he is excluded from the opening-bowler pool.
type Leadership struct {
	Captain      string `json:"captain,omitempty"`
	ViceCaptain  string `json:"vice_captain,omitempty"`
	WicketKeeper string `json:"wicket_keeper,omitempty"`
}

// Wicket is the dismissal sub-record of a WICKET ball.
type Wicket struct {
	Kind WicketKind `json:"kind"`
	// Batter is the dismissed batter (striker or non-striker).
	Batter string `json:"batter"`
	// NextBatter is empty only when no replacement is supplied
	// (last wicket, or a retirement left unresolved).
	NextBatter string `json:"next_batter,omitempty"`
	// Fielder is required for Caught, Run Out and Stumped.
	Fielder string `json:"fielder,omitempty"`
	// Crossed reports whether the batters crossed before the dismissal;
	// it decides which end the incoming batter takes.
	Crossed bool `json:"crossed"`
}

// Ball is one immutable entry of the ball-by-ball ledger. Corrections happen
// only via whole-ball undo, never in-place edits.
type Ball struct {
	Seq  int      `json:"seq"`
	Type BallType `json:"type"`
	// Runs is the total run value; its meaning depends on Type. For WIDE and
	// NO_BALL it includes the one-run penalty.
	Runs int `json:"runs"`
	// BatRuns is the portion of a no-ball total scored off the bat.
	BatRuns int `json:"bat_runs,omitempty"`
	// Delivery is the context of a WICKET ball; LEGAL for everything else.
	Delivery   DeliveryKind `json:"delivery,omitempty"`
	Striker    string       `json:"striker"`
	NonStriker string       `json:"non_striker"`
	Bowler     string       `json:"bowler"`
	Wicket     *Wicket      `json:"wicket,omitempty"`
	At         time.Time    `json:"at"`
}

// IsLegal reports whether the ball counts toward the six-ball over.
func (b Ball) IsLegal() bool {
	switch b.Type {
	case BallWide, BallNoBall:
		return false
	case BallWicket:
		return b.Delivery == "" || b.Delivery == DeliveryLegal
	default:
		return true
	}
}

// BatterLine is a batter's aggregate within one innings.
type BatterLine struct {
	Runs      int    `json:"runs"`
	Balls     int    `json:"balls"`
	Fours     int    `json:"fours"`
	Sixes     int    `json:"sixes"`
	Out       bool   `json:"out"`
	Dismissal string `json:"dismissal,omitempty"`
}

// BowlerLine is a bowler's aggregate within one innings. Wides and NoBalls
// count deliveries, not runs; Runs is the full amount conceded.
type BowlerLine struct {
	Balls   int `json:"balls"`
	Runs    int `json:"runs"`
	Wickets int `json:"wickets"`
	Wides   int `json:"wides"`
	NoBalls int `json:"no_balls"`
}

// Extras is the innings extras breakdown. Values are runs, not deliveries.
type Extras struct {
	Wides   int `json:"wides"`
	NoBalls int `json:"no_balls"`
	Byes    int `json:"byes"`
	LegByes int `json:"leg_byes"`
}

// Total sums all extras buckets.
func (e Extras) Total() int { return e.Wides + e.NoBalls + e.Byes + e.LegByes }

// FallOfWicket is one entry of the fall-of-wickets list.
type FallOfWicket struct {
	Score  int    `json:"score"`
	Wicket int    `json:"wicket"`
	Over   string `json:"over"`
	Batter string `json:"batter"`
}

// Opening is the recorded opening selection of an innings. It is the replay
// seed: rebuilding the innings starts from exactly this on-field state.
type Opening struct {
	Striker    string `json:"striker"`
	NonStriker string `json:"non_striker"`
	Bowler     string `json:"bowler"`
}

// OnField is the derived pointer state of the live innings.
type OnField struct {
	Striker        string       `json:"striker"`
	NonStriker     string       `json:"non_striker"`
	Bowler         string       `json:"bowler"`
	LastOverBowler string       `json:"last_over_bowler,omitempty"`
	FreeHit        bool         `json:"free_hit"`
	Phase          OnFieldPhase `json:"phase"`
}

// Innings is one batting innings. Runs, Wickets, LegalBalls, Extras and the
// per-player lines are always exactly the fold of Balls.
type Innings struct {
	BattingTeam   string                 `json:"batting_team"`
	BowlingTeam   string                 `json:"bowling_team"`
	Runs          int                    `json:"runs"`
	Wickets       int                    `json:"wickets"`
	LegalBalls    int                    `json:"legal_balls"`
	Extras        Extras                 `json:"extras"`
	Batters       map[string]*BatterLine `json:"batters"`
	Bowlers       map[string]*BowlerLine `json:"bowlers"`
	Balls         []Ball                 `json:"balls"`
	FallOfWickets []FallOfWicket         `json:"fall_of_wickets,omitempty"`
	Opening       *Opening               `json:"opening,omitempty"`
	OnField       OnField                `json:"on_field"`
	InPowerplay   bool                   `json:"in_powerplay"`
	Closed        bool                   `json:"closed"`
}

// OversText renders the legal-ball count as the usual O.B notation.
func (i *Innings) OversText() string {
	return OversText(i.LegalBalls)
}

// Result is the final match outcome. Ties are flagged and left to an
// external process (repeated Super Over) that this core does not model.
type Result struct {
	Text   string `json:"text"`
	Winner string `json:"winner,omitempty"`
	Tie    bool   `json:"tie"`
}

// PlayerAward is the Man of the Match entry.
type PlayerAward struct {
	Name  string `json:"name"`
	Team  string `json:"team"`
	Score int    `json:"score"`
}

// SixerAward is the most-sixes entry.
type SixerAward struct {
	Name  string `json:"name"`
	Team  string `json:"team"`
	Sixes int    `json:"sixes"`
	Runs  int    `json:"runs"`
}

// BowlerAward is the best-bowler entry.
type BowlerAward struct {
	Name    string  `json:"name"`
	Team    string  `json:"team"`
	Wickets int     `json:"wickets"`
	Economy float64 `json:"economy"`
}

// Awards holds the rule-based awards, computed once at completion.
type Awards struct {
	ManOfTheMatch *PlayerAward `json:"man_of_the_match,omitempty"`
	SixerKing     *SixerAward  `json:"sixer_king,omitempty"`
	BestBowler    *BowlerAward `json:"best_bowler,omitempty"`
}

// ChaseSnapshot is derived chase state for the second innings. It is never
// stored; callers recompute it from the document.
type ChaseSnapshot struct {
	Target          int     `json:"target"`
	RunsNeeded      int     `json:"runs_needed"`
	BallsLeft       int     `json:"balls_left"`
	RequiredRunRate float64 `json:"required_run_rate"`
}

// Match is the whole match document. It is owned by the scoring core; the
// persistence layer only stores and streams snapshots of it.
type Match struct {
	ID     string      `json:"id"`
	TeamA  string      `json:"team_a"`
	TeamB  string      `json:"team_b"`
	Status MatchStatus `json:"status"`
	Toss   *Toss       `json:"toss,omitempty"`
	Config MatchConfig `json:"config"`
	// Squads are the eligible players per team, supplied externally. The core
	// only validates membership against them; it never manages rosters.
	Squads       map[string][]string   `json:"squads,omitempty"`
	PlayingXI    map[string][]string   `json:"playing_xi,omitempty"`
	Leadership   map[string]Leadership `json:"leadership,omitempty"`
	Innings      []Innings             `json:"innings"`
	InningsIndex int                   `json:"innings_index"`
	Target       int                   `json:"target,omitempty"`
	Result       *Result               `json:"result,omitempty"`
	Awards       *Awards               `json:"awards,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`

	// Version is the storage optimistic-concurrency token. The repository
	// maintains it; the core never touches it.
	Version int64 `json:"-"`
}

// CurrentInnings returns the active innings, or nil before the first opening
// has been recorded.
func (m *Match) CurrentInnings() *Innings {
	if m.InningsIndex < 0 || m.InningsIndex >= len(m.Innings) {
		return nil
	}
	return &m.Innings[m.InningsIndex]
}

// OtherTeam returns the opponent of the given team.
func (m *Match) OtherTeam(team string) string {
	if team == m.TeamA {
		return m.TeamB
	}
	return m.TeamA
}

// TotalBallsPerInnings is the over limit expressed in legal balls.
func (m *Match) TotalBallsPerInnings() int {
	return m.Config.OversPerInnings * 6
}

// OversText renders a legal-ball count as O.B.
func OversText(legalBalls int) string {
	return fmt.Sprintf("%d.%d", legalBalls/6, legalBalls%6)
}
