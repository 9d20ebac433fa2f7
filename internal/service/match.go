package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/tapeball/cricket-scoring-service/internal/engine"
	"github.com/tapeball/cricket-scoring-service/internal/model"
	"github.com/tapeball/cricket-scoring-service/internal/repository"
)

// saveRetries bounds the reload-and-revalidate loop when the optimistic
// version check loses a race. With the per-match lock in front of it the
// loop should rarely run more than once.
const saveRetries = 3

type matchService struct {
	matches  repository.MatchRepository
	pub      Publisher
	defaults model.MatchConfig
	log      zerolog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewMatchService wires the scoring use cases over a match repository.
// pub may be nil when no live stream is attached.
func NewMatchService(matches repository.MatchRepository, pub Publisher, defaults model.MatchConfig, logger zerolog.Logger) MatchService {
	l := logger.With().Str("module", "service").Str("component", "match").Logger()
	return &matchService{
		matches:  matches,
		pub:      pub,
		defaults: defaults,
		log:      l,
		locks:    make(map[string]*sync.Mutex),
	}
}

// lockFor returns the per-match writer lock, creating it on first use.
// Locks are never evicted; a mutex per scored match is a trivial footprint.
func (s *matchService) lockFor(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.locks[id]; ok {
		return l
	}
	l := &sync.Mutex{}
	s.locks[id] = l
	return l
}

// mutate runs fn against a fresh snapshot under the match's writer lock and
// saves the outcome with a version compare-and-swap. A lost race reloads the
// document and revalidates from scratch — fn must be a pure function of the
// loaded state, never of state captured outside.
func (s *matchService) mutate(ctx context.Context, id string, fn func(m *model.Match) error) (*model.Match, error) {
	if id == "" {
		return nil, newInvalidInput([]FieldError{{Field: "match_id", Message: "must be set"}})
	}
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	var lastErr error
	for attempt := 0; attempt < saveRetries; attempt++ {
		m, err := s.matches.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := fn(m); err != nil {
			return nil, err
		}
		m.UpdatedAt = time.Now().UTC()
		if err := s.matches.Save(ctx, m); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				s.log.Warn().Str("match_id", id).Int("attempt", attempt+1).Msg("version conflict, reloading")
				lastErr = err
				continue
			}
			return nil, err
		}
		if s.pub != nil {
			s.pub.Publish(id, m)
		}
		return m, nil
	}
	return nil, lastErr
}

func (s *matchService) CreateMatch(ctx context.Context, in CreateMatchInput) (*model.Match, error) {
	teamA := strings.TrimSpace(in.TeamA)
	teamB := strings.TrimSpace(in.TeamB)

	var ferrs []FieldError
	if teamA == "" {
		ferrs = append(ferrs, FieldError{Field: "team_a", Message: "must be set"})
	}
	if teamB == "" {
		ferrs = append(ferrs, FieldError{Field: "team_b", Message: "must be set"})
	}
	if teamA != "" && teamA == teamB {
		ferrs = append(ferrs, FieldError{Field: "teams", Message: "teams must differ"})
	}

	cfg := s.defaults
	if in.Config != nil {
		cfg = *in.Config
	}
	if cfg.OversPerInnings <= 0 {
		ferrs = append(ferrs, FieldError{Field: "config.overs_per_innings", Message: "must be > 0"})
	}
	if cfg.PowerplayOvers < 0 || cfg.PowerplayOvers > cfg.OversPerInnings {
		ferrs = append(ferrs, FieldError{Field: "config.powerplay_overs", Message: "must be between 0 and overs_per_innings"})
	}
	if cfg.MaxOversPerBowler < 0 {
		ferrs = append(ferrs, FieldError{Field: "config.max_overs_per_bowler", Message: "cannot be negative"})
	}
	for team := range in.Squads {
		if team != teamA && team != teamB {
			ferrs = append(ferrs, FieldError{Field: "squads", Message: "squad team " + team + " is not playing this match"})
		}
	}
	if err := newInvalidInput(ferrs); err != nil {
		return nil, err
	}

	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = uuid.NewString()
	}
	now := time.Now().UTC()
	m := &model.Match{
		ID:        id,
		TeamA:     teamA,
		TeamB:     teamB,
		Status:    model.StatusUpcoming,
		Config:    cfg,
		Squads:    in.Squads,
		Innings:   []model.Innings{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.matches.Create(ctx, m); err != nil {
		s.log.Error().Err(err).Str("match_id", id).Msg("create match failed")
		return nil, err
	}
	s.log.Info().Str("match_id", id).Str("team_a", teamA).Str("team_b", teamB).Msg("match created")
	return m, nil
}

func (s *matchService) GetMatch(ctx context.Context, id string) (*model.Match, error) {
	if id == "" {
		return nil, newInvalidInput([]FieldError{{Field: "match_id", Message: "must be set"}})
	}
	return s.matches.Get(ctx, id)
}

func (s *matchService) ListMatches(ctx context.Context, page repository.Page) (repository.PageResult[*model.Match], error) {
	p := normalizePage(page)
	res, err := s.matches.List(ctx, p)
	if err != nil {
		s.log.Error().Err(err).Int("limit", p.Limit).Int("offset", p.Offset).Msg("list matches failed")
		return repository.PageResult[*model.Match]{}, err
	}
	return res, nil
}

func (s *matchService) RecordToss(ctx context.Context, id, winner string, decision model.TossDecision) (*model.Match, error) {
	winner = strings.TrimSpace(winner)
	var ferrs []FieldError
	if winner == "" {
		ferrs = append(ferrs, FieldError{Field: "winner", Message: "must be set"})
	}
	if decision != model.DecisionBat && decision != model.DecisionBowl {
		ferrs = append(ferrs, FieldError{Field: "decision", Message: "must be BAT or BOWL"})
	}
	if err := newInvalidInput(ferrs); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(m *model.Match) error {
		if m.Status != model.StatusUpcoming {
			return engine.Reject("toss can only be recorded before the match starts")
		}
		if winner != m.TeamA && winner != m.TeamB {
			return newInvalidInput([]FieldError{{Field: "winner", Message: "must be one of the two teams"}})
		}
		m.Toss = &model.Toss{Winner: winner, Decision: decision}
		return nil
	})
}

func (s *matchService) RecordPlayingXI(ctx context.Context, id string, xi map[string][]string, leadership map[string]model.Leadership) (*model.Match, error) {
	if len(xi) == 0 {
		return nil, newInvalidInput([]FieldError{{Field: "playing_xi", Message: "must be set"}})
	}
	return s.mutate(ctx, id, func(m *model.Match) error {
		if m.Status != model.StatusUpcoming {
			return engine.Reject("playing XI can only be recorded before the match starts")
		}
		var ferrs []FieldError
		for team, players := range xi {
			if team != m.TeamA && team != m.TeamB {
				ferrs = append(ferrs, FieldError{Field: "playing_xi", Message: team + " is not playing this match"})
				continue
			}
			ferrs = append(ferrs, validateXI(team, players, m.Squads[team])...)
		}
		for team, lead := range leadership {
			players, ok := xi[team]
			if !ok {
				ferrs = append(ferrs, FieldError{Field: "leadership", Message: "leadership for " + team + " has no matching XI"})
				continue
			}
			ferrs = append(ferrs, validateLeadership(team, lead, players)...)
		}
		if err := newInvalidInput(ferrs); err != nil {
			return err
		}

		if m.PlayingXI == nil {
			m.PlayingXI = make(map[string][]string, 2)
		}
		for team, players := range xi {
			m.PlayingXI[team] = append([]string(nil), players...)
		}
		if len(leadership) > 0 && m.Leadership == nil {
			m.Leadership = make(map[string]model.Leadership, 2)
		}
		for team, lead := range leadership {
			m.Leadership[team] = lead
		}
		return nil
	})
}

func (s *matchService) RecordOpening(ctx context.Context, id string, opening model.Opening) (*model.Match, error) {
	var ferrs []FieldError
	if opening.Striker == "" {
		ferrs = append(ferrs, FieldError{Field: "striker", Message: "must be set"})
	}
	if opening.NonStriker == "" {
		ferrs = append(ferrs, FieldError{Field: "non_striker", Message: "must be set"})
	}
	if opening.Bowler == "" {
		ferrs = append(ferrs, FieldError{Field: "bowler", Message: "must be set"})
	}
	if opening.Striker != "" && opening.Striker == opening.NonStriker {
		ferrs = append(ferrs, FieldError{Field: "non_striker", Message: "openers must differ"})
	}
	if err := newInvalidInput(ferrs); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(m *model.Match) error {
		if m.Status == model.StatusCompleted {
			return engine.Reject("match is completed")
		}
		if m.Toss == nil {
			return engine.Reject("toss must be recorded before the opening")
		}
		if len(m.PlayingXI[m.TeamA]) == 0 || len(m.PlayingXI[m.TeamB]) == 0 {
			return engine.Reject("both playing XIs must be recorded before the opening")
		}

		// First innings: created here, sides derived from the toss.
		if len(m.Innings) == 0 {
			batting := m.Toss.Winner
			if m.Toss.Decision == model.DecisionBowl {
				batting = m.OtherTeam(m.Toss.Winner)
			}
			m.Innings = append(m.Innings, engine.NewInnings(batting, m.OtherTeam(batting)))
			m.InningsIndex = 0
		}

		inn := m.CurrentInnings()
		if inn.Opening != nil {
			return engine.Reject("opening is already recorded for this innings")
		}
		if err := validateOpening(m, inn, opening); err != nil {
			return err
		}
		engine.SeedOpening(inn, opening)
		inn.InPowerplay = m.Config.PowerplayOvers > 0
		return nil
	})
}

func (s *matchService) RecordDelivery(ctx context.Context, id string, ball model.Ball) (*model.Match, error) {
	return s.mutate(ctx, id, func(m *model.Match) error {
		return engine.Commit(m, ball)
	})
}

func (s *matchService) RecordNextBatter(ctx context.Context, id, name string) (*model.Match, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, newInvalidInput([]FieldError{{Field: "name", Message: "must be set"}})
	}
	return s.mutate(ctx, id, func(m *model.Match) error {
		return engine.RecordNextBatter(m, name)
	})
}

func (s *matchService) UndoLastDelivery(ctx context.Context, id string) (*model.Match, error) {
	return s.mutate(ctx, id, func(m *model.Match) error {
		return engine.UndoLast(m)
	})
}

func (s *matchService) SetMatchStatus(ctx context.Context, id string, status model.MatchStatus) (*model.Match, error) {
	switch status {
	case model.StatusUpcoming, model.StatusLive, model.StatusCompleted:
	default:
		return nil, newInvalidInput([]FieldError{{Field: "status", Message: "must be one of UPCOMING|LIVE|COMPLETED"}})
	}
	return s.mutate(ctx, id, func(m *model.Match) error {
		if status == m.Status {
			return nil
		}
		switch status {
		case model.StatusLive:
			if m.Status == model.StatusCompleted {
				return engine.Reject("completed match cannot go live; use reset")
			}
			if m.Toss == nil {
				return engine.Reject("toss must be recorded before going live")
			}
			if len(m.PlayingXI[m.TeamA]) == 0 || len(m.PlayingXI[m.TeamB]) == 0 {
				return engine.Reject("both playing XIs must be recorded before going live")
			}
			inn := m.CurrentInnings()
			if inn == nil || inn.Opening == nil {
				return engine.Reject("opening must be recorded before going live")
			}
			m.Status = model.StatusLive
		case model.StatusCompleted:
			// manual end of match, result from whatever the ledger holds
			engine.Complete(m)
		case model.StatusUpcoming:
			return engine.Reject("match cannot go back to upcoming; use reset")
		}
		return nil
	})
}

func (s *matchService) ResetMatch(ctx context.Context, id string) (*model.Match, error) {
	m, err := s.mutate(ctx, id, func(m *model.Match) error {
		m.Status = model.StatusUpcoming
		m.Toss = nil
		m.PlayingXI = nil
		m.Leadership = nil
		m.Innings = []model.Innings{}
		m.InningsIndex = 0
		m.Target = 0
		m.Result = nil
		m.Awards = nil
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("match_id", id).Msg("match reset")
	return m, nil
}

func (s *matchService) FinalizeAndComputeAwards(ctx context.Context, id string) (*model.Awards, error) {
	m, err := s.mutate(ctx, id, func(m *model.Match) error {
		if m.Status == model.StatusUpcoming {
			return engine.Reject("match has not started")
		}
		if m.Status != model.StatusCompleted {
			engine.Complete(m)
			return nil
		}
		// already completed: Finalize is a no-op returning stored awards
		engine.Finalize(m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m.Awards, nil
}

func (s *matchService) ChaseSnapshot(ctx context.Context, id string) (*model.ChaseSnapshot, error) {
	m, err := s.GetMatch(ctx, id)
	if err != nil {
		return nil, err
	}
	snap := engine.Chase(m)
	if snap == nil {
		return nil, engine.Reject("no chase in progress")
	}
	return snap, nil
}
