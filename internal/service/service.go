// Package service holds business logic orchestration across the repository,
// the scoring engine and the handlers. Kept intentionally lean: use-case
// coordination, request validation and domain error shaping.
package service

import (
	"context"
	"errors"

	"github.com/tapeball/cricket-scoring-service/internal/model"
	"github.com/tapeball/cricket-scoring-service/internal/repository"
)

// ErrInvalidInput is the marker error for aggregated validation failures (maps to HTTP 400).
// Field-level details are retrieved via FieldErrors(err).
var ErrInvalidInput = errors.New("invalid input")

// FieldError describes a single invalid field in a client request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// invalidInputError aggregates multiple FieldError instances and unwraps to ErrInvalidInput.
type invalidInputError struct {
	fields []FieldError
}

func (e *invalidInputError) Error() string        { return ErrInvalidInput.Error() }
func (e *invalidInputError) Unwrap() error        { return ErrInvalidInput }
func (e *invalidInputError) Fields() []FieldError { return e.fields }

// newInvalidInput builds an aggregated validation error if any field errors are present.
func newInvalidInput(fe []FieldError) error {
	if len(fe) == 0 { // protective case
		return nil
	}
	return &invalidInputError{fields: fe}
}

// FieldErrors extracts field errors from an aggregated validation error.
func FieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}
	type feIface interface{ Fields() []FieldError }
	if v, ok := err.(feIface); ok && errors.Is(err, ErrInvalidInput) {
		return v.Fields()
	}
	return nil
}

// CreateMatchInput carries the creation request. ID is minted when empty;
// Config fields left at zero fall back to the service defaults.
type CreateMatchInput struct {
	ID     string
	TeamA  string
	TeamB  string
	Config *model.MatchConfig
	Squads map[string][]string
}

// MatchService defines the scoring use cases. Every mutating operation acts
// on one match document under a per-match writer lock.
type MatchService interface {
	CreateMatch(ctx context.Context, in CreateMatchInput) (*model.Match, error)
	GetMatch(ctx context.Context, id string) (*model.Match, error)
	ListMatches(ctx context.Context, page repository.Page) (repository.PageResult[*model.Match], error)

	RecordToss(ctx context.Context, id, winner string, decision model.TossDecision) (*model.Match, error)
	RecordPlayingXI(ctx context.Context, id string, xi map[string][]string, leadership map[string]model.Leadership) (*model.Match, error)
	RecordOpening(ctx context.Context, id string, opening model.Opening) (*model.Match, error)
	RecordDelivery(ctx context.Context, id string, ball model.Ball) (*model.Match, error)
	RecordNextBatter(ctx context.Context, id, name string) (*model.Match, error)
	UndoLastDelivery(ctx context.Context, id string) (*model.Match, error)
	SetMatchStatus(ctx context.Context, id string, status model.MatchStatus) (*model.Match, error)
	ResetMatch(ctx context.Context, id string) (*model.Match, error)
	FinalizeAndComputeAwards(ctx context.Context, id string) (*model.Awards, error)
	ChaseSnapshot(ctx context.Context, id string) (*model.ChaseSnapshot, error)
}

// Publisher receives the updated match document after every successful
// mutation. The stream hub implements it; a nil publisher disables streaming.
type Publisher interface {
	Publish(matchID string, m *model.Match)
}
