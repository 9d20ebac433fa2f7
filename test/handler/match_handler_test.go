package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/tapeball/cricket-scoring-service/internal/engine"
	"github.com/tapeball/cricket-scoring-service/internal/handler"
	"github.com/tapeball/cricket-scoring-service/internal/model"
	"github.com/tapeball/cricket-scoring-service/internal/repository"
	"github.com/tapeball/cricket-scoring-service/internal/service"
)

// stubPingerNoop satisfies handler.Pinger (health endpoints not focus here).
type stubPingerNoop struct{}

func (s stubPingerNoop) Ping(ctx context.Context) error { return nil }

// stubMatchService lets each test pin the outcome of the method under test.
type stubMatchService struct {
	match  *model.Match
	awards *model.Awards
	chase  *model.ChaseSnapshot
	list   repository.PageResult[*model.Match]
	err    error
}

func (s *stubMatchService) CreateMatch(context.Context, service.CreateMatchInput) (*model.Match, error) {
	return s.match, s.err
}
func (s *stubMatchService) GetMatch(context.Context, string) (*model.Match, error) {
	return s.match, s.err
}
func (s *stubMatchService) ListMatches(context.Context, repository.Page) (repository.PageResult[*model.Match], error) {
	return s.list, s.err
}
func (s *stubMatchService) RecordToss(context.Context, string, string, model.TossDecision) (*model.Match, error) {
	return s.match, s.err
}
func (s *stubMatchService) RecordPlayingXI(context.Context, string, map[string][]string, map[string]model.Leadership) (*model.Match, error) {
	return s.match, s.err
}
func (s *stubMatchService) RecordOpening(context.Context, string, model.Opening) (*model.Match, error) {
	return s.match, s.err
}
func (s *stubMatchService) RecordDelivery(context.Context, string, model.Ball) (*model.Match, error) {
	return s.match, s.err
}
func (s *stubMatchService) RecordNextBatter(context.Context, string, string) (*model.Match, error) {
	return s.match, s.err
}
func (s *stubMatchService) UndoLastDelivery(context.Context, string) (*model.Match, error) {
	return s.match, s.err
}
func (s *stubMatchService) SetMatchStatus(context.Context, string, model.MatchStatus) (*model.Match, error) {
	return s.match, s.err
}
func (s *stubMatchService) ResetMatch(context.Context, string) (*model.Match, error) {
	return s.match, s.err
}
func (s *stubMatchService) FinalizeAndComputeAwards(context.Context, string) (*model.Awards, error) {
	return s.awards, s.err
}
func (s *stubMatchService) ChaseSnapshot(context.Context, string) (*model.ChaseSnapshot, error) {
	return s.chase, s.err
}

var _ service.MatchService = (*stubMatchService)(nil)

func newRouter(svc service.MatchService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler.Register(r, stubPingerNoop{}, svc, nil)
	return r
}

func TestMatchHandler_Create_OK(t *testing.T) {
	stub := &stubMatchService{match: &model.Match{ID: "m1", TeamA: "Team A", TeamB: "Team B", Status: model.StatusUpcoming}}
	r := newRouter(stub)

	body, _ := json.Marshal(map[string]string{"team_a": "Team A", "team_b": "Team B"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/matches", bytes.NewReader(body)))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var resp model.Match
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if resp.ID != "m1" {
		t.Fatalf("expected created match in body, got %+v", resp)
	}
}

func TestMatchHandler_Create_BadJSON(t *testing.T) {
	r := newRouter(&stubMatchService{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/matches", bytes.NewReader([]byte("{"))))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestMatchHandler_Get_NotFound(t *testing.T) {
	stub := &stubMatchService{err: repository.ErrNotFound}
	r := newRouter(stub)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/matches/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestMatchHandler_Delivery_RejectedCarriesReason(t *testing.T) {
	stub := &stubMatchService{err: engine.Reject("bowler cannot bowl consecutive overs")}
	r := newRouter(stub)

	body, _ := json.Marshal(model.Ball{Type: model.BallRun, Runs: 1, Striker: "A1", NonStriker: "A2", Bowler: "B1"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/matches/m1/deliveries", bytes.NewReader(body)))

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if payload.Error != "rejected" || payload.Message != "bowler cannot bowl consecutive overs" {
		t.Fatalf("expected rejection reason in payload, got %+v", payload)
	}
}

func TestMatchHandler_Delivery_SetupPending(t *testing.T) {
	stub := &stubMatchService{err: engine.ErrSetupPending}
	r := newRouter(stub)

	body, _ := json.Marshal(model.Ball{Type: model.BallRun, Striker: "A1", NonStriker: "A2", Bowler: "B1"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/matches/m1/deliveries", bytes.NewReader(body)))

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}

func TestMatchHandler_UndoRoute(t *testing.T) {
	stub := &stubMatchService{match: &model.Match{ID: "m1"}}
	r := newRouter(stub)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/matches/m1/deliveries/last", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestMatchHandler_Finalize_ReturnsAwards(t *testing.T) {
	stub := &stubMatchService{awards: &model.Awards{
		ManOfTheMatch: &model.PlayerAward{Name: "A1", Team: "Team A", Score: 64},
	}}
	r := newRouter(stub)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/matches/m1/finalize", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var awards model.Awards
	if err := json.Unmarshal(w.Body.Bytes(), &awards); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if awards.ManOfTheMatch == nil || awards.ManOfTheMatch.Name != "A1" {
		t.Fatalf("expected awards in body, got %+v", awards)
	}
}

func TestHealthRoutes(t *testing.T) {
	r := newRouter(&stubMatchService{})
	for _, path := range []string{"/live", "/ready", "/api/v1/health/live", "/api/v1/health/ready"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 on %s, got %d", path, w.Code)
		}
	}
}
