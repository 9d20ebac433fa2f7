package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tapeball/cricket-scoring-service/internal/model"
	"github.com/tapeball/cricket-scoring-service/internal/repository"
	"github.com/tapeball/cricket-scoring-service/internal/service"
	"github.com/tapeball/cricket-scoring-service/pkg/response"
)

type MatchHandler struct {
	svc service.MatchService
}

func NewMatchHandler(svc service.MatchService) *MatchHandler { return &MatchHandler{svc: svc} }

func (h *MatchHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/matches")
	{
		g.POST("", h.create)
		g.GET("", h.list)
		// Stable wildcard name (match_id) so nested routes can reuse it without Gin conflicts.
		g.GET("/:match_id", h.get)
		g.POST("/:match_id/toss", h.recordToss)
		g.POST("/:match_id/playing-xi", h.recordPlayingXI)
		g.POST("/:match_id/opening", h.recordOpening)
		g.POST("/:match_id/deliveries", h.recordDelivery)
		g.POST("/:match_id/next-batter", h.recordNextBatter)
		g.DELETE("/:match_id/deliveries/last", h.undoLastDelivery)
		g.PUT("/:match_id/status", h.setStatus)
		g.POST("/:match_id/reset", h.reset)
		g.POST("/:match_id/finalize", h.finalize)
		g.GET("/:match_id/chase", h.chase)
	}
}

type createMatchRequest struct {
	ID     string              `json:"id"`
	TeamA  string              `json:"team_a"`
	TeamB  string              `json:"team_b"`
	Config *model.MatchConfig  `json:"config"`
	Squads map[string][]string `json:"squads"`
}

func (h *MatchHandler) create(c *gin.Context) {
	var req createMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput) // parsing details stay internal
		return
	}
	m, err := h.svc.CreateMatch(c.Request.Context(), service.CreateMatchInput{
		ID:     req.ID,
		TeamA:  req.TeamA,
		TeamB:  req.TeamB,
		Config: req.Config,
		Squads: req.Squads,
	})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, m)
}

func (h *MatchHandler) get(c *gin.Context) {
	m, err := h.svc.GetMatch(c.Request.Context(), c.Param("match_id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, m)
}

func (h *MatchHandler) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	page := repository.Page{Limit: limit, Offset: offset}
	res, err := h.svc.ListMatches(c.Request.Context(), page)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}

type recordTossRequest struct {
	Winner   string             `json:"winner"`
	Decision model.TossDecision `json:"decision"`
}

func (h *MatchHandler) recordToss(c *gin.Context) {
	var req recordTossRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	m, err := h.svc.RecordToss(c.Request.Context(), c.Param("match_id"), req.Winner, req.Decision)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, m)
}

type recordPlayingXIRequest struct {
	PlayingXI  map[string][]string         `json:"playing_xi"`
	Leadership map[string]model.Leadership `json:"leadership"`
}

func (h *MatchHandler) recordPlayingXI(c *gin.Context) {
	var req recordPlayingXIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	m, err := h.svc.RecordPlayingXI(c.Request.Context(), c.Param("match_id"), req.PlayingXI, req.Leadership)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, m)
}

func (h *MatchHandler) recordOpening(c *gin.Context) {
	var req model.Opening
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	m, err := h.svc.RecordOpening(c.Request.Context(), c.Param("match_id"), req)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, m)
}

func (h *MatchHandler) recordDelivery(c *gin.Context) {
	var req model.Ball
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	m, err := h.svc.RecordDelivery(c.Request.Context(), c.Param("match_id"), req)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, m)
}

type nextBatterRequest struct {
	Name string `json:"name"`
}

func (h *MatchHandler) recordNextBatter(c *gin.Context) {
	var req nextBatterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	m, err := h.svc.RecordNextBatter(c.Request.Context(), c.Param("match_id"), req.Name)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, m)
}

func (h *MatchHandler) undoLastDelivery(c *gin.Context) {
	m, err := h.svc.UndoLastDelivery(c.Request.Context(), c.Param("match_id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, m)
}

type setStatusRequest struct {
	Status model.MatchStatus `json:"status"`
}

func (h *MatchHandler) setStatus(c *gin.Context) {
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	m, err := h.svc.SetMatchStatus(c.Request.Context(), c.Param("match_id"), req.Status)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, m)
}

func (h *MatchHandler) reset(c *gin.Context) {
	m, err := h.svc.ResetMatch(c.Request.Context(), c.Param("match_id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, m)
}

func (h *MatchHandler) finalize(c *gin.Context) {
	awards, err := h.svc.FinalizeAndComputeAwards(c.Request.Context(), c.Param("match_id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, awards)
}

func (h *MatchHandler) chase(c *gin.Context) {
	snap, err := h.svc.ChaseSnapshot(c.Request.Context(), c.Param("match_id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, snap)
}
