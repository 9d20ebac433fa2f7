package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/tapeball/cricket-scoring-service/internal/service"
	"github.com/tapeball/cricket-scoring-service/internal/stream"
)

// Register mounts all public routes on the given engine.
// The hub may be nil; the stream endpoint is then simply not mounted.
func Register(r *gin.Engine, repo Pinger, matchSvc service.MatchService, hub *stream.Hub) {
	h := NewHealthHandler(repo)

	// Health probes
	r.GET("/live", h.Liveness)
	r.GET("/ready", h.Readiness)

	api := r.Group(APIV1Prefix) // Versioning added via single source of truth
	{
		health := api.Group("/health")
		{
			health.GET("/live", h.Liveness)
			health.GET("/ready", h.Readiness)
		}
		NewMatchHandler(matchSvc).Register(api)
		if hub != nil {
			NewStreamHandler(matchSvc, hub).Register(api)
		}
	}
}
