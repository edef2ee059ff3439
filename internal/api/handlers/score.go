package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/dolarscope/backend/internal/aggregator"
	"github.com/dolarscope/backend/pkg/logger"
)

// ScoreHandler serves the score bundle and the raw market snapshot to
// the dashboard. Both endpoints always answer 200: a degraded upstream
// shows up as mock data and a short factors list, never as an error.
type ScoreHandler struct {
	agg    *aggregator.Aggregator
	logger *logger.Logger
}

// NewScoreHandler creates a new score handler.
func NewScoreHandler(agg *aggregator.Aggregator, log *logger.Logger) *ScoreHandler {
	return &ScoreHandler{
		agg:    agg,
		logger: log,
	}
}

// GetScore handles GET /api/score.
func (h *ScoreHandler) GetScore(w http.ResponseWriter, r *http.Request) {
	bundle := h.agg.ScoreBundle(r.Context())

	writeJSON(w, bundle)
}

// GetMarket handles GET /api/market.
func (h *ScoreHandler) GetMarket(w http.ResponseWriter, r *http.Request) {
	snapshot := h.agg.MarketSnapshot(r.Context())

	writeJSON(w, snapshot)
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}
