package server

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/polyfolio/pnl-data/internal/metrics"
	"github.com/polyfolio/pnl-data/internal/model"
)

var addressPattern = regexp.MustCompile(`^0x[0-9a-f]{40}$`)

// writeJSON writes v as a JSON response body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error body.
func writeError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// parseAddress lowercases and validates the address URL parameter.
func parseAddress(r *http.Request) (string, bool) {
	address := strings.ToLower(chi.URLParam(r, "address"))
	return address, addressPattern.MatchString(address)
}

// resultFor serves a reconciliation result from cache when fresh,
// otherwise runs a full reconciliation and stores the outcome.
func (s *Server) resultFor(r *http.Request, address string) *model.ReconciliationResult {
	ctx := r.Context()

	if result, ok := s.cache.Get(ctx, address); ok {
		metrics.CacheHits.Inc()
		return result
	}
	metrics.CacheMisses.Inc()

	result := s.service.Reconcile(ctx, address)
	s.cache.Set(ctx, address, result)

	if s.store != nil {
		if err := s.store.SaveSnapshot(ctx, result); err != nil {
			s.logger.Warn("snapshot save failed", "address", address, "error", err)
		}
	}
	s.hub.BroadcastResult(result)
	return result
}

// handlePnl handles GET /api/v1/pnl/{address}.
func (s *Server) handlePnl(w http.ResponseWriter, r *http.Request) {
	address, ok := parseAddress(r)
	if !ok {
		writeError(w, "address must be a 0x-prefixed hex address", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, s.resultFor(r, address))
}

// handleTimeline handles GET /api/v1/pnl/{address}/timeline.
func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	address, ok := parseAddress(r)
	if !ok {
		writeError(w, "address must be a 0x-prefixed hex address", http.StatusBadRequest)
		return
	}
	result := s.resultFor(r, address)
	writeJSON(w, http.StatusOK, map[string]any{
		"address":  result.Address,
		"timeline": result.Timeline,
	})
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok","service":"pnl-data"}`))
}
