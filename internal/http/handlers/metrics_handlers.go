package handlers

import (
	"net/http"
)

// GetDashboardMetricsHandler godoc
// @Summary Dashboard metrics
// @Tags metrics
// @Produce json
// @Success 200 {object} repo.Metrics
// @Failure 500 {object} ErrorResponse
// @Router /metrics/dashboard [get]
func (s *Server) GetDashboardMetricsHandler(w http.ResponseWriter, r *http.Request) {
	m, err := s.inventory.Dashboard(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, m)
}

// HealthHandler godoc
// @Summary Liveness probe
// @Tags metrics
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}
