package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/grocery-inventory/internal/engine"
	"github.com/rogerio-castellano/grocery-inventory/internal/service"
)

// GetForecastHandler godoc
// @Summary Demand forecast
// @Description Projects daily demand from consumption history. Only moving_average is implemented; other methods answer 501.
// @Tags planning
// @Produce json
// @Param id path int true "Product ID"
// @Param horizon query int false "Days to project (default 30)"
// @Param lookback query int false "Days of history (default 90)"
// @Param method query string false "Forecast method" Enums(moving_average, exponential_smoothing, linear_regression)
// @Success 200 {object} service.ProductForecast
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 501 {object} ErrorResponse
// @Router /products/{id}/forecast [get]
func (s *Server) GetForecastHandler(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "id")
	if err != nil {
		s.fail(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	req := service.ForecastRequest{Method: engine.ForecastMethod(r.URL.Query().Get("method"))}
	horizon, err := queryInt(r, "horizon")
	if err != nil {
		s.fail(w, http.StatusBadRequest, err.Error())
		return
	}
	lookback, err := queryInt(r, "lookback")
	if err != nil {
		s.fail(w, http.StatusBadRequest, err.Error())
		return
	}
	if horizon != nil {
		if *horizon <= 0 {
			s.fail(w, http.StatusBadRequest, "horizon must be positive")
			return
		}
		req.HorizonDays = *horizon
	}
	if lookback != nil {
		if *lookback <= 0 {
			s.fail(w, http.StatusBadRequest, "lookback must be positive")
			return
		}
		req.LookbackDays = *lookback
	}

	f, err := s.planner.Forecast(r.Context(), productID, req)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, f)
}

// GetProductReorderHandler godoc
// @Summary Reorder recommendation for one product
// @Tags planning
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} engine.ReorderRecommendation
// @Failure 404 {object} ErrorResponse
// @Router /products/{id}/reorder [get]
func (s *Server) GetProductReorderHandler(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "id")
	if err != nil {
		s.fail(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	rec, err := s.planner.Recommendation(r.Context(), productID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, rec)
}

// GetRecommendationsHandler godoc
// @Summary Reorder recommendations
// @Description One entry per product, most urgent first. status=needed drops products with adequate stock.
// @Tags planning
// @Produce json
// @Param status query string false "Filter" Enums(all, needed)
// @Success 200 {object} RecommendationsResult
// @Failure 400 {object} ErrorResponse
// @Router /reorder/recommendations [get]
func (s *Server) GetRecommendationsHandler(w http.ResponseWriter, r *http.Request) {
	var onlyNeeded bool
	switch r.URL.Query().Get("status") {
	case "", "all":
	case "needed":
		onlyNeeded = true
	default:
		s.fail(w, http.StatusBadRequest, "status must be all or needed")
		return
	}

	recs, err := s.planner.Recommendations(r.Context(), onlyNeeded)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if recs == nil {
		recs = []engine.ReorderRecommendation{}
	}
	s.respond(w, http.StatusOK, RecommendationsResult{Data: recs, Meta: Meta{TotalCount: len(recs)}})
}

// GetReportHandler godoc
// @Summary Inventory report
// @Description abc classifies products by share of stock value; valuation lists value and turns per product. turnover answers 501.
// @Tags planning
// @Produce json
// @Param kind path string true "Report kind" Enums(abc, valuation, turnover)
// @Success 200 {object} service.ABCReport
// @Failure 404 {object} ErrorResponse
// @Failure 501 {object} ErrorResponse
// @Router /reports/{kind} [get]
func (s *Server) GetReportHandler(w http.ResponseWriter, r *http.Request) {
	report, err := s.planner.Report(r.Context(), chi.URLParam(r, "kind"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, report)
}
