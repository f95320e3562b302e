package handlers

import (
	"net/http"
	"time"

	"github.com/rogerio-castellano/grocery-inventory/internal/models"
	"github.com/rogerio-castellano/grocery-inventory/internal/repo"
)

const defaultConsumptionDays = 30

// GetMovementsHandler godoc
// @Summary Stock movements of a product
// @Description Newest first. since/until accept RFC3339 or YYYY-MM-DD.
// @Tags movements
// @Produce json
// @Param id path int true "Product ID"
// @Param since query string false "Start date"
// @Param until query string false "End date"
// @Param kind query string false "Movement kind" Enums(receive, consume, waste, adjust, empty)
// @Param offset query int false "Offset"
// @Param limit query int false "Limit"
// @Success 200 {object} MovementsSearchResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /products/{id}/movements [get]
func (s *Server) GetMovementsHandler(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "id")
	if err != nil {
		s.fail(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	mf := repo.MovementFilter{Kind: r.URL.Query().Get("kind")}
	if mf.Kind != "" && !models.MovementKind(mf.Kind).Valid() {
		s.fail(w, http.StatusBadRequest, "invalid kind")
		return
	}
	if mf.Since, err = queryTime(r, "since"); err != nil {
		s.fail(w, http.StatusBadRequest, err.Error())
		return
	}
	if mf.Until, err = queryTime(r, "until"); err != nil {
		s.fail(w, http.StatusBadRequest, err.Error())
		return
	}
	if mf.Offset, err = queryInt(r, "offset"); err != nil {
		s.fail(w, http.StatusBadRequest, err.Error())
		return
	}
	if mf.Limit, err = queryInt(r, "limit"); err != nil {
		s.fail(w, http.StatusBadRequest, err.Error())
		return
	}

	movements, total, err := s.inventory.Movements(r.Context(), productID, mf)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if movements == nil {
		movements = []models.Movement{}
	}
	s.respond(w, http.StatusOK, MovementsSearchResult{Data: movements, Meta: Meta{TotalCount: total}})
}

// GetConsumptionHandler godoc
// @Summary Daily consumption of a product
// @Description Units consumed per calendar day, both ends inclusive. Defaults to the last 30 days.
// @Tags movements
// @Produce json
// @Param id path int true "Product ID"
// @Param since query string false "First day (YYYY-MM-DD)"
// @Param until query string false "Last day (YYYY-MM-DD)"
// @Success 200 {object} ConsumptionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /products/{id}/consumption [get]
func (s *Server) GetConsumptionHandler(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "id")
	if err != nil {
		s.fail(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	until := s.inventory.Today()
	since := until.AddDate(0, 0, -(defaultConsumptionDays - 1))
	if t, err := queryTime(r, "until"); err != nil {
		s.fail(w, http.StatusBadRequest, err.Error())
		return
	} else if t != nil {
		until = *t
	}
	if t, err := queryTime(r, "since"); err != nil {
		s.fail(w, http.StatusBadRequest, err.Error())
		return
	} else if t != nil {
		since = *t
	}

	records, err := s.inventory.ConsumptionHistory(r.Context(), productID, since, until)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if records == nil {
		records = []models.ConsumptionRecord{}
	}

	total := 0
	for _, rec := range records {
		total += rec.Quantity
	}
	s.respond(w, http.StatusOK, ConsumptionResponse{
		ProductID: productID,
		Since:     since.Format(time.DateOnly),
		Until:     until.Format(time.DateOnly),
		Total:     total,
		Data:      records,
	})
}
