package handlers

import (
	"net/http"
	"time"

	"github.com/rogerio-castellano/grocery-inventory/internal/engine"
	"github.com/rogerio-castellano/grocery-inventory/internal/models"
	"github.com/rogerio-castellano/grocery-inventory/internal/repo"
)

// CreateBatchHandler godoc
// @Summary Receive a batch
// @Description Records newly delivered stock for a product. received_date defaults to today.
// @Tags batches
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param batch body BatchRequest true "Batch"
// @Success 201 {object} models.InventoryBatch
// @Failure 400 {array} ValidationError
// @Failure 404 {object} ErrorResponse
// @Router /products/{id}/batches [post]
func (s *Server) CreateBatchHandler(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "id")
	if err != nil {
		s.fail(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	var req BatchRequest
	if err := readJSON(w, r, &req); err != nil {
		s.fail(w, http.StatusBadRequest, "invalid input")
		return
	}
	if errs := s.check(req); len(errs) > 0 {
		s.respond(w, http.StatusBadRequest, errs)
		return
	}

	// both dates already passed the datetime validator
	expires, _ := parseDate(req.ExpirationDate)
	received, _ := parseDate(req.ReceivedDate)
	b := models.InventoryBatch{
		ProductID:      productID,
		Quantity:       req.Quantity,
		CaseQuantity:   req.CaseQuantity,
		ExpirationDate: expires,
		Location:       req.Location,
		Notes:          req.Notes,
	}
	if received != nil {
		b.ReceivedDate = *received
	}

	created, err := s.inventory.ReceiveBatch(r.Context(), b, actorFrom(r.Context()))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respond(w, http.StatusCreated, created)
}

// GetProductBatchesHandler godoc
// @Summary Batch snapshot
// @Description Lists a product's batches first-expired-first-out, each with its urgency. An unknown product has no batches.
// @Tags batches
// @Produce json
// @Param id path int true "Product ID"
// @Param today query string false "Reference date (YYYY-MM-DD)"
// @Success 200 {object} SnapshotResponse
// @Failure 400 {object} ErrorResponse
// @Router /products/{id}/batches [get]
func (s *Server) GetProductBatchesHandler(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "id")
	if err != nil {
		s.fail(w, http.StatusBadRequest, "invalid product ID")
		return
	}
	today, err := s.today(r.URL.Query().Get("today"))
	if err != nil {
		s.fail(w, http.StatusBadRequest, "invalid today date format")
		return
	}

	batches, err := s.inventory.Snapshot(r.Context(), productID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, SnapshotResponse{
		ProductID:     productID,
		Today:         today.Format(time.DateOnly),
		TotalQuantity: engine.TotalQuantity(batches),
		Batches:       batchViews(batches, today),
	})
}

// GetSuggestionHandler godoc
// @Summary Suggest the next batch to use
// @Description Picks the non-empty batch that expires first. suggestion is null when nothing is in stock.
// @Tags batches
// @Produce json
// @Param id path int true "Product ID"
// @Param today query string false "Reference date (YYYY-MM-DD)"
// @Success 200 {object} SuggestionResponse
// @Failure 400 {object} ErrorResponse
// @Router /products/{id}/suggestion [get]
func (s *Server) GetSuggestionHandler(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "id")
	if err != nil {
		s.fail(w, http.StatusBadRequest, "invalid product ID")
		return
	}
	today, err := s.today(r.URL.Query().Get("today"))
	if err != nil {
		s.fail(w, http.StatusBadRequest, "invalid today date format")
		return
	}

	suggestion, ok, err := s.inventory.Suggest(r.Context(), productID, today)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	resp := SuggestionResponse{ProductID: productID, Today: today.Format(time.DateOnly)}
	if ok {
		resp.Suggestion = &suggestion
	} else {
		resp.Message = "No stock available"
	}
	s.respond(w, http.StatusOK, resp)
}

// GetBatchHandler godoc
// @Summary Get batch by ID
// @Tags batches
// @Produce json
// @Param id path int true "Batch ID"
// @Success 200 {object} models.InventoryBatch
// @Failure 404 {object} ErrorResponse
// @Router /batches/{id} [get]
func (s *Server) GetBatchHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, http.StatusBadRequest, "invalid batch ID")
		return
	}

	b, err := s.inventory.GetBatch(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, b)
}

// AdjustBatchHandler godoc
// @Summary Adjust batch quantity
// @Description Applies a signed delta atomically. The result may not drop below zero.
// @Tags batches
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Batch ID"
// @Param adjustment body QuantityAdjustmentRequest true "Quantity change"
// @Success 200 {object} models.InventoryBatch
// @Failure 400 {array} ValidationError
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /batches/{id}/adjust [post]
func (s *Server) AdjustBatchHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, http.StatusBadRequest, "invalid batch ID")
		return
	}

	var req QuantityAdjustmentRequest
	if err := readJSON(w, r, &req); err != nil {
		s.fail(w, http.StatusBadRequest, "invalid input")
		return
	}
	if errs := s.check(req); len(errs) > 0 {
		s.respond(w, http.StatusBadRequest, errs)
		return
	}

	b, err := s.inventory.AdjustBatch(r.Context(), repo.BatchAdjustment{
		BatchID: id,
		Delta:   req.Delta,
		Kind:    models.MovementKind(req.Kind),
		Reason:  req.Reason,
		Actor:   actorFrom(r.Context()),
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, b)
}

// MarkBatchEmptyHandler godoc
// @Summary Mark a batch empty
// @Description Sets the quantity to zero. The batch stays on record.
// @Tags batches
// @Produce json
// @Security BearerAuth
// @Param id path int true "Batch ID"
// @Success 200 {object} models.InventoryBatch
// @Failure 404 {object} ErrorResponse
// @Router /batches/{id}/empty [post]
func (s *Server) MarkBatchEmptyHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, http.StatusBadRequest, "invalid batch ID")
		return
	}

	b, err := s.inventory.MarkBatchEmpty(r.Context(), id, actorFrom(r.Context()))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, b)
}

// DeleteBatchHandler godoc
// @Summary Delete a batch
// @Tags batches
// @Security BearerAuth
// @Param id path int true "Batch ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /batches/{id} [delete]
func (s *Server) DeleteBatchHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, http.StatusBadRequest, "invalid batch ID")
		return
	}

	if err := s.inventory.DeleteBatch(r.Context(), id); err != nil {
		s.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
