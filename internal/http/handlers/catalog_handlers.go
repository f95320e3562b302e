package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/grocery-inventory/internal/models"
)

// CreateCategoryHandler godoc
// @Summary Create a category
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param category body CategoryRequest true "Category"
// @Success 201 {object} models.Category
// @Failure 400 {array} ValidationError
// @Failure 409 {object} ErrorResponse
// @Router /categories [post]
func (s *Server) CreateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := readJSON(w, r, &req); err != nil {
		s.fail(w, http.StatusBadRequest, "invalid input")
		return
	}
	if errs := s.check(req); len(errs) > 0 {
		s.respond(w, http.StatusBadRequest, errs)
		return
	}

	c, err := s.inventory.CreateCategory(r.Context(), models.Category{Name: req.Name})
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respond(w, http.StatusCreated, c)
}

// GetCategoriesHandler godoc
// @Summary List categories
// @Tags catalog
// @Produce json
// @Success 200 {array} models.Category
// @Router /categories [get]
func (s *Server) GetCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	categories, err := s.inventory.Categories(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, categories)
}

// CreateSupplierHandler godoc
// @Summary Create a supplier
// @Description Lead times of zero fall back to the configured planning defaults
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param supplier body SupplierRequest true "Supplier"
// @Success 201 {object} models.Supplier
// @Failure 400 {array} ValidationError
// @Router /suppliers [post]
func (s *Server) CreateSupplierHandler(w http.ResponseWriter, r *http.Request) {
	var req SupplierRequest
	if err := readJSON(w, r, &req); err != nil {
		s.fail(w, http.StatusBadRequest, "invalid input")
		return
	}
	if errs := s.check(req); len(errs) > 0 {
		s.respond(w, http.StatusBadRequest, errs)
		return
	}

	sup, err := s.inventory.CreateSupplier(r.Context(), req.toModel())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respond(w, http.StatusCreated, sup)
}

// GetSuppliersHandler godoc
// @Summary List suppliers
// @Tags catalog
// @Produce json
// @Success 200 {array} models.Supplier
// @Router /suppliers [get]
func (s *Server) GetSuppliersHandler(w http.ResponseWriter, r *http.Request) {
	suppliers, err := s.inventory.Suppliers(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, suppliers)
}

// GetSupplierByIDHandler godoc
// @Summary Get supplier by ID
// @Tags catalog
// @Produce json
// @Param id path int true "Supplier ID"
// @Success 200 {object} models.Supplier
// @Failure 404 {object} ErrorResponse
// @Router /suppliers/{id} [get]
func (s *Server) GetSupplierByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, http.StatusBadRequest, "invalid supplier ID")
		return
	}

	sup, err := s.inventory.GetSupplier(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, sup)
}

// UpdateSupplierHandler godoc
// @Summary Update a supplier
// @Description Changing lead times affects every reorder recommendation
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Supplier ID"
// @Param supplier body SupplierRequest true "Supplier"
// @Success 200 {object} models.Supplier
// @Failure 400 {array} ValidationError
// @Failure 404 {object} ErrorResponse
// @Router /suppliers/{id} [put]
func (s *Server) UpdateSupplierHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, http.StatusBadRequest, "invalid supplier ID")
		return
	}

	var req SupplierRequest
	if err := readJSON(w, r, &req); err != nil {
		s.fail(w, http.StatusBadRequest, "invalid input")
		return
	}
	if errs := s.check(req); len(errs) > 0 {
		s.respond(w, http.StatusBadRequest, errs)
		return
	}

	sup := req.toModel()
	sup.ID = id
	updated, err := s.inventory.UpdateSupplier(r.Context(), sup)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, updated)
}
