package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/grocery-inventory/internal/repo"
)

// CreateProductHandler godoc
// @Summary Create a new product
// @Description Adds a product to the catalog
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param product body ProductRequest true "Product to add"
// @Success 201 {object} ProductResponse
// @Failure 400 {array} ValidationError
// @Failure 409 {object} ErrorResponse
// @Router /products [post]
func (s *Server) CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		s.fail(w, http.StatusBadRequest, "invalid input")
		return
	}
	if errs := s.check(req); len(errs) > 0 {
		s.respond(w, http.StatusBadRequest, errs)
		return
	}

	created, err := s.inventory.CreateProduct(r.Context(), req.toModel())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respond(w, http.StatusCreated, toProductResponse(created))
}

// GetProductsHandler godoc
// @Summary List products
// @Description Filters the catalog by name, category and supplier
// @Tags products
// @Produce json
// @Param name query string false "Name contains (case-insensitive)"
// @Param category_id query int false "Category ID"
// @Param supplier_id query int false "Supplier ID"
// @Param offset query int false "Offset"
// @Param limit query int false "Limit"
// @Success 200 {object} ProductsSearchResult
// @Failure 400 {object} ErrorResponse
// @Router /products [get]
func (s *Server) GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	pf := repo.ProductFilter{Name: r.URL.Query().Get("name")}
	var err error
	for name, dst := range map[string]**int{
		"category_id": &pf.CategoryID,
		"supplier_id": &pf.SupplierID,
		"offset":      &pf.Offset,
		"limit":       &pf.Limit,
	} {
		if *dst, err = queryInt(r, name); err != nil {
			s.fail(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	products, total, err := s.inventory.ListProducts(r.Context(), pf)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	data := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		data = append(data, toProductResponse(p))
	}
	s.respond(w, http.StatusOK, ProductsSearchResult{Data: data, Meta: Meta{TotalCount: total}})
}

// GetProductByIDHandler godoc
// @Summary Get product by ID
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} ProductResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /products/{id} [get]
func (s *Server) GetProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	p, err := s.inventory.GetProduct(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, toProductResponse(p))
}

// UpdateProductHandler godoc
// @Summary Update a product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param product body ProductRequest true "Updated product"
// @Success 200 {object} ProductResponse
// @Failure 400 {array} ValidationError
// @Failure 404 {object} ErrorResponse
// @Router /products/{id} [put]
func (s *Server) UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		s.fail(w, http.StatusBadRequest, "invalid input")
		return
	}
	if errs := s.check(req); len(errs) > 0 {
		s.respond(w, http.StatusBadRequest, errs)
		return
	}

	p := req.toModel()
	p.ID = id
	updated, err := s.inventory.UpdateProduct(r.Context(), p)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, toProductResponse(updated))
}

// DeleteProductHandler godoc
// @Summary Delete a product
// @Description Deletes the product together with its batches
// @Tags products
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /products/{id} [delete]
func (s *Server) DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	if err := s.inventory.DeleteProduct(r.Context(), id); err != nil {
		s.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
