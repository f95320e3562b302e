package handlers

import (
	"time"

	"github.com/rogerio-castellano/grocery-inventory/internal/engine"
	"github.com/rogerio-castellano/grocery-inventory/internal/models"
	"github.com/shopspring/decimal"
)

type ProductRequest struct {
	Name         string          `json:"name" validate:"required,max=200"`
	ItemsPerCase int             `json:"items_per_case" validate:"gte=1"`
	CostPerCase  decimal.Decimal `json:"cost_per_case" swaggertype:"string" validate:"gte=0"`
	ReorderPoint int             `json:"reorder_point" validate:"gte=0"`
	MaxStock     int             `json:"max_stock" validate:"gte=0"`
	CategoryID   *int            `json:"category_id,omitempty" validate:"omitempty,gte=1"`
	SupplierID   *int            `json:"supplier_id,omitempty" validate:"omitempty,gte=1"`
}

func (req ProductRequest) toModel() models.Product {
	return models.Product{
		Name:         req.Name,
		ItemsPerCase: req.ItemsPerCase,
		CostPerCase:  req.CostPerCase,
		ReorderPoint: req.ReorderPoint,
		MaxStock:     req.MaxStock,
		CategoryID:   req.CategoryID,
		SupplierID:   req.SupplierID,
	}
}

type ProductResponse struct {
	models.Product
	UnitCost decimal.Decimal `json:"unit_cost" swaggertype:"string"`
}

func toProductResponse(p models.Product) ProductResponse {
	return ProductResponse{Product: p, UnitCost: p.UnitCost().Round(4)}
}

type Meta struct {
	TotalCount int `json:"total_count"`
}

type ProductsSearchResult struct {
	Data []ProductResponse `json:"data"`
	Meta Meta              `json:"meta,omitempty"`
}

type CategoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type SupplierRequest struct {
	Name            string  `json:"name" validate:"required,max=200"`
	ContactEmail    *string `json:"contact_email,omitempty" validate:"omitempty,email"`
	LeadTimeDays    int     `json:"lead_time_days" validate:"gte=0"`
	MaxLeadTimeDays int     `json:"max_lead_time_days" validate:"gte=0"`
}

func (req SupplierRequest) toModel() models.Supplier {
	return models.Supplier{
		Name:            req.Name,
		ContactEmail:    req.ContactEmail,
		LeadTimeDays:    req.LeadTimeDays,
		MaxLeadTimeDays: req.MaxLeadTimeDays,
	}
}

type BatchRequest struct {
	Quantity       int     `json:"quantity" validate:"gte=0"`
	CaseQuantity   int     `json:"case_quantity" validate:"gte=0"`
	ExpirationDate *string `json:"expiration_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Location       *string `json:"location,omitempty" validate:"omitempty,max=100"`
	ReceivedDate   *string `json:"received_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notes          *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// QuantityAdjustmentRequest moves stock by Delta. Kind defaults to consume
// for negative deltas and adjust for positive ones.
type QuantityAdjustmentRequest struct {
	Delta  int    `json:"delta" validate:"ne=0"`
	Kind   string `json:"kind,omitempty" validate:"omitempty,oneof=consume waste adjust"`
	Reason string `json:"reason,omitempty" validate:"max=200"`
}

type BatchView struct {
	models.InventoryBatch
	Urgency         engine.Urgency `json:"urgency"`
	DaysUntilExpiry *int           `json:"days_until_expiry,omitempty"`
}

type SnapshotResponse struct {
	ProductID     int         `json:"product_id"`
	Today         string      `json:"today"`
	TotalQuantity int         `json:"total_quantity"`
	Batches       []BatchView `json:"batches"`
}

type SuggestionResponse struct {
	ProductID  int                `json:"product_id"`
	Today      string             `json:"today"`
	Suggestion *engine.Suggestion `json:"suggestion"`
	Message    string             `json:"message,omitempty"`
}

type MovementsSearchResult struct {
	Data []models.Movement `json:"data"`
	Meta Meta              `json:"meta,omitempty"`
}

type ConsumptionResponse struct {
	ProductID int                        `json:"product_id"`
	Since     string                     `json:"since"`
	Until     string                     `json:"until"`
	Total     int                        `json:"total"`
	Data      []models.ConsumptionRecord `json:"data"`
}

type RecommendationsResult struct {
	Data []engine.ReorderRecommendation `json:"data"`
	Meta Meta                           `json:"meta,omitempty"`
}

func batchViews(batches []models.InventoryBatch, today time.Time) []BatchView {
	out := make([]BatchView, 0, len(batches))
	for _, b := range batches {
		u, days := engine.ClassifyUrgency(b.ExpirationDate, today)
		out = append(out, BatchView{InventoryBatch: b, Urgency: u, DaysUntilExpiry: days})
	}
	return out
}
