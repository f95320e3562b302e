package engine

import "math"

type StockStatus string

const (
	StatusAdequate   StockStatus = "adequate"
	StatusLow        StockStatus = "low"
	StatusCritical   StockStatus = "critical"
	StatusOutOfStock StockStatus = "out_of_stock"
)

type StockoutRisk string

const (
	RiskNone   StockoutRisk = "none"
	RiskLow    StockoutRisk = "low"
	RiskMedium StockoutRisk = "medium"
	RiskHigh   StockoutRisk = "high"
)

type ReorderUrgency string

const (
	ReorderImmediate ReorderUrgency = "immediate"
	ReorderHigh      ReorderUrgency = "high"
	ReorderMedium    ReorderUrgency = "medium"
	ReorderLow       ReorderUrgency = "low"
)

// Rank orders urgencies from most to least pressing.
func (u ReorderUrgency) Rank() int {
	switch u {
	case ReorderImmediate:
		return 0
	case ReorderHigh:
		return 1
	case ReorderMedium:
		return 2
	default:
		return 3
	}
}

const daysPerYear = 365

// ReorderPoint is the stock level at which an order must be placed.
func ReorderPoint(averageDailyUsage, leadTimeDays, safetyStock float64) float64 {
	return averageDailyUsage*leadTimeDays + safetyStock
}

// SafetyStock uses the max-minus-average method. The result is not clamped
// and goes negative when average demand over the average lead time exceeds
// the worst case.
func SafetyStock(maxDailyUsage, maxLeadTime, avgDailyUsage, avgLeadTime float64) float64 {
	return maxDailyUsage*maxLeadTime - avgDailyUsage*avgLeadTime
}

// EconomicOrderQuantity returns 0 when holding cost is zero.
func EconomicOrderQuantity(annualDemand, orderCost, holdingCostPerUnit float64) float64 {
	if holdingCostPerUnit == 0 {
		return 0
	}
	return math.Sqrt((2 * annualDemand * orderCost) / holdingCostPerUnit)
}

// DaysInventoryOutstanding returns 0 when cost of goods sold is zero.
func DaysInventoryOutstanding(averageInventory, costOfGoodsSold, days float64) float64 {
	if costOfGoodsSold == 0 {
		return 0
	}
	return (averageInventory / costOfGoodsSold) * days
}

// InventoryTurnover returns 0 when the average inventory value is zero.
func InventoryTurnover(costOfGoodsSold, averageInventoryValue float64) float64 {
	if averageInventoryValue == 0 {
		return 0
	}
	return costOfGoodsSold / averageInventoryValue
}

// DaysUntilStockout returns 0 when there is no usage to deplete the stock.
func DaysUntilStockout(currentStock int, averageDailyUsage float64) float64 {
	if averageDailyUsage <= 0 {
		return 0
	}
	return float64(currentStock) / averageDailyUsage
}

// ClassifyStock compares stock on hand against the reorder point.
// Critical is at or below half the reorder point.
func ClassifyStock(currentStock, reorderPoint int) StockStatus {
	switch {
	case currentStock <= 0:
		return StatusOutOfStock
	case float64(currentStock) <= float64(reorderPoint)/2:
		return StatusCritical
	case currentStock <= reorderPoint:
		return StatusLow
	default:
		return StatusAdequate
	}
}

// ReorderInput carries everything Recommend needs about one product.
// Usage figures are units per day; lead times are days. HoldingRate is the
// yearly holding cost as a fraction of unit cost.
type ReorderInput struct {
	ProductID              int
	CurrentStock           int
	ConfiguredReorderPoint int
	MaxStock               int
	ItemsPerCase           int
	UnitCost               float64
	AvgDailyUsage          float64
	MaxDailyUsage          float64
	LeadTimeDays           float64
	MaxLeadTimeDays        float64
	OrderCost              float64
	HoldingRate            float64
}

type ReorderRecommendation struct {
	ProductID            int            `json:"product_id"`
	ProductName          string         `json:"product_name,omitempty"`
	CurrentStock         int            `json:"current_stock"`
	ReorderPoint         int            `json:"reorder_point"`
	SafetyStock          int            `json:"safety_stock"`
	OptimalOrderQuantity int            `json:"optimal_order_quantity"`
	OrderCases           int            `json:"order_cases"`
	AverageDailyUsage    float64        `json:"average_daily_usage"`
	DaysUntilStockout    float64        `json:"days_until_stockout"`
	Status               StockStatus    `json:"status"`
	StockoutRisk         StockoutRisk   `json:"stockout_risk"`
	Urgency              ReorderUrgency `json:"urgency"`
	NeedsReorder         bool           `json:"needs_reorder"`
}

// Recommend derives the reorder decision for one product. Safety stock is
// clamped at zero here. The computed reorder point replaces the configured
// one only when there is usage history to compute it from.
func Recommend(in ReorderInput) ReorderRecommendation {
	maxLead := in.MaxLeadTimeDays
	if maxLead < in.LeadTimeDays {
		maxLead = in.LeadTimeDays
	}
	maxUsage := in.MaxDailyUsage
	if maxUsage < in.AvgDailyUsage {
		maxUsage = in.AvgDailyUsage
	}
	safety := math.Max(0, SafetyStock(maxUsage, maxLead, in.AvgDailyUsage, in.LeadTimeDays))

	reorderPoint := in.ConfiguredReorderPoint
	if in.AvgDailyUsage > 0 {
		reorderPoint = int(math.Ceil(ReorderPoint(in.AvgDailyUsage, in.LeadTimeDays, safety)))
	}

	status := ClassifyStock(in.CurrentStock, reorderPoint)
	stockout := DaysUntilStockout(in.CurrentStock, in.AvgDailyUsage)

	qty := orderQuantity(in, reorderPoint)
	cases := 0
	if in.ItemsPerCase > 0 && qty > 0 {
		cases = (qty + in.ItemsPerCase - 1) / in.ItemsPerCase
	}

	return ReorderRecommendation{
		ProductID:            in.ProductID,
		CurrentStock:         in.CurrentStock,
		ReorderPoint:         reorderPoint,
		SafetyStock:          int(math.Ceil(safety)),
		OptimalOrderQuantity: qty,
		OrderCases:           cases,
		AverageDailyUsage:    round(in.AvgDailyUsage, 2),
		DaysUntilStockout:    round(stockout, 1),
		Status:               status,
		StockoutRisk:         stockoutRisk(status, stockout, in),
		Urgency:              urgencyFor(status),
		NeedsReorder:         status != StatusAdequate,
	}
}

func orderQuantity(in ReorderInput, reorderPoint int) int {
	holding := in.UnitCost * in.HoldingRate
	qty := int(math.Ceil(EconomicOrderQuantity(in.AvgDailyUsage*daysPerYear, in.OrderCost, holding)))
	if qty == 0 {
		qty = in.MaxStock - in.CurrentStock
	}
	if in.CurrentStock+qty < reorderPoint {
		qty = reorderPoint - in.CurrentStock
	}
	if in.MaxStock > 0 && in.CurrentStock+qty > in.MaxStock {
		qty = in.MaxStock - in.CurrentStock
	}
	if qty < 0 {
		return 0
	}
	return qty
}

func stockoutRisk(status StockStatus, daysLeft float64, in ReorderInput) StockoutRisk {
	if status == StatusOutOfStock {
		return RiskHigh
	}
	if in.AvgDailyUsage <= 0 {
		return RiskNone
	}
	switch {
	case daysLeft <= in.LeadTimeDays:
		return RiskHigh
	case daysLeft <= 2*in.LeadTimeDays:
		return RiskMedium
	default:
		return RiskLow
	}
}

func urgencyFor(status StockStatus) ReorderUrgency {
	switch status {
	case StatusOutOfStock:
		return ReorderImmediate
	case StatusCritical:
		return ReorderHigh
	case StatusLow:
		return ReorderMedium
	default:
		return ReorderLow
	}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
