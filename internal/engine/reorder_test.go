package engine

import (
	"math"
	"testing"
)

func TestFormulas(t *testing.T) {
	tests := []struct {
		name     string
		got      float64
		expected float64
	}{
		{"reorder point", ReorderPoint(5, 7, 10), 45},
		{"safety stock", SafetyStock(8, 10, 5, 7), 45},
		{"negative safety stock is kept", SafetyStock(5, 7, 8, 10), -45},
		{"eoq", EconomicOrderQuantity(1000, 50, 10), 100},
		{"eoq with zero holding cost", EconomicOrderQuantity(1000, 50, 0), 0},
		{"dio", DaysInventoryOutstanding(500, 2000, 365), 91.25},
		{"dio with zero cogs", DaysInventoryOutstanding(500, 0, 365), 0},
		{"turnover", InventoryTurnover(2000, 500), 4},
		{"turnover with zero inventory", InventoryTurnover(2000, 0), 0},
		{"stockout", DaysUntilStockout(30, 4), 7.5},
		{"stockout without usage", DaysUntilStockout(30, 0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if math.Abs(tt.got-tt.expected) > 1e-9 {
				t.Errorf("expected %v, got %v", tt.expected, tt.got)
			}
		})
	}
}

func TestClassifyStock(t *testing.T) {
	tests := []struct {
		stock, rp int
		expected  StockStatus
	}{
		{0, 20, StatusOutOfStock},
		{10, 20, StatusCritical},
		{11, 20, StatusLow},
		{20, 20, StatusLow},
		{21, 20, StatusAdequate},
		{5, 0, StatusAdequate},
	}

	for _, tt := range tests {
		if got := ClassifyStock(tt.stock, tt.rp); got != tt.expected {
			t.Errorf("stock %d rp %d: expected %s, got %s", tt.stock, tt.rp, tt.expected, got)
		}
	}
}

func TestRecommend(t *testing.T) {
	base := ReorderInput{
		ProductID:       1,
		MaxStock:        500,
		ItemsPerCase:    12,
		UnitCost:        2,
		AvgDailyUsage:   10,
		MaxDailyUsage:   15,
		LeadTimeDays:    5,
		MaxLeadTimeDays: 7,
		OrderCost:       50,
		HoldingRate:     0.25,
	}

	t.Run("low stock orders eoq", func(t *testing.T) {
		in := base
		in.CurrentStock = 100
		r := Recommend(in)

		// safety = 15*7 - 10*5 = 55, reorder point = 10*5 + 55 = 105
		if r.SafetyStock != 55 || r.ReorderPoint != 105 {
			t.Fatalf("expected ss 55 rp 105, got %d %d", r.SafetyStock, r.ReorderPoint)
		}
		if r.Status != StatusLow || r.Urgency != ReorderMedium || !r.NeedsReorder {
			t.Errorf("unexpected status %s urgency %s", r.Status, r.Urgency)
		}
		// eoq = sqrt(2*3650*50/0.5) = 854.4 -> capped to max stock
		if r.OptimalOrderQuantity != 400 {
			t.Errorf("expected 400, got %d", r.OptimalOrderQuantity)
		}
		if r.OrderCases != 34 {
			t.Errorf("expected 34 cases, got %d", r.OrderCases)
		}
		if r.DaysUntilStockout != 10 || r.StockoutRisk != RiskMedium {
			t.Errorf("expected 10 days medium risk, got %v %s", r.DaysUntilStockout, r.StockoutRisk)
		}
	})

	t.Run("out of stock", func(t *testing.T) {
		in := base
		r := Recommend(in)
		if r.Status != StatusOutOfStock || r.Urgency != ReorderImmediate || r.StockoutRisk != RiskHigh {
			t.Errorf("unexpected %s %s %s", r.Status, r.Urgency, r.StockoutRisk)
		}
	})

	t.Run("no usage keeps configured reorder point", func(t *testing.T) {
		in := ReorderInput{ProductID: 2, CurrentStock: 8, ConfiguredReorderPoint: 10, MaxStock: 50, LeadTimeDays: 5}
		r := Recommend(in)
		if r.ReorderPoint != 10 || r.Status != StatusLow {
			t.Fatalf("expected rp 10 low, got %d %s", r.ReorderPoint, r.Status)
		}
		if r.StockoutRisk != RiskNone || r.DaysUntilStockout != 0 {
			t.Errorf("expected no risk, got %s %v", r.StockoutRisk, r.DaysUntilStockout)
		}
		if r.OptimalOrderQuantity != 42 {
			t.Errorf("expected fill to max stock 42, got %d", r.OptimalOrderQuantity)
		}
	})

	t.Run("steady usage needs no safety stock", func(t *testing.T) {
		in := base
		in.CurrentStock = 1000
		in.MaxStock = 0
		in.MaxDailyUsage = 10
		in.MaxLeadTimeDays = 5
		r := Recommend(in)
		if r.SafetyStock != 0 || r.ReorderPoint != 50 {
			t.Errorf("expected ss 0 rp 50, got %d %d", r.SafetyStock, r.ReorderPoint)
		}
		if r.Status != StatusAdequate || r.NeedsReorder {
			t.Errorf("expected adequate, got %s", r.Status)
		}
	})
}
