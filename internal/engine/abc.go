package engine

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"
)

type ABCClass string

const (
	ClassA ABCClass = "A"
	ClassB ABCClass = "B"
	ClassC ABCClass = "C"
)

var (
	classAShare = decimal.NewFromInt(80)
	classBShare = decimal.NewFromInt(15)
	hundred     = decimal.NewFromInt(100)
)

// ClassifyABC grades one item by its own share of the total value:
// at least 80% is A, at least 15% is B, anything else is C. This is a
// per-item threshold, not a cumulative Pareto split. A zero total yields C.
func ClassifyABC(value, total decimal.Decimal) ABCClass {
	if !total.IsPositive() {
		return ClassC
	}
	share := value.Mul(hundred)
	switch {
	case share.GreaterThanOrEqual(classAShare.Mul(total)):
		return ClassA
	case share.GreaterThanOrEqual(classBShare.Mul(total)):
		return ClassB
	default:
		return ClassC
	}
}

type ABCItem struct {
	ProductID int
	Name      string
	Value     decimal.Decimal
}

type ABCResult struct {
	ProductID    int             `json:"product_id"`
	Name         string          `json:"name"`
	Value        decimal.Decimal `json:"value"`
	SharePercent float64         `json:"share_percent"`
	Class        ABCClass        `json:"class"`
}

// ClassifyItems grades every item against the sum of all values and
// returns them ordered by value, highest first.
func ClassifyItems(items []ABCItem) []ABCResult {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Value)
	}

	results := make([]ABCResult, 0, len(items))
	for _, it := range items {
		share := 0.0
		if total.IsPositive() {
			share = it.Value.Mul(hundred).Div(total).Round(2).InexactFloat64()
		}
		results = append(results, ABCResult{
			ProductID:    it.ProductID,
			Name:         it.Name,
			Value:        it.Value,
			SharePercent: share,
			Class:        ClassifyABC(it.Value, total),
		})
	}
	slices.SortStableFunc(results, func(a, b ABCResult) int {
		if c := b.Value.Cmp(a.Value); c != 0 {
			return c
		}
		return cmp.Compare(a.ProductID, b.ProductID)
	})
	return results
}
