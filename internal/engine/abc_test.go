package engine

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestClassifyABC_Thresholds(t *testing.T) {
	total := decimal.NewFromInt(1000)
	tests := []struct {
		value    string
		expected ABCClass
	}{
		{"800", ClassA},
		{"950", ClassA},
		{"799.99", ClassB},
		{"150", ClassB},
		{"149", ClassC},
		{"0", ClassC},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got := ClassifyABC(decimal.RequireFromString(tt.value), total)
			if got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestClassifyABC_ZeroTotal(t *testing.T) {
	if got := ClassifyABC(decimal.Zero, decimal.Zero); got != ClassC {
		t.Errorf("expected C, got %s", got)
	}
}

func TestClassifyItems_PerItemShare(t *testing.T) {
	items := []ABCItem{
		{ProductID: 1, Name: "Rice", Value: decimal.NewFromInt(30)},
		{ProductID: 2, Name: "Milk", Value: decimal.NewFromInt(50)},
		{ProductID: 3, Name: "Salt", Value: decimal.NewFromInt(20)},
	}

	got := ClassifyItems(items)

	// no single item reaches 80%, so nothing is A
	want := []struct {
		id    int
		class ABCClass
		share float64
	}{
		{2, ClassB, 50},
		{1, ClassB, 30},
		{3, ClassB, 20},
	}
	for i, w := range want {
		if got[i].ProductID != w.id || got[i].Class != w.class || got[i].SharePercent != w.share {
			t.Errorf("position %d: expected %+v, got %+v", i, w, got[i])
		}
	}
}
