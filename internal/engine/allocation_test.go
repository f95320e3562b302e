package engine

import (
	"testing"
	"time"

	"github.com/rogerio-castellano/grocery-inventory/internal/models"
)

var today = time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

func daysFromToday(n int) *time.Time {
	d := today.AddDate(0, 0, n)
	return &d
}

func TestClassifyUrgency_Boundaries(t *testing.T) {
	tests := []struct {
		name     string
		expires  *time.Time
		expected Urgency
	}{
		{"expired yesterday", daysFromToday(-1), UrgencyExpired},
		{"expires today", daysFromToday(0), UrgencyUrgent},
		{"expires in 7 days", daysFromToday(7), UrgencyUrgent},
		{"expires in 8 days", daysFromToday(8), UrgencySoon},
		{"expires in 30 days", daysFromToday(30), UrgencySoon},
		{"expires in 31 days", daysFromToday(31), UrgencyNormal},
		{"no expiration", nil, UrgencyNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := ClassifyUrgency(tt.expires, today)
			if got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestClassifyUrgency_IgnoresTimeOfDay(t *testing.T) {
	lateToday := today.Add(23 * time.Hour)
	earlyTomorrow := today.AddDate(0, 0, 1).Add(time.Minute)

	got, days := ClassifyUrgency(&earlyTomorrow, lateToday)
	if got != UrgencyUrgent || days == nil || *days != 1 {
		t.Fatalf("expected urgent with 1 day, got %s %v", got, days)
	}
}

func TestSuggestBatch_EarliestExpiryWins(t *testing.T) {
	batches := []models.InventoryBatch{
		{ID: 1, Quantity: 4, ExpirationDate: daysFromToday(20), ReceivedDate: today.AddDate(0, 0, -10)},
		{ID: 2, Quantity: 0, ExpirationDate: daysFromToday(2), ReceivedDate: today.AddDate(0, 0, -9)},
		{ID: 3, Quantity: 6, ExpirationDate: daysFromToday(5), ReceivedDate: today.AddDate(0, 0, -1)},
		{ID: 4, Quantity: 9, ReceivedDate: today.AddDate(0, 0, -30)},
	}

	s, ok := SuggestBatch(batches, today)
	if !ok {
		t.Fatal("expected a suggestion")
	}
	if s.BatchID != 3 {
		t.Errorf("expected batch 3, got %d", s.BatchID)
	}
	if s.Urgency != UrgencyUrgent {
		t.Errorf("expected urgent, got %s", s.Urgency)
	}
	if s.Reason != "Expires in 5 days: use first" {
		t.Errorf("unexpected reason %q", s.Reason)
	}
}

func TestSuggestBatch_NoUsableBatch(t *testing.T) {
	tests := []struct {
		name    string
		batches []models.InventoryBatch
	}{
		{"no batches", nil},
		{"all empty", []models.InventoryBatch{
			{ID: 1, Quantity: 0, ExpirationDate: daysFromToday(3)},
			{ID: 2, Quantity: -2},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if s, ok := SuggestBatch(tt.batches, today); ok {
				t.Errorf("expected no suggestion, got batch %d", s.BatchID)
			}
		})
	}
}

func TestSuggestBatch_ExpiredBeforeFarFuture(t *testing.T) {
	batches := []models.InventoryBatch{
		{ID: 10, Quantity: 10, ExpirationDate: daysFromToday(-1)},
		{ID: 11, Quantity: 5, ExpirationDate: daysFromToday(90)},
	}

	s, ok := SuggestBatch(batches, today)
	if !ok {
		t.Fatal("expected a suggestion")
	}
	if s.BatchID != 10 || s.Urgency != UrgencyExpired {
		t.Errorf("expected batch 10 expired, got %d %s", s.BatchID, s.Urgency)
	}
	if s.DaysUntilExpiry == nil || *s.DaysUntilExpiry != -1 {
		t.Errorf("expected -1 days, got %v", s.DaysUntilExpiry)
	}
}

func TestSuggestBatch_UndatedFallsBackToFIFO(t *testing.T) {
	batches := []models.InventoryBatch{
		{ID: 1, Quantity: 3, ReceivedDate: today.AddDate(0, 0, -2)},
		{ID: 2, Quantity: 3, ReceivedDate: today.AddDate(0, 0, -8)},
	}

	s, ok := SuggestBatch(batches, today)
	if !ok || s.BatchID != 2 {
		t.Fatalf("expected oldest batch 2, got %d (ok=%v)", s.BatchID, ok)
	}
	if s.Urgency != UrgencyNormal || s.DaysUntilExpiry != nil {
		t.Errorf("expected normal without days, got %s %v", s.Urgency, s.DaysUntilExpiry)
	}
}
