package engine

import (
	"fmt"
	"time"

	"github.com/rogerio-castellano/grocery-inventory/internal/models"
)

type Urgency string

const (
	UrgencyExpired Urgency = "expired"
	UrgencyUrgent  Urgency = "urgent"
	UrgencySoon    Urgency = "soon"
	UrgencyNormal  Urgency = "normal"
)

const (
	urgentWithinDays = 7
	soonWithinDays   = 30
)

// Suggestion is the batch that should be drawn down next.
type Suggestion struct {
	BatchID         int                   `json:"batch_id"`
	Batch           models.InventoryBatch `json:"batch"`
	Urgency         Urgency               `json:"urgency"`
	DaysUntilExpiry *int                  `json:"days_until_expiry,omitempty"`
	Reason          string                `json:"reason"`
}

// ClassifyUrgency buckets a batch by whole calendar days between today and
// its expiration date. A nil date is always normal and yields nil days.
func ClassifyUrgency(expiresOn *time.Time, today time.Time) (Urgency, *int) {
	if expiresOn == nil {
		return UrgencyNormal, nil
	}
	days := DaysBetween(today, *expiresOn)
	switch {
	case days < 0:
		return UrgencyExpired, &days
	case days <= urgentWithinDays:
		return UrgencyUrgent, &days
	case days <= soonWithinDays:
		return UrgencySoon, &days
	default:
		return UrgencyNormal, &days
	}
}

// SuggestBatch picks the first non-empty batch in FEFO order. The second
// return value is false when no batch has stock left.
func SuggestBatch(batches []models.InventoryBatch, today time.Time) (Suggestion, bool) {
	usable := make([]models.InventoryBatch, 0, len(batches))
	for _, b := range batches {
		if b.Quantity > 0 {
			usable = append(usable, b)
		}
	}
	if len(usable) == 0 {
		return Suggestion{}, false
	}

	chosen := SortBatches(usable)[0]
	urgency, days := ClassifyUrgency(chosen.ExpirationDate, today)
	return Suggestion{
		BatchID:         chosen.ID,
		Batch:           chosen,
		Urgency:         urgency,
		DaysUntilExpiry: days,
		Reason:          reasonFor(urgency, days),
	}, true
}

func reasonFor(u Urgency, days *int) string {
	if days == nil {
		return "No expiration date: oldest stock first"
	}
	d := *days
	switch u {
	case UrgencyExpired:
		return fmt.Sprintf("Expired %s ago: remove or use immediately", plural(-d, "day"))
	case UrgencyUrgent:
		if d == 0 {
			return "Expires today: use first"
		}
		return fmt.Sprintf("Expires in %s: use first", plural(d, "day"))
	case UrgencySoon:
		return fmt.Sprintf("Expires in %s: use soon", plural(d, "day"))
	default:
		return fmt.Sprintf("Expires in %s: earliest expiry on hand", plural(d, "day"))
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
