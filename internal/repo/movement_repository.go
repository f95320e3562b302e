package repo

import (
	"context"
	"time"

	"github.com/rogerio-castellano/grocery-inventory/internal/models"
)

type MovementRepository interface {
	Log(ctx context.Context, m models.Movement) (models.Movement, error)
	GetByProductID(ctx context.Context, productID int, mf MovementFilter) ([]models.Movement, int, error)
	// ConsumptionHistory returns units consumed per day in [since, until),
	// oldest first. Days without consumption are omitted.
	ConsumptionHistory(ctx context.Context, productID int, since, until time.Time) ([]models.ConsumptionRecord, error)
	// ConsumptionByProduct is ConsumptionHistory for every product at once.
	ConsumptionByProduct(ctx context.Context, since, until time.Time) (map[int][]models.ConsumptionRecord, error)
}
