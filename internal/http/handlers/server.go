package handlers

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rogerio-castellano/grocery-inventory/internal/service"
	"go.uber.org/zap"
)

// Server holds the dependencies shared by every handler.
type Server struct {
	inventory *service.Inventory
	planner   *service.Planner
	log       *zap.Logger
	validate  *validator.Validate
}

func NewServer(inventory *service.Inventory, planner *service.Planner, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		inventory: inventory,
		planner:   planner,
		log:       log,
		validate:  newValidator(),
	}
}

type actorKey struct{}

// WithActor stores the authenticated subject for movement attribution.
func WithActor(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, actorKey{}, subject)
}

func actorFrom(ctx context.Context) string {
	if v, ok := ctx.Value(actorKey{}).(string); ok {
		return v
	}
	return ""
}

// today resolves the reference date from ?today=YYYY-MM-DD, falling back
// to the service clock.
func (s *Server) today(raw string) (time.Time, error) {
	if raw == "" {
		return s.inventory.Today(), nil
	}
	return time.Parse(time.DateOnly, raw)
}
