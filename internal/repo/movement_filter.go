package repo

import "time"

type MovementFilter struct {
	Since  *time.Time
	Until  *time.Time
	Kind   string
	Offset *int
	Limit  *int
}
