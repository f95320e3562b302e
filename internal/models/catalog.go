package models

import "time"

type Category struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Supplier lead times feed the reorder calculations. Zero means "use the configured default".
type Supplier struct {
	ID              int       `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	ContactEmail    *string   `db:"contact_email" json:"contact_email,omitempty"`
	LeadTimeDays    int       `db:"lead_time_days" json:"lead_time_days"`
	MaxLeadTimeDays int       `db:"max_lead_time_days" json:"max_lead_time_days"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
