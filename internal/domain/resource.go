package domain

import "time"

// Resource бронируемая единица (комната, кровать, рабочее место)
type Resource struct {
	ID                 int64
	LocationID         int64
	Name               string
	DefaultRate        float64
	Description        *string
	Summary            string
	CancellationPolicy string

	CreatedAt time.Time
	UpdatedAt time.Time
}
