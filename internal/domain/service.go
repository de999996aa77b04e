package domain

import "time"

// BarberService услуга из каталога (стрижка, бритье и т.п.)
type BarberService struct {
	ID              int64
	Name            string
	Description     string
	DurationMinutes int
	Price           float64
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
