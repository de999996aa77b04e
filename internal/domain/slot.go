package domain

import "github.com/m04kA/BarberBookingService/pkg/types"

// SlotStatus represents the status of a time slot
type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotBreak     SlotStatus = "break"
	SlotPast      SlotStatus = "past"
	SlotBooked    SlotStatus = "booked"
)

// Slot represents a candidate start time and its status
type Slot struct {
	Time   types.TimeString
	Status SlotStatus
}

// IsAvailable returns true if the slot can be booked
func (s Slot) IsAvailable() bool {
	return s.Status == SlotAvailable
}

// DayStatus позволяет отличить заблокированный или выходной день от полностью занятого
type DayStatus string

const (
	DayStatusOpen    DayStatus = "open"
	DayStatusBlocked DayStatus = "blocked"
	DayStatusClosed  DayStatus = "closed"
)
