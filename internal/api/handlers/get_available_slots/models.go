package get_available_slots

import (
	getAvailableSlots "github.com/m04kA/BarberBookingService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date      string `json:"date"`
	DayStatus string `json:"dayStatus"`
	Slots     []Slot `json:"slots"`
}

// Slot время начала и статус слота
type Slot struct {
	Time   string `json:"time"`
	Status string `json:"status"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]Slot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = Slot{
			Time:   slot.Time.String(),
			Status: string(slot.Status),
		}
	}

	return &AvailableSlotsResponse{
		Date:      resp.Date.String(),
		DayStatus: string(resp.DayStatus),
		Slots:     slots,
	}
}
