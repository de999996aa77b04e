package get_available_slots

import (
	"github.com/m04kA/BarberBookingService/internal/domain"
	"github.com/m04kA/BarberBookingService/pkg/types"
)

// Request модель запроса на получение слотов
type Request struct {
	Date string // Локальная календарная дата "2025-10-15"
}

// Response модель ответа со списком слотов
type Response struct {
	Date      types.LocalDate  // Дата, на которую запрашивались слоты
	DayStatus domain.DayStatus // open, blocked или closed
	Slots     []domain.Slot    // Пустой список для заблокированного или выходного дня
}
