package cancel_appointment

import (
	"github.com/m04kA/BarberBookingService/internal/service/appointments/models"
)

// CancelAppointmentRequest HTTP request model
type CancelAppointmentRequest struct {
	Token string `json:"token"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CancelAppointmentRequest) ToServiceRequest() *models.CancelByTokenRequest {
	return &models.CancelByTokenRequest{Token: r.Token}
}
