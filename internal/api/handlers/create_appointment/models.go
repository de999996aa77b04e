package create_appointment

import (
	"time"

	createAppointment "github.com/m04kA/BarberBookingService/internal/usecase/create_appointment"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	CustomerName  string  `json:"customerName"`
	CustomerEmail string  `json:"customerEmail"`
	CustomerPhone string  `json:"customerPhone"`
	ServiceID     int64   `json:"serviceId"`
	Date          string  `json:"date"` // "2025-10-15T10:00:00+03:00"
	Notes         *string `json:"notes,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID                     int64   `json:"id"`
	CustomerName           string  `json:"customerName"`
	CustomerEmail          string  `json:"customerEmail"`
	CustomerPhone          string  `json:"customerPhone"`
	ServiceID              int64   `json:"serviceId"`
	ServiceName            string  `json:"serviceName"`
	ServiceDurationMinutes int     `json:"serviceDurationMinutes"`
	ServicePrice           float64 `json:"servicePrice"`
	Date                   string  `json:"date"`
	LocalDate              string  `json:"localDate"`
	LocalTime              string  `json:"localTime"`
	Status                 string  `json:"status"`
	Notes                  *string `json:"notes,omitempty"`
	CancellationToken      string  `json:"cancellationToken"`
	CreatedAt              string  `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case (дата в формате RFC 3339)
func (r *CreateAppointmentRequest) ToUseCaseRequest() (*createAppointment.Request, error) {
	date, err := time.Parse(time.RFC3339, r.Date)
	if err != nil {
		return nil, err
	}

	return &createAppointment.Request{
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		CustomerPhone: r.CustomerPhone,
		ServiceID:     r.ServiceID,
		Date:          date,
		Notes:         r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:                     resp.ID,
		CustomerName:           resp.CustomerName,
		CustomerEmail:          resp.CustomerEmail,
		CustomerPhone:          resp.CustomerPhone,
		ServiceID:              resp.ServiceID,
		ServiceName:            resp.ServiceName,
		ServiceDurationMinutes: resp.ServiceDurationMinutes,
		ServicePrice:           resp.ServicePrice,
		Date:                   resp.Date.UTC().Format(time.RFC3339),
		LocalDate:              resp.LocalDate.String(),
		LocalTime:              resp.LocalTime.String(),
		Status:                 string(resp.Status),
		Notes:                  resp.Notes,
		CancellationToken:      resp.CancellationToken,
		CreatedAt:              resp.CreatedAt.UTC().Format(time.RFC3339),
	}
}
