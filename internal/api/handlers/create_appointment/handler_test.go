package create_appointment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/BarberBookingService/internal/api/handlers"
	"github.com/m04kA/BarberBookingService/internal/domain"
	createAppointment "github.com/m04kA/BarberBookingService/internal/usecase/create_appointment"
	"github.com/m04kA/BarberBookingService/pkg/types"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *createAppointment.Request) (*createAppointment.Response, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*createAppointment.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

const validBody = `{
	"customerName": "Иван",
	"customerEmail": "ivan@example.com",
	"customerPhone": "+79000000000",
	"serviceId": 1,
	"date": "2025-03-10T14:00:00+03:00"
}`

func doRequest(h *Handler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body)))
	return rec
}

func TestHandle_Created(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *createAppointment.Request) bool {
		return req.ServiceID == 1 && req.Date.Equal(time.Date(2025, time.March, 10, 11, 0, 0, 0, time.UTC))
	})).Return(&createAppointment.Response{
		ID:                7,
		ServiceID:         1,
		Date:              time.Date(2025, time.March, 10, 11, 0, 0, 0, time.UTC),
		LocalDate:         types.NewLocalDate(2025, time.March, 10),
		LocalTime:         "14:00",
		Status:            domain.StatusPending,
		CancellationToken: "token",
	}, nil)

	rec := doRequest(NewHandler(uc, nopLogger{}), validBody)

	require.Equal(t, http.StatusCreated, rec.Code)
	var body AppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(7), body.ID)
	assert.Equal(t, "2025-03-10T11:00:00Z", body.Date)
	assert.Equal(t, "14:00", body.LocalTime)
	assert.Equal(t, "pending", body.Status)
	assert.Equal(t, "token", body.CancellationToken)
	uc.AssertExpectations(t)
}

func TestHandle_BadInput(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{name: "broken json", body: `{`, wantCode: handlers.CodeBadRequest},
		{name: "date without zone", body: strings.Replace(validBody, "+03:00", "", 1), wantCode: handlers.CodeInvalidDate},
		{name: "date only", body: strings.Replace(validBody, "2025-03-10T14:00:00+03:00", "2025-03-10", 1), wantCode: handlers.CodeInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			rec := doRequest(NewHandler(uc, nopLogger{}), tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var body handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Error)
			uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
		})
	}
}

func TestHandle_UseCaseErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "conflict", err: createAppointment.ErrSlotConflict, wantStatus: http.StatusConflict, wantCode: handlers.CodeSlotConflict},
		{name: "wrapped conflict", err: fmt.Errorf("%w: 23505", createAppointment.ErrSlotConflict), wantStatus: http.StatusConflict, wantCode: handlers.CodeSlotConflict},
		{name: "service", err: createAppointment.ErrServiceNotFound, wantStatus: http.StatusNotFound, wantCode: handlers.CodeNotFound},
		{name: "input", err: createAppointment.ErrInvalidInput, wantStatus: http.StatusBadRequest, wantCode: handlers.CodeBadRequest},
		{name: "blocked", err: createAppointment.ErrDayBlocked, wantStatus: http.StatusBadRequest, wantCode: handlers.CodeBadRequest},
		{name: "break", err: createAppointment.ErrInBreak, wantStatus: http.StatusBadRequest, wantCode: handlers.CodeBadRequest},
		{name: "past", err: createAppointment.ErrInPast, wantStatus: http.StatusBadRequest, wantCode: handlers.CodeBadRequest},
		{name: "grid", err: createAppointment.ErrNotOnSlotGrid, wantStatus: http.StatusBadRequest, wantCode: handlers.CodeBadRequest},
		{name: "hours", err: createAppointment.ErrOutsideWorkingHours, wantStatus: http.StatusBadRequest, wantCode: handlers.CodeBadRequest},
		{name: "persistence", err: createAppointment.ErrPersistenceUnavailable, wantStatus: http.StatusServiceUnavailable, wantCode: handlers.CodePersistenceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := doRequest(NewHandler(uc, nopLogger{}), validBody)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Error)
		})
	}
}
