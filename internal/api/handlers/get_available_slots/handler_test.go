package get_available_slots

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/BarberBookingService/internal/api/handlers"
	"github.com/m04kA/BarberBookingService/internal/domain"
	getAvailableSlots "github.com/m04kA/BarberBookingService/internal/usecase/get_available_slots"
	"github.com/m04kA/BarberBookingService/pkg/types"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*getAvailableSlots.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestHandle_OK(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, &getAvailableSlots.Request{Date: "2025-03-10"}).Return(&getAvailableSlots.Response{
		Date:      types.NewLocalDate(2025, time.March, 10),
		DayStatus: domain.DayStatusOpen,
		Slots: []domain.Slot{
			{Time: "09:00", Status: domain.SlotPast},
			{Time: "09:30", Status: domain.SlotAvailable},
		},
	}, nil)

	rec := httptest.NewRecorder()
	NewHandler(uc, nopLogger{}).Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/availability?date=2025-03-10", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body AvailableSlotsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2025-03-10", body.Date)
	assert.Equal(t, "open", body.DayStatus)
	assert.Equal(t, []Slot{{Time: "09:00", Status: "past"}, {Time: "09:30", Status: "available"}}, body.Slots)
	uc.AssertExpectations(t)
}

func TestHandle_BlockedDayReturnsEmptyArray(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.Anything).Return(&getAvailableSlots.Response{
		Date:      types.NewLocalDate(2025, time.March, 10),
		DayStatus: domain.DayStatusBlocked,
		Slots:     []domain.Slot{},
	}, nil)

	rec := httptest.NewRecorder()
	NewHandler(uc, nopLogger{}).Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/availability?date=2025-03-10", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"slots":[]`)
	assert.Contains(t, rec.Body.String(), `"dayStatus":"blocked"`)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		ucErr      error
		wantStatus int
		wantCode   string
	}{
		{name: "missing date", url: "/api/v1/availability", wantStatus: http.StatusBadRequest, wantCode: handlers.CodeInvalidDate},
		{
			name:       "invalid date",
			url:        "/api/v1/availability?date=2025-13-01",
			ucErr:      fmt.Errorf("%w: bad month", getAvailableSlots.ErrInvalidDate),
			wantStatus: http.StatusBadRequest,
			wantCode:   handlers.CodeInvalidDate,
		},
		{
			name:       "persistence",
			url:        "/api/v1/availability?date=2025-03-10",
			ucErr:      fmt.Errorf("%w: timeout", getAvailableSlots.ErrPersistenceUnavailable),
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   handlers.CodePersistenceUnavailable,
		},
		{
			name:       "unexpected",
			url:        "/api/v1/availability?date=2025-03-10",
			ucErr:      errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   handlers.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			if tt.ucErr != nil {
				uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.ucErr)
			}

			rec := httptest.NewRecorder()
			NewHandler(uc, nopLogger{}).Handle(rec, httptest.NewRequest(http.MethodGet, tt.url, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Error)
			uc.AssertExpectations(t)
		})
	}
}
