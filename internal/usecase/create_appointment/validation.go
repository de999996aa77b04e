package create_appointment

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/BarberBookingService/internal/domain"
	"github.com/m04kA/BarberBookingService/internal/slots"
	"github.com/m04kA/BarberBookingService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is required", ErrInvalidInput)
	}

	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return fmt.Errorf("%w: customerName is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) > domain.MaxCustomerNameLength {
		return fmt.Errorf("%w: customerName must be at most %d characters", ErrInvalidInput, domain.MaxCustomerNameLength)
	}

	email := strings.TrimSpace(req.CustomerEmail)
	if email == "" || len(email) > domain.MaxCustomerEmailLength {
		return fmt.Errorf("%w: customerEmail is required", ErrInvalidInput)
	}
	// Принимается только голый адрес, без "Имя <addr>"
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return fmt.Errorf("%w: invalid customerEmail", ErrInvalidInput)
	}

	phone := strings.TrimSpace(req.CustomerPhone)
	if phone == "" || len(phone) > domain.MaxCustomerPhoneLength {
		return fmt.Errorf("%w: customerPhone is required", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceId must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateSlot проверяет, что время записи является свободным от расписания слотом:
// день открыт, время на сетке внутри часов работы, не в перерыве и не в прошлом.
// Занятость другими записями проверяется позже, в транзакции.
func validateSlot(dayCtx *domain.DayContext, slotTime types.TimeString, in slots.ClassifyInput, stepMinutes int) error {
	switch dayCtx.Status() {
	case domain.DayStatusBlocked:
		return fmt.Errorf("%w: %s", ErrDayBlocked, dayCtx.BlockReason)
	case domain.DayStatusClosed:
		return fmt.Errorf("%w: %s is a day off", ErrOutsideWorkingHours, dayCtx.Date)
	}

	hours := dayCtx.WorkingHours
	if slotTime.IsBefore(hours.Start) || !slotTime.IsBefore(hours.End) {
		return fmt.Errorf("%w: %s is outside %s-%s", ErrOutsideWorkingHours, slotTime, hours.Start, hours.End)
	}

	in.Candidates = slots.Generate(hours.Start, hours.End, stepMinutes)
	slot, ok := slots.Find(slots.Classify(in), slotTime)
	if !ok {
		// Внутри часов работы, но не начало слота (или слот не помещается до закрытия)
		return fmt.Errorf("%w: %s", ErrNotOnSlotGrid, slotTime)
	}

	switch slot.Status {
	case domain.SlotBreak:
		return fmt.Errorf("%w: %s", ErrInBreak, slotTime)
	case domain.SlotPast:
		return fmt.Errorf("%w: %s", ErrInPast, slotTime)
	}

	return nil
}
