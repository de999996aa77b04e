package models

import (
	"fmt"
	"time"

	"github.com/m04kA/BarberBookingService/internal/domain"
	"github.com/m04kA/BarberBookingService/pkg/types"
)

// Request модели

// WorkingDay часы работы одного дня недели
type WorkingDay struct {
	DayOfWeek int     `json:"dayOfWeek"` // 0 = воскресенье
	IsWorking bool    `json:"isWorking"`
	StartTime *string `json:"startTime,omitempty"` // "09:00"
	EndTime   *string `json:"endTime,omitempty"`   // "17:00"
}

// ReplaceWorkingHoursRequest полная замена расписания на неделю
type ReplaceWorkingHoursRequest struct {
	Days []WorkingDay `json:"days"`
}

// BreakSlot ежедневный перерыв
type BreakSlot struct {
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Description string `json:"description,omitempty"`
}

// ReplaceBreaksRequest полная замена списка перерывов
type ReplaceBreaksRequest struct {
	Breaks []BreakSlot `json:"breaks"`
}

// CreateBlockedDateRequest запрос на блокировку дня или его части
type CreateBlockedDateRequest struct {
	Date      string  `json:"date"` // "2025-12-31"
	AllDay    bool    `json:"allDay"`
	StartTime *string `json:"startTime,omitempty"` // только при allDay = false
	EndTime   *string `json:"endTime,omitempty"`
	Reason    string  `json:"reason"`
}

// ListBlockedDatesRequest фильтр по диапазону дат (границы включительно)
type ListBlockedDatesRequest struct {
	From *types.LocalDate
	To   *types.LocalDate
}

// Response модели

// WorkingHoursResponse расписание на неделю
type WorkingHoursResponse struct {
	Days []WorkingDay `json:"days"`
}

// BreaksResponse список перерывов
type BreaksResponse struct {
	Breaks []BreakSlot `json:"breaks"`
}

// BlockedDateResponse блокировка
type BlockedDateResponse struct {
	ID        int64     `json:"id"`
	Date      string    `json:"date"`
	AllDay    bool      `json:"allDay"`
	StartTime *string   `json:"startTime,omitempty"`
	EndTime   *string   `json:"endTime,omitempty"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"createdAt"`
}

// BlockedDateListResponse список блокировок
type BlockedDateListResponse struct {
	BlockedDates []BlockedDateResponse `json:"blockedDates"`
}

// Методы конвертации

// ToDomainWorkingDays проверяет формат и конвертирует расписание в domain модели
func (r *ReplaceWorkingHoursRequest) ToDomainWorkingDays() ([]domain.WorkingDay, error) {
	if len(r.Days) != domain.DaysInWeek {
		return nil, fmt.Errorf("expected %d days, got %d", domain.DaysInWeek, len(r.Days))
	}

	seen := make(map[int]bool, domain.DaysInWeek)
	days := make([]domain.WorkingDay, 0, len(r.Days))

	for _, d := range r.Days {
		if seen[d.DayOfWeek] {
			return nil, fmt.Errorf("duplicate dayOfWeek %d", d.DayOfWeek)
		}
		seen[d.DayOfWeek] = true

		wd := domain.WorkingDay{DayOfWeek: time.Weekday(d.DayOfWeek), IsWorking: d.IsWorking}
		if d.IsWorking {
			if d.StartTime == nil || d.EndTime == nil {
				return nil, fmt.Errorf("startTime and endTime are required for working day %d", d.DayOfWeek)
			}
			wd.StartTime = types.TimeString(*d.StartTime)
			wd.EndTime = types.TimeString(*d.EndTime)
		}

		if err := wd.Validate(); err != nil {
			return nil, err
		}
		days = append(days, wd)
	}

	return days, nil
}

// ToDomainBreaks проверяет и конвертирует перерывы
func (r *ReplaceBreaksRequest) ToDomainBreaks() ([]domain.BreakSlot, error) {
	breaks := make([]domain.BreakSlot, 0, len(r.Breaks))
	for i, b := range r.Breaks {
		slot := domain.BreakSlot{
			StartTime:   types.TimeString(b.StartTime),
			EndTime:     types.TimeString(b.EndTime),
			Description: b.Description,
		}
		if err := slot.Validate(); err != nil {
			return nil, fmt.Errorf("break #%d: %w", i, err)
		}
		breaks = append(breaks, slot)
	}
	return breaks, nil
}

// ToDomainBlockedDate проверяет и конвертирует блокировку
func (r *CreateBlockedDateRequest) ToDomainBlockedDate() (*domain.BlockedDate, error) {
	date, err := types.ParseLocalDate(r.Date)
	if err != nil {
		return nil, err
	}

	b := &domain.BlockedDate{Date: date, AllDay: r.AllDay, Reason: r.Reason}
	if !r.AllDay {
		if r.StartTime != nil {
			start := types.TimeString(*r.StartTime)
			b.StartTime = &start
		}
		if r.EndTime != nil {
			end := types.TimeString(*r.EndTime)
			b.EndTime = &end
		}
	}

	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// FromDomainWorkingDays конвертирует расписание в DTO
func FromDomainWorkingDays(days []*domain.WorkingDay) *WorkingHoursResponse {
	resp := &WorkingHoursResponse{Days: make([]WorkingDay, 0, len(days))}
	for _, d := range days {
		dto := WorkingDay{DayOfWeek: int(d.DayOfWeek), IsWorking: d.IsWorking}
		if d.IsWorking {
			start, end := d.StartTime.String(), d.EndTime.String()
			dto.StartTime, dto.EndTime = &start, &end
		}
		resp.Days = append(resp.Days, dto)
	}
	return resp
}

// FromDomainBreaks конвертирует перерывы в DTO
func FromDomainBreaks(breaks []domain.BreakSlot) *BreaksResponse {
	resp := &BreaksResponse{Breaks: make([]BreakSlot, 0, len(breaks))}
	for _, b := range breaks {
		resp.Breaks = append(resp.Breaks, BreakSlot{
			StartTime:   b.StartTime.String(),
			EndTime:     b.EndTime.String(),
			Description: b.Description,
		})
	}
	return resp
}

// FromDomainBlockedDate конвертирует блокировку в DTO
func FromDomainBlockedDate(b *domain.BlockedDate) *BlockedDateResponse {
	if b == nil {
		return nil
	}

	resp := &BlockedDateResponse{
		ID:        b.ID,
		Date:      b.Date.String(),
		AllDay:    b.AllDay,
		Reason:    b.Reason,
		CreatedAt: b.CreatedAt,
	}
	if b.StartTime != nil && !b.StartTime.IsZero() {
		s := b.StartTime.String()
		resp.StartTime = &s
	}
	if b.EndTime != nil && !b.EndTime.IsZero() {
		e := b.EndTime.String()
		resp.EndTime = &e
	}
	return resp
}

// FromDomainBlockedDateList конвертирует список блокировок
func FromDomainBlockedDateList(list []*domain.BlockedDate) *BlockedDateListResponse {
	resp := &BlockedDateListResponse{BlockedDates: make([]BlockedDateResponse, 0, len(list))}
	for _, b := range list {
		if dto := FromDomainBlockedDate(b); dto != nil {
			resp.BlockedDates = append(resp.BlockedDates, *dto)
		}
	}
	return resp
}
