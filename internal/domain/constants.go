package domain

// Default configuration values
const (
	DefaultSlotStepMinutes          = 30
	DefaultConflictToleranceMinutes = 29 // чуть меньше шага сетки
)

// Business validation constants
const (
	MaxCustomerNameLength     = 100
	MaxCustomerEmailLength    = 254
	MaxCustomerPhoneLength    = 32
	MaxNotesLength            = 500
	MaxBlockReasonLength      = 200
	MaxBreakDescriptionLength = 100
	DaysInWeek                = 7
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы, занимающие слот
// Используется при проверке конфликтов и построении сетки
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
}
