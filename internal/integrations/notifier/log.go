package notifier

import (
	"context"
	"time"

	"github.com/m04kA/BarberBookingService/internal/domain"
)

// LogNotifier только пишет событие в лог
type LogNotifier struct {
	log Logger
}

func NewLogNotifier(log Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, a *domain.Appointment) error {
	n.log.Info("Appointment created: id=%d, service=%d, date=%s, customer=%s",
		a.ID, a.ServiceID, a.Date.UTC().Format(time.RFC3339), a.CustomerEmail)
	return nil
}
