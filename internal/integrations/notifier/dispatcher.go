package notifier

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/BarberBookingService/internal/domain"
)

// Dispatcher отправляет уведомления в фоне после фиксации записи.
// Ошибки доставки логируются и не влияют на созданную запись.
type Dispatcher struct {
	notifier Notifier
	timeout  time.Duration
	log      Logger
	wg       sync.WaitGroup
}

// NewDispatcher создает диспетчер, timeout ограничивает одну отправку
func NewDispatcher(notifier Notifier, timeout time.Duration, log Logger) *Dispatcher {
	return &Dispatcher{notifier: notifier, timeout: timeout, log: log}
}

// Dispatch запускает отправку в отдельной горутине и сразу возвращается.
// Отправка не отменяется вместе с запросом, но сохраняет его trace context.
func (d *Dispatcher) Dispatch(ctx context.Context, appointment *domain.Appointment) {
	if appointment == nil {
		return
	}
	event := *appointment
	detached := context.WithoutCancel(ctx)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(detached, d.timeout)
		defer cancel()

		if err := d.notifier.Notify(ctx, &event); err != nil {
			d.log.Error("Notification failed for appointment_id=%d: %v", event.ID, err)
		}
	}()
}

// Wait дожидается завершения начатых отправок (для graceful shutdown)
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
