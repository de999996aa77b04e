package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/m04kA/BarberBookingService/internal/domain"
)

// WebhookNotifier отправляет событие POST-запросом на внешний URL
type WebhookNotifier struct {
	url        string
	httpClient *http.Client
	log        Logger
}

// NewWebhookNotifier создает новый экземпляр клиента webhook
func NewWebhookNotifier(url string, timeout time.Duration, log Logger) *WebhookNotifier {
	return &WebhookNotifier{
		url: url,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		log: log,
	}
}

// Notify отправляет событие appointment.created
func (n *WebhookNotifier) Notify(ctx context.Context, appointment *domain.Appointment) error {
	event := NewAppointmentCreatedEvent(appointment, time.Now())

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal event: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Event-Type", event.EventType)
	req.Header.Set("X-Event-Id", event.EventID)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Любой 2xx считается доставкой
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	n.log.Info("Delivered %s for appointment_id=%d to webhook", event.EventType, appointment.ID)
	return nil
}
