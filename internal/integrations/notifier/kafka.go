package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"

	"github.com/m04kA/BarberBookingService/internal/domain"
)

// messageWriter часть *kafka.Writer, нужная публикатору
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNotifier публикует события в топик Kafka, ключ сообщения - ID записи
type KafkaNotifier struct {
	writer messageWriter
	topic  string
	log    Logger
}

// NewKafkaNotifier создает публикатор. Подключение к брокерам происходит при первой отправке.
func NewKafkaNotifier(brokers []string, topic string, log Logger) *KafkaNotifier {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return newKafkaNotifier(writer, topic, log)
}

func newKafkaNotifier(writer messageWriter, topic string, log Logger) *KafkaNotifier {
	return &KafkaNotifier{writer: writer, topic: topic, log: log}
}

// Notify отправляет событие appointment.created
func (n *KafkaNotifier) Notify(ctx context.Context, appointment *domain.Appointment) error {
	event := NewAppointmentCreatedEvent(appointment, time.Now())

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal event: %v", ErrInternal, err)
	}

	msg := kafka.Message{
		Topic: n.topic,
		Key:   []byte(strconv.FormatInt(appointment.ID, 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(event.EventID)},
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	}
	msg.Headers = injectTraceHeaders(ctx, msg.Headers)

	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("%w: topic=%s, appointment_id=%d: %v", ErrPublish, n.topic, appointment.ID, err)
	}

	n.log.Info("Published %s for appointment_id=%d to topic=%s", event.EventType, appointment.ID, n.topic)
	return nil
}

// Close закрывает writer
func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}

// injectTraceHeaders добавляет W3C trace context в заголовки сообщения
func injectTraceHeaders(ctx context.Context, headers []kafka.Header) []kafka.Header {
	carrier := &headerCarrier{headers: headers}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	return carrier.headers
}

type headerCarrier struct {
	headers []kafka.Header
}

func (c *headerCarrier) Get(key string) string {
	for _, h := range c.headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c *headerCarrier) Set(key, value string) {
	for i, h := range c.headers {
		if h.Key == key {
			c.headers[i].Value = []byte(value)
			return
		}
	}
	c.headers = append(c.headers, kafka.Header{Key: key, Value: []byte(value)})
}

func (c *headerCarrier) Keys() []string {
	keys := make([]string, 0, len(c.headers))
	for _, h := range c.headers {
		keys = append(keys, h.Key)
	}
	return keys
}
