package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Producer interface {
	Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error
}

var ErrWorkerNotConfigured = errors.New("outbox: worker missing dependencies")

// drainLimit caps how many events one tick publishes, so a backlog cannot
// starve the poll loop of cancellation checks.
const drainLimit = 64

// Worker drains due outbox events and publishes them as CloudEvents. Booking
// and hotel events go to their own topics; each tick drains the backlog up
// to drainLimit before sleeping again.
type Worker struct {
	Store       *Store
	Producer    Producer
	Interval    time.Duration
	TopicPrefix string
	Source      string
	ID          string
	Backoff     []time.Duration
}

func (w *Worker) Run(ctx context.Context) error {
	if w.Store == nil || w.Producer == nil {
		return ErrWorkerNotConfigured
	}
	ticker := time.NewTicker(w.interval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.drain(ctx); err != nil {
				return err
			}
		}
	}
}

func (w *Worker) drain(ctx context.Context) error {
	for i := 0; i < drainLimit; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		doc, err := w.Store.Claim(ctx, w.workerID())
		if err != nil {
			return err
		}
		if doc == nil {
			return nil
		}
		w.dispatch(ctx, doc)
	}
	return nil
}

// dispatch publishes one claimed event. Publish and encode failures requeue
// the event with backoff instead of stopping the worker.
func (w *Worker) dispatch(ctx context.Context, doc *EventDocument) {
	payload, headers, err := w.envelope(doc)
	if err != nil {
		_ = w.Store.MarkFailed(ctx, doc.ID, w.nextRetry(doc.Attempts), err.Error())
		return
	}
	if err := w.Producer.Publish(ctx, w.topicFor(doc.Name), doc.Aggregate, payload, headers); err != nil {
		_ = w.Store.MarkFailed(ctx, doc.ID, w.nextRetry(doc.Attempts), err.Error())
		return
	}
	_ = w.Store.MarkSent(ctx, doc.ID)
}

// cloudEvent is the CloudEvents 1.0 structured-mode envelope.
type cloudEvent struct {
	SpecVersion     string          `json:"specversion"`
	ID              string          `json:"id"`
	Type            string          `json:"type"`
	Source          string          `json:"source"`
	Subject         string          `json:"subject,omitempty"`
	Time            time.Time       `json:"time"`
	DataContentType string          `json:"datacontenttype"`
	TraceParent     string          `json:"traceparent,omitempty"`
	Data            json.RawMessage `json:"data"`
}

func (w *Worker) envelope(doc *EventDocument) ([]byte, map[string]string, error) {
	if !json.Valid(doc.Payload) {
		return nil, nil, errors.New("outbox: event payload is not valid json")
	}
	evt := cloudEvent{
		SpecVersion:     "1.0",
		ID:              uuid.NewString(),
		Type:            doc.Name + ".v1",
		Source:          w.source(),
		Subject:         doc.Aggregate,
		Time:            doc.OccurredAt,
		DataContentType: "application/json",
		TraceParent:     doc.Headers["traceparent"],
		Data:            json.RawMessage(doc.Payload),
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return nil, nil, err
	}
	headers := map[string]string{
		"content-type": "application/cloudevents+json",
	}
	for k, v := range doc.Headers {
		headers[k] = v
	}
	return payload, headers, nil
}

// topicFor routes by aggregate kind. Event names are "booking.created",
// "hotel.updated" and so on; unknown kinds share a catch-all topic.
func (w *Worker) topicFor(name string) string {
	var topic string
	switch {
	case hasKind(name, "booking"):
		topic = "bookings.events.v1"
	case hasKind(name, "hotel"):
		topic = "hotels.events.v1"
	default:
		topic = "domain.events.v1"
	}
	return w.TopicPrefix + topic
}

func hasKind(name, kind string) bool {
	return len(name) > len(kind) && name[:len(kind)] == kind && name[len(kind)] == '.'
}

func (w *Worker) workerID() string {
	if w.ID != "" {
		return w.ID
	}
	return uuid.NewString()
}

func (w *Worker) interval() time.Duration {
	if w.Interval <= 0 {
		return 500 * time.Millisecond
	}
	return w.Interval
}

func (w *Worker) nextRetry(attempts int) time.Time {
	if len(w.Backoff) == 0 {
		return time.Now().Add(5 * time.Second)
	}
	if attempts >= len(w.Backoff) {
		attempts = len(w.Backoff) - 1
	}
	return time.Now().Add(w.Backoff[attempts])
}

func (w *Worker) source() string {
	if w.Source != "" {
		return w.Source
	}
	return "app://stayfinder"
}
