// Package events publishes domain events to NATS so downstream consumers
// (notifications, analytics) can react without coupling to the API.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// Subjects emitted by the API.
const (
	SubjectEnrollmentCreated   = "lms.enrollment.created"
	SubjectEnrollmentCancelled = "lms.enrollment.cancelled"
	SubjectAssignmentClosed    = "lms.assignment.closed"
	SubjectSubmissionGraded    = "lms.submission.graded"
)

// Event is the wire envelope for every published domain event.
type Event struct {
	Subject    string                 `json:"subject"`
	OccurredAt time.Time              `json:"occurred_at"`
	Payload    map[string]interface{} `json:"payload"`
}

// Publisher emits domain events. A nil Publisher is a no-op so the API can
// run without a broker in development.
type Publisher struct {
	conn   *nats.Conn
	logger zerolog.Logger
}

// Connect dials the NATS server at the given URL.
func Connect(url string, logger zerolog.Logger) (*Publisher, error) {
	if url == "" {
		return nil, fmt.Errorf("nats url must not be empty")
	}

	conn, err := nats.Connect(url, nats.Name("lms-api"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	return &Publisher{
		conn:   conn,
		logger: logger.With().Str("component", "event_publisher").Logger(),
	}, nil
}

// Publish serialises and emits one event. Failures are logged, never
// propagated: event delivery is best-effort and must not fail the request.
func (p *Publisher) Publish(subject string, payload map[string]interface{}) {
	if p == nil || p.conn == nil {
		return
	}

	event := Event{Subject: subject, OccurredAt: time.Now(), Payload: payload}
	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn().Err(err).Str("subject", subject).Msg("failed to encode event")
		return
	}

	if err := p.conn.Publish(subject, data); err != nil {
		p.logger.Warn().Err(err).Str("subject", subject).Msg("failed to publish event")
	}
}

// Close drains the underlying connection.
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	p.conn.Close()
}
