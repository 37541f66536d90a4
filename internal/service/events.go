package service

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// EvaluationEvent is broadcast whenever an evaluation changes state, so
// scoreboard consumers can refresh without polling. Delivery is best
// effort; the database remains the source of truth.
type EvaluationEvent struct {
	Action       string    `json:"action"`
	EvaluationID uint      `json:"evaluation_id"`
	JurorID      uint      `json:"juror_id"`
	EntryID      uint      `json:"entry_id"`
	Status       string    `json:"status"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// EventPublisher broadcasts evaluation lifecycle events.
type EventPublisher interface {
	PublishEvaluationEvent(event EvaluationEvent)
}

type natsEventPublisher struct {
	conn        *nats.Conn
	subjectBase string
	logger      zerolog.Logger
}

// NewNATSEventPublisher wraps a NATS connection as an event publisher.
// Returns nil when conn is nil so callers can wire it unconditionally.
func NewNATSEventPublisher(conn *nats.Conn, subjectBase string, logger zerolog.Logger) EventPublisher {
	if conn == nil {
		return nil
	}

	base := strings.TrimSuffix(subjectBase, ".")
	if base == "" {
		base = "jury"
	}

	return &natsEventPublisher{
		conn:        conn,
		subjectBase: base,
		logger:      logger.With().Str("component", "event_publisher").Logger(),
	}
}

func (p *natsEventPublisher) PublishEvaluationEvent(event EvaluationEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn().Err(err).Msg("failed to encode evaluation event")
		return
	}

	subject := p.subjectBase + ".evaluation." + event.Action
	if err := p.conn.Publish(subject, payload); err != nil {
		p.logger.Warn().Err(err).Str("subject", subject).Msg("failed to publish evaluation event")
	}
}
