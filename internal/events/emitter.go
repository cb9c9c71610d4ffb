// Package events publishes domain events to NATS so downstream consumers
// (notifiers, analytics) can react to grading activity without coupling to
// the engine.
package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// Event subjects emitted by the grading engine.
const (
	SubjectSubmissionReceived  = "submission.received"
	SubjectSubmissionGraded    = "submission.graded"
	SubjectSubmissionPublished = "submission.published"
	SubjectCourseDeleted       = "course.deleted"
)

// Envelope wraps every published event.
type Envelope struct {
	Subject string      `json:"subject"`
	SentAt  time.Time   `json:"sent_at"`
	Payload interface{} `json:"payload"`
}

// Emitter publishes JSON events on a subject prefix. A nil Emitter (or one
// without a connection) silently drops events so callers never need to guard.
type Emitter struct {
	conn   *nats.Conn
	prefix string
	logger zerolog.Logger
}

// NewEmitter wires an emitter onto an existing NATS connection. conn may be
// nil when eventing is disabled.
func NewEmitter(conn *nats.Conn, prefix string, logger zerolog.Logger) *Emitter {
	prefix = strings.Trim(prefix, ".")
	return &Emitter{
		conn:   conn,
		prefix: prefix,
		logger: logger.With().Str("component", "events").Logger(),
	}
}

// Emit publishes the payload under prefix.subject. Publish failures are
// logged, never returned: eventing is best-effort and must not fail the
// originating operation.
func (e *Emitter) Emit(ctx context.Context, subject string, payload interface{}) {
	if e == nil || e.conn == nil {
		return
	}

	full := subject
	if e.prefix != "" {
		full = e.prefix + "." + subject
	}

	body, err := json.Marshal(Envelope{Subject: subject, SentAt: time.Now().UTC(), Payload: payload})
	if err != nil {
		e.logger.Warn().Err(err).Str("subject", full).Msg("failed to marshal event")
		return
	}

	if err := e.conn.Publish(full, body); err != nil {
		e.logger.Warn().Err(err).Str("subject", full).Msg("failed to publish event")
	}
}
