package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// Event types emitted by the portal.
const (
	TypeAnnouncementPosted  = "announcement.posted"
	TypeAnnouncementDeleted = "announcement.deleted"
	TypeTeacherDeleted      = "teacher.deleted"
	TypeTeacherAssigned     = "teacher.assigned"
	TypeStudentCreated      = "student.created"
	TypeMarksSubmitted      = "marks.submitted"
	TypeAttendanceMarked    = "attendance.marked"
)

// Event is a notification about a completed portal action.
type Event struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	ActorID    string                 `json:"actor_id"`
	EntityID   string                 `json:"entity_id,omitempty"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// Publisher delivers events to interested consumers.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NewEvent stamps an event with an id and timestamp.
func NewEvent(eventType, actorID, entityID string, payload map[string]interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		ActorID:    actorID,
		EntityID:   entityID,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}
}

// NATSPublisher publishes events on <subject>.<event type>.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
	logger  zerolog.Logger
}

// Connect dials NATS and returns a publisher for the subject prefix.
func Connect(url, subject string, logger zerolog.Logger) (*NATSPublisher, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("nats url must not be empty")
	}

	conn, err := nats.Connect(url, nats.Name("campus-portal"), nats.MaxReconnects(-1))
	if err != nil {
		return nil, fmt.Errorf("unable to connect to nats: %w", err)
	}

	return NewNATSPublisher(conn, subject, logger), nil
}

// NewNATSPublisher wraps an existing connection.
func NewNATSPublisher(conn *nats.Conn, subject string, logger zerolog.Logger) *NATSPublisher {
	subject = strings.Trim(strings.TrimSpace(subject), ".")
	if subject == "" {
		subject = "portal.events"
	}
	return &NATSPublisher{
		conn:    conn,
		subject: subject,
		logger:  logger.With().Str("component", "event_publisher").Logger(),
	}
}

// Subject returns the full subject an event type is published on.
func (p *NATSPublisher) Subject(eventType string) string {
	return p.subject + "." + eventType
}

// Publish encodes the event as JSON and publishes it.
func (p *NATSPublisher) Publish(ctx context.Context, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	if err := p.conn.Publish(p.Subject(event.Type), payload); err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}

	p.logger.Debug().Str("event_id", event.ID).Str("type", event.Type).Msg("event published")
	return nil
}

// Close drains the underlying connection.
func (p *NATSPublisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		p.logger.Warn().Err(err).Msg("failed to drain nats connection")
	}
}

// Nop discards events. It is used when no broker is configured.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, Event) error { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	Events []Event
}

// Publish implements Publisher.
func (r *Recorder) Publish(_ context.Context, event Event) error {
	r.Events = append(r.Events, event)
	return nil
}

// Types lists the types of recorded events in order.
func (r *Recorder) Types() []string {
	out := make([]string, 0, len(r.Events))
	for _, event := range r.Events {
		out = append(out, event.Type)
	}
	return out
}
