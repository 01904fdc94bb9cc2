// Package events publishes domain events to NATS for realtime fan-out
// and downstream integrations.
package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Subjects for pipeline events
const (
	SubjectProjectCreated = "tms.project.created"
	SubjectSegmentUpdated = "tms.segment.updated"
	SubjectStepCompleted  = "tms.step.completed"
)

// ProjectCreatedEvent announces a new translation job
type ProjectCreatedEvent struct {
	ProjectID uuid.UUID `json:"project_id"`
	Name      string    `json:"name"`
	Sector    string    `json:"sector"`
	CreatedAt time.Time `json:"created_at"`
}

// SegmentUpdatedEvent announces a post-edit or reviewer change
type SegmentUpdatedEvent struct {
	ProjectID uuid.UUID `json:"project_id"`
	SegmentID uuid.UUID `json:"segment_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StepCompletedEvent announces workflow progression
type StepCompletedEvent struct {
	ProjectID uuid.UUID `json:"project_id"`
	StepName  string    `json:"step_name"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Publisher sends domain events to NATS. A disabled publisher drops
// events silently so callers never need to nil-check.
type Publisher struct {
	conn   *nats.Conn
	logger *zap.Logger
}

// NewPublisher connects to NATS and returns a live publisher
func NewPublisher(url string, logger *zap.Logger) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, err
	}
	return &Publisher{conn: conn, logger: logger}, nil
}

// NewNoopPublisher returns a publisher that drops every event
func NewNoopPublisher(logger *zap.Logger) *Publisher {
	return &Publisher{logger: logger}
}

// Conn exposes the underlying NATS connection for subscribers
func (p *Publisher) Conn() *nats.Conn {
	return p.conn
}

// Close drains the NATS connection
func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}

func (p *Publisher) publish(subject string, event interface{}) {
	if p.conn == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn("failed to marshal event", zap.String("subject", subject), zap.Error(err))
		return
	}
	if err := p.conn.Publish(subject, payload); err != nil {
		p.logger.Warn("failed to publish event", zap.String("subject", subject), zap.Error(err))
	}
}

// ProjectCreated publishes a project creation event
func (p *Publisher) ProjectCreated(projectID uuid.UUID, name, sector string) {
	p.publish(SubjectProjectCreated, ProjectCreatedEvent{
		ProjectID: projectID,
		Name:      name,
		Sector:    sector,
		CreatedAt: time.Now().UTC(),
	})
}

// SegmentUpdated publishes a segment update event
func (p *Publisher) SegmentUpdated(projectID, segmentID uuid.UUID) {
	p.publish(SubjectSegmentUpdated, SegmentUpdatedEvent{
		ProjectID: projectID,
		SegmentID: segmentID,
		UpdatedAt: time.Now().UTC(),
	})
}

// StepCompleted publishes a workflow progression event
func (p *Publisher) StepCompleted(projectID uuid.UUID, stepName, status string) {
	p.publish(SubjectStepCompleted, StepCompletedEvent{
		ProjectID: projectID,
		StepName:  stepName,
		Status:    status,
		UpdatedAt: time.Now().UTC(),
	})
}
