package realtime

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/richxcame/localeflow/internal/events"
	ws "github.com/richxcame/localeflow/pkg/websocket"
)

// Subscriber fans pipeline events out to project rooms, so studio
// clients see progress regardless of which API instance handled the
// originating request.
type Subscriber struct {
	conn   *nats.Conn
	hub    *ws.Hub
	logger *zap.Logger

	subs []*nats.Subscription
}

// NewSubscriber creates a subscriber over an existing NATS connection
func NewSubscriber(conn *nats.Conn, hub *ws.Hub, logger *zap.Logger) *Subscriber {
	return &Subscriber{conn: conn, hub: hub, logger: logger}
}

// Start subscribes to every pipeline subject
func (s *Subscriber) Start() error {
	if s.conn == nil {
		return nil
	}

	handlers := map[string]nats.MsgHandler{
		events.SubjectProjectCreated: s.onProjectCreated,
		events.SubjectSegmentUpdated: s.onSegmentUpdated,
		events.SubjectStepCompleted:  s.onStepCompleted,
	}
	for subject, handler := range handlers {
		sub, err := s.conn.Subscribe(subject, handler)
		if err != nil {
			return err
		}
		s.subs = append(s.subs, sub)
	}
	return nil
}

// Stop unsubscribes from every subject
func (s *Subscriber) Stop() {
	for _, sub := range s.subs {
		if err := sub.Unsubscribe(); err != nil {
			s.logger.Warn("failed to unsubscribe", zap.String("subject", sub.Subject), zap.Error(err))
		}
	}
	s.subs = nil
}

func (s *Subscriber) onProjectCreated(msg *nats.Msg) {
	var event events.ProjectCreatedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		s.logger.Warn("bad project created event", zap.Error(err))
		return
	}
	// New projects have no room yet, so announce to everyone.
	s.hub.SendToAll(&ws.Message{
		Type: "project_created",
		Data: map[string]interface{}{
			"project_id": event.ProjectID.String(),
			"name":       event.Name,
			"sector":     event.Sector,
			"timestamp":  event.CreatedAt.Format(time.RFC3339),
		},
	})
}

func (s *Subscriber) onSegmentUpdated(msg *nats.Msg) {
	var event events.SegmentUpdatedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		s.logger.Warn("bad segment updated event", zap.Error(err))
		return
	}
	projectID := event.ProjectID.String()
	s.hub.SendToProject(projectID, &ws.Message{
		Type:      "segment_saved",
		ProjectID: projectID,
		Data: map[string]interface{}{
			"segment_id": event.SegmentID.String(),
			"timestamp":  event.UpdatedAt.Format(time.RFC3339),
		},
	})
}

func (s *Subscriber) onStepCompleted(msg *nats.Msg) {
	var event events.StepCompletedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		s.logger.Warn("bad step completed event", zap.Error(err))
		return
	}
	projectID := event.ProjectID.String()
	s.hub.SendToProject(projectID, &ws.Message{
		Type:      "workflow_advanced",
		ProjectID: projectID,
		Data: map[string]interface{}{
			"step_name": event.StepName,
			"status":    event.Status,
			"timestamp": event.UpdatedAt.Format(time.RFC3339),
		},
	})
}
