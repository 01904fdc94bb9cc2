// Package realtime wires WebSocket collaboration for the studio:
// project rooms, presence, live segment edits, typing indicators, and
// comments, plus NATS fan-out of pipeline events.
package realtime

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/richxcame/localeflow/internal/projects"
	"github.com/richxcame/localeflow/internal/state"
	ws "github.com/richxcame/localeflow/pkg/websocket"
)

// Router registers collaboration message handlers on the hub
type Router struct {
	hub      *ws.Hub
	projects *projects.Service
	store    *state.Store
	activity ActivityRepository
	logger   *zap.Logger
}

// NewRouter creates the realtime message router. activity may be nil
// when the Postgres mirror is disabled.
func NewRouter(hub *ws.Hub, projectService *projects.Service, store *state.Store, activity ActivityRepository, logger *zap.Logger) *Router {
	return &Router{
		hub:      hub,
		projects: projectService,
		store:    store,
		activity: activity,
		logger:   logger,
	}
}

// Register wires every collaboration message type
func (r *Router) Register() {
	r.hub.RegisterHandler("join_project", r.handleJoinProject)
	r.hub.RegisterHandler("leave_project", r.handleLeaveProject)
	r.hub.RegisterHandler("segment_update", r.handleSegmentUpdate)
	r.hub.RegisterHandler("typing", r.handleTyping)
	r.hub.RegisterHandler("cursor_position", r.handleCursorPosition)
	r.hub.RegisterHandler("comment", r.handleComment)
}

func (r *Router) sendError(client *ws.Client, message string) {
	client.SendMessage(&ws.Message{
		Type: "error",
		Data: map[string]interface{}{"message": message},
	})
}

func (r *Router) handleJoinProject(client *ws.Client, msg *ws.Message) {
	if msg.ProjectID == "" {
		r.sendError(client, "Project ID required")
		return
	}
	projectID, err := uuid.Parse(msg.ProjectID)
	if err != nil {
		r.sendError(client, "Project not found")
		return
	}
	if _, err := r.projects.GetProject(context.Background(), projectID); err != nil {
		r.sendError(client, "Project not found")
		return
	}

	r.hub.AddClientToProject(client.ID, msg.ProjectID)

	r.hub.SendToProjectExcept(msg.ProjectID, client.ID, &ws.Message{
		Type:      "user_joined",
		ProjectID: msg.ProjectID,
		Data: map[string]interface{}{
			"user_id":   client.ID,
			"timestamp": time.Now().UTC(),
		},
	})

	users := make([]string, 0)
	for _, member := range r.hub.GetClientsInProject(msg.ProjectID) {
		users = append(users, member.ID)
	}
	client.SendMessage(&ws.Message{
		Type:      "project_users",
		ProjectID: msg.ProjectID,
		Data:      map[string]interface{}{"users": users},
	})
}

func (r *Router) handleLeaveProject(client *ws.Client, msg *ws.Message) {
	if msg.ProjectID == "" {
		return
	}
	r.hub.RemoveClientFromProject(client.ID, msg.ProjectID)

	r.hub.SendToProject(msg.ProjectID, &ws.Message{
		Type:      "user_left",
		ProjectID: msg.ProjectID,
		Data: map[string]interface{}{
			"user_id":   client.ID,
			"timestamp": time.Now().UTC(),
		},
	})
}

func (r *Router) handleSegmentUpdate(client *ws.Client, msg *ws.Message) {
	segmentID, _ := msg.Data["segment_id"].(string)
	content, _ := msg.Data["content"].(string)
	if msg.ProjectID == "" || segmentID == "" || content == "" {
		r.sendError(client, "Missing required fields")
		return
	}

	r.hub.SendToProjectExcept(msg.ProjectID, client.ID, &ws.Message{
		Type:      "segment_updated",
		ProjectID: msg.ProjectID,
		Data: map[string]interface{}{
			"segment_id": segmentID,
			"content":    content,
			"user_id":    client.ID,
			"timestamp":  time.Now().UTC(),
		},
	})
}

func (r *Router) handleTyping(client *ws.Client, msg *ws.Message) {
	if msg.ProjectID == "" {
		return
	}
	isTyping, _ := msg.Data["is_typing"].(bool)

	r.hub.SendToProjectExcept(msg.ProjectID, client.ID, &ws.Message{
		Type:      "typing",
		ProjectID: msg.ProjectID,
		Data: map[string]interface{}{
			"user_id":    client.ID,
			"segment_id": msg.Data["segment_id"],
			"is_typing":  isTyping,
			"timestamp":  time.Now().UTC(),
		},
	})
}

func (r *Router) handleCursorPosition(client *ws.Client, msg *ws.Message) {
	if msg.ProjectID == "" {
		return
	}

	r.hub.SendToProjectExcept(msg.ProjectID, client.ID, &ws.Message{
		Type:      "cursor_position",
		ProjectID: msg.ProjectID,
		Data: map[string]interface{}{
			"user_id":    client.ID,
			"segment_id": msg.Data["segment_id"],
			"position":   msg.Data["position"],
			"timestamp":  time.Now().UTC(),
		},
	})
}

func (r *Router) handleComment(client *ws.Client, msg *ws.Message) {
	segmentID, _ := msg.Data["segment_id"].(string)
	comment, _ := msg.Data["comment"].(string)
	if msg.ProjectID == "" || segmentID == "" || comment == "" {
		r.sendError(client, "Missing required fields for comment")
		return
	}

	message := "User " + client.ID + " commented on segment " + segmentID
	r.store.RecordActivityMessage("comment", message)
	if r.activity != nil {
		if err := r.activity.Record(context.Background(), client.ID, msg.ProjectID, "comment", message); err != nil {
			r.logger.Warn("failed to persist comment activity", zap.Error(err))
		}
	}

	// Comments go to everyone in the room, author included.
	r.hub.SendToProject(msg.ProjectID, &ws.Message{
		Type:      "comment_added",
		ProjectID: msg.ProjectID,
		Data: map[string]interface{}{
			"segment_id": segmentID,
			"comment":    comment,
			"user_id":    client.ID,
			"timestamp":  time.Now().UTC(),
		},
	})
}
