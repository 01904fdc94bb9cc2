package websocket

import (
	"sync"

	"github.com/richxcame/localeflow/pkg/logger"
	"go.uber.org/zap"
)

// Message is the wire format exchanged with collaboration clients
type Message struct {
	Type      string                 `json:"type"`
	ProjectID string                 `json:"project_id,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// MessageHandler processes one inbound message type
type MessageHandler func(client *Client, msg *Message)

// Hub tracks connected clients and project rooms and routes messages
// between them. All map access is guarded by mu; Register/Unregister go
// through channels so connection churn is serialized in Run.
type Hub struct {
	clients  map[string]*Client
	projects map[string]map[string]*Client
	handlers map[string]MessageHandler

	Register   chan *Client
	Unregister chan *Client
	Broadcast  chan *Message

	mu sync.RWMutex
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		projects:   make(map[string]map[string]*Client),
		handlers:   make(map[string]MessageHandler),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Broadcast:  make(chan *Message, 256),
	}
}

// Run processes registration and broadcast events until the process exits
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)
		case client := <-h.Unregister:
			h.unregisterClient(client)
		case msg := <-h.Broadcast:
			if msg.ProjectID != "" {
				h.SendToProject(msg.ProjectID, msg)
			} else {
				h.SendToAll(msg)
			}
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// A reconnect replaces the previous connection for the same user.
	if existing, ok := h.clients[client.ID]; ok {
		existing.close()
		h.removeFromProjectsLocked(existing)
	}
	h.clients[client.ID] = client

	logger.Debug("Client registered", zap.String("client_id", client.ID), zap.String("role", client.Role))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if current, ok := h.clients[client.ID]; ok && current == client {
		delete(h.clients, client.ID)
		h.removeFromProjectsLocked(client)
		client.close()
	}
}

func (h *Hub) removeFromProjectsLocked(client *Client) {
	projectID := client.GetProject()
	if projectID == "" {
		return
	}
	if room, ok := h.projects[projectID]; ok {
		delete(room, client.ID)
		if len(room) == 0 {
			delete(h.projects, projectID)
		}
	}
	client.setProject("")
}

// AddClientToProject places a registered client into a project room
func (h *Hub) AddClientToProject(clientID, projectID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[clientID]
	if !ok {
		return
	}

	room, ok := h.projects[projectID]
	if !ok {
		room = make(map[string]*Client)
		h.projects[projectID] = room
	}
	room[clientID] = client
	client.setProject(projectID)
}

// RemoveClientFromProject removes a client from a project room, dropping
// the room when it empties
func (h *Hub) RemoveClientFromProject(clientID, projectID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if room, ok := h.projects[projectID]; ok {
		delete(room, clientID)
		if len(room) == 0 {
			delete(h.projects, projectID)
		}
	}
	if client, ok := h.clients[clientID]; ok {
		client.setProject("")
	}
}

// GetClient returns a registered client by id
func (h *Hub) GetClient(clientID string) (*Client, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	client, ok := h.clients[clientID]
	return client, ok
}

// GetClientsInProject returns all clients currently in a project room
func (h *Hub) GetClientsInProject(projectID string) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	room := h.projects[projectID]
	clients := make([]*Client, 0, len(room))
	for _, client := range room {
		clients = append(clients, client)
	}
	return clients
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// GetProjectCount returns the number of active project rooms
func (h *Hub) GetProjectCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.projects)
}

// SendToUser delivers a message to one client, if connected
func (h *Hub) SendToUser(clientID string, msg *Message) {
	h.mu.RLock()
	client, ok := h.clients[clientID]
	h.mu.RUnlock()

	if ok {
		client.SendMessage(msg)
	}
}

// SendToProject delivers a message to every client in a project room
func (h *Hub) SendToProject(projectID string, msg *Message) {
	for _, client := range h.GetClientsInProject(projectID) {
		client.SendMessage(msg)
	}
}

// SendToProjectExcept delivers a message to a project room, skipping one
// client (typically the sender)
func (h *Hub) SendToProjectExcept(projectID, excludeID string, msg *Message) {
	for _, client := range h.GetClientsInProject(projectID) {
		if client.ID == excludeID {
			continue
		}
		client.SendMessage(msg)
	}
}

// SendToAll broadcasts a message to every connected client
func (h *Hub) SendToAll(msg *Message) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		client.SendMessage(msg)
	}
}

// RegisterHandler binds a handler to an inbound message type
func (h *Hub) RegisterHandler(msgType string, handler MessageHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handlers[msgType] = handler
}

// HandleMessage dispatches an inbound message to its registered handler.
// Unknown types are answered with a personal error message.
func (h *Hub) HandleMessage(client *Client, msg *Message) {
	h.mu.RLock()
	handler, ok := h.handlers[msg.Type]
	h.mu.RUnlock()

	if !ok {
		logger.Debug("Unhandled message type", zap.String("type", msg.Type), zap.String("client_id", client.ID))
		client.SendMessage(&Message{
			Type: "error",
			Data: map[string]interface{}{"message": "unknown message type: " + msg.Type},
		})
		return
	}

	handler(client, msg)
}
