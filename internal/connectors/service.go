// Package connectors manages content integrations and inbound content
// sync from CMS and git sources.
package connectors

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/richxcame/localeflow/internal/models"
	"github.com/richxcame/localeflow/internal/projects"
	"github.com/richxcame/localeflow/internal/state"
	"github.com/richxcame/localeflow/pkg/common"
)

// RegisterConnectorInput describes a new content integration
type RegisterConnectorInput struct {
	Name         string
	Type         models.ConnectorType
	Sector       string
	Metadata     map[string]string
	AutoSync     bool
	ContentPaths []string
}

// ContentSyncInput is content pushed from a connector into the pipeline
type ContentSyncInput struct {
	ContentID          string
	SourceLocale       string
	TargetLocales      []string
	Content            string
	Metadata           map[string]string
	Name               string
	Client             string
	Priority           string
	DueDate            *time.Time
	EstimatedWordCount int
	Budget             float64
	Description        string
	AssignedVendorID   string
}

// Service registers connectors and turns inbound content into jobs
type Service struct {
	store    *state.Store
	projects *projects.Service
	logger   *zap.Logger
}

// NewService creates the connector service
func NewService(store *state.Store, projectService *projects.Service, logger *zap.Logger) *Service {
	return &Service{store: store, projects: projectService, logger: logger}
}

// Register adds a new connector
func (s *Service) Register(input RegisterConnectorInput) models.Connector {
	metadata := input.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	connector := models.Connector{
		ID:           uuid.New(),
		Name:         input.Name,
		Type:         input.Type,
		Sector:       input.Sector,
		Metadata:     metadata,
		AutoSync:     input.AutoSync,
		ContentPaths: input.ContentPaths,
		CreatedAt:    time.Now().UTC(),
		Active:       true,
	}
	s.store.AddConnector(connector)

	s.logger.Info("connector registered",
		zap.String("connector_id", connector.ID.String()),
		zap.String("type", string(connector.Type)),
		zap.String("sector", connector.Sector))

	return connector
}

// List returns all registered connectors
func (s *Service) List() []models.Connector {
	return s.store.ListConnectors()
}

// SyncContent creates a job from inbound connector content. The
// connector's sector decides the workflow; a bad priority label falls
// back to medium rather than rejecting the payload.
func (s *Service) SyncContent(ctx context.Context, connectorID uuid.UUID, input ContentSyncInput) (models.Job, error) {
	connector, ok := s.store.GetConnector(connectorID)
	if !ok {
		return models.Job{}, common.NewNotFoundError("connector not found")
	}

	name := input.Name
	if name == "" {
		if title, ok := input.Metadata["title"]; ok && title != "" {
			name = title
		} else {
			name = input.ContentID
		}
	}
	client := input.Client
	if client == "" {
		client = input.Metadata["client"]
	}

	metadata := make(map[string]string, len(input.Metadata)+1)
	for k, v := range input.Metadata {
		metadata[k] = v
	}
	metadata["content_id"] = input.ContentID

	job := s.projects.CreateProject(ctx, projects.CreateProjectInput{
		Name:               name,
		Sector:             connector.Sector,
		SourceLocale:       input.SourceLocale,
		TargetLocales:      input.TargetLocales,
		Content:            input.Content,
		Client:             client,
		Priority:           models.ParsePriority(input.Priority),
		DueDate:            input.DueDate,
		EstimatedWordCount: input.EstimatedWordCount,
		Budget:             input.Budget,
		Description:        input.Description,
		AssignedVendorID:   input.AssignedVendorID,
		ConnectorID:        connector.ID,
		Metadata:           metadata,
	})

	now := time.Now().UTC()
	connector.LastSyncedAt = &now
	connector.LastSyncStatus = "success"
	s.store.UpdateConnector(connector)

	return job, nil
}
