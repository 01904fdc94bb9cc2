package connectors

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/richxcame/localeflow/internal/events"
	"github.com/richxcame/localeflow/internal/models"
	"github.com/richxcame/localeflow/internal/mt"
	"github.com/richxcame/localeflow/internal/projects"
	"github.com/richxcame/localeflow/internal/state"
	"github.com/richxcame/localeflow/internal/terminology"
	"github.com/richxcame/localeflow/internal/tm"
	"github.com/richxcame/localeflow/internal/workflow"
	"github.com/richxcame/localeflow/pkg/common"
)

func newTestService() (*Service, *state.Store) {
	store := state.NewStore()
	logger := zap.NewNop()
	projectService := projects.NewService(
		store,
		tm.NewService(store, nil, logger),
		terminology.NewService(store, nil, logger),
		mt.NewEngine(),
		nil,
		events.NewNoopPublisher(logger),
		logger,
	)
	return NewService(store, projectService, logger), store
}

func TestRegister(t *testing.T) {
	svc, store := newTestService()

	connector := svc.Register(RegisterConnectorInput{
		Name:         "Storefront CMS",
		Type:         models.ConnectorCMS,
		Sector:       "ecommerce",
		AutoSync:     true,
		ContentPaths: []string{"banners/", "emails/"},
	})

	assert.True(t, connector.Active)
	assert.NotNil(t, connector.Metadata)
	assert.Nil(t, connector.LastSyncedAt)

	stored, ok := store.GetConnector(connector.ID)
	require.True(t, ok)
	assert.Equal(t, "Storefront CMS", stored.Name)
}

func TestSyncContent(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	connector := svc.Register(RegisterConnectorInput{
		Name:   "Storefront CMS",
		Type:   models.ConnectorCMS,
		Sector: "ecommerce",
	})

	job, err := svc.SyncContent(ctx, connector.ID, ContentSyncInput{
		ContentID:     "banner-42",
		SourceLocale:  "en-US",
		TargetLocales: []string{"fr-FR"},
		Content:       "Flash sale today",
		Metadata:      map[string]string{"title": "Spring Banner", "client": "Acme"},
		Priority:      "urgent", // unknown label falls back to medium
	})
	require.NoError(t, err)

	// The connector's sector drives the workflow template.
	assert.Equal(t, "ecommerce", job.Sector)
	assert.Equal(t, "intake_review", job.Workflow[0].Name)
	assert.Equal(t, workflow.StatusIntake, job.Status)

	assert.Equal(t, "Spring Banner", job.Name, "metadata title used when name omitted")
	assert.Equal(t, "Acme", job.Client)
	assert.Equal(t, "banner-42", job.ContentID)
	assert.Equal(t, models.PriorityMedium, job.Priority)
	assert.Equal(t, connector.ID, job.ConnectorID)

	synced, ok := store.GetConnector(connector.ID)
	require.True(t, ok)
	require.NotNil(t, synced.LastSyncedAt)
	assert.Equal(t, "success", synced.LastSyncStatus)
}

func TestSyncContent_FallsBackToContentID(t *testing.T) {
	svc, _ := newTestService()

	connector := svc.Register(RegisterConnectorInput{
		Name:   "Docs Repo",
		Type:   models.ConnectorGit,
		Sector: "legal",
	})

	job, err := svc.SyncContent(context.Background(), connector.ID, ContentSyncInput{
		ContentID:     "terms-of-service",
		SourceLocale:  "en-US",
		TargetLocales: []string{"de-DE"},
		Content:       "Liability clause",
	})
	require.NoError(t, err)
	assert.Equal(t, "terms-of-service", job.Name)
	assert.Equal(t, "legal", job.Sector)
}

func TestSyncContent_UnknownConnector(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.SyncContent(context.Background(), uuid.New(), ContentSyncInput{
		ContentID:     "x",
		SourceLocale:  "en-US",
		TargetLocales: []string{"fr-FR"},
		Content:       "text",
	})

	var appErr *common.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 404, appErr.Code)
}
