// Package bootstrap seeds the prototype with representative demo data so
// the dashboard and studio have something to show on first boot.
package bootstrap

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/richxcame/localeflow/internal/models"
	"github.com/richxcame/localeflow/internal/projects"
	"github.com/richxcame/localeflow/internal/state"
	"github.com/richxcame/localeflow/internal/terminology"
	"github.com/richxcame/localeflow/internal/tm"
	"github.com/richxcame/localeflow/internal/workflow"
)

// Seed populates the in-memory stores with curated demo data. Calling it
// twice is a no-op.
func Seed(
	ctx context.Context,
	store *state.Store,
	projectService *projects.Service,
	tmService *tm.Service,
	termService *terminology.Service,
	logger *zap.Logger,
) {
	if store.Seeded() {
		return
	}

	now := time.Now().UTC()

	connectors := []models.Connector{
		{
			ID:        models.ManualConnectorID,
			Name:      "Manual Intake",
			Type:      models.ConnectorCMS,
			Sector:    "ecommerce",
			CreatedAt: now,
			Metadata:  map[string]string{"mode": "manual"},
			AutoSync:  false,
			Active:    true,
		},
		{
			ID:           uuid.New(),
			Name:         "Shopify Connector",
			Type:         models.ConnectorCMS,
			Sector:       "ecommerce",
			CreatedAt:    now,
			Metadata:     map[string]string{"platform": "shopify"},
			ContentPaths: []string{"/products", "/collections"},
			AutoSync:     true,
			Active:       true,
		},
		{
			ID:           uuid.New(),
			Name:         "Banking Git Sync",
			Type:         models.ConnectorGit,
			Sector:       "bfsi",
			CreatedAt:    now,
			Metadata:     map[string]string{"repository": "git@corp/bfsi-portal"},
			ContentPaths: []string{"/src/locales"},
			AutoSync:     true,
			Active:       true,
		},
		{
			ID:           uuid.New(),
			Name:         "Legal CMS Connector",
			Type:         models.ConnectorCMS,
			Sector:       "legal",
			CreatedAt:    now,
			Metadata:     map[string]string{"platform": "drupal"},
			ContentPaths: []string{"/cases", "/knowledge"},
			AutoSync:     true,
			Active:       true,
		},
	}
	for _, connector := range connectors {
		store.AddConnector(connector)
	}

	vendors := []models.Vendor{
		{
			ID:           uuid.New(),
			Name:         "Global LSP Alliance",
			Sectors:      []string{"ecommerce", "bfsi"},
			Locales:      []string{"en-US", "es-ES", "fr-FR"},
			Rating:       4.9,
			ContactEmail: "projects@globallsp.com",
			Active:       true,
			CreatedAt:    now,
		},
		{
			ID:           uuid.New(),
			Name:         "LexiLegal Partners",
			Sectors:      []string{"legal"},
			Locales:      []string{"en-US", "es-ES", "fr-FR"},
			Rating:       4.7,
			ContactEmail: "ops@lexilegal.example",
			Active:       true,
			CreatedAt:    now,
		},
	}
	for _, vendor := range vendors {
		store.AddVendor(vendor)
	}

	tmService.AddEntry(ctx, "en-US", "es-ES", "Welcome to our store!", "¡Bienvenido a nuestra tienda!")
	tmService.AddEntry(ctx, "en-US", "fr-FR", "Welcome to our store!", "Bienvenue dans notre boutique !")
	tmService.AddEntry(ctx, "en-US", "de-DE", "Secure payment portal", "Sicheres Zahlungsportal")
	tmService.AddEntry(ctx, "en-US", "es-ES", "Account statement", "Estado de cuenta")
	tmService.AddEntry(ctx, "en-US", "fr-FR", "Compliance update", "Mise à jour de conformité")

	termService.AddEntry(ctx, "bfsi", "en-US", "es-ES", "routing number", "número de ruta", "Banking terminology")
	termService.AddEntry(ctx, "bfsi", "en-US", "fr-FR", "routing number", "numéro d'acheminement", "")
	termService.AddEntry(ctx, "legal", "en-US", "es-ES", "indemnification", "indemnización", "Contractual clause")
	termService.AddEntry(ctx, "legal", "en-US", "fr-FR", "indemnification", "indemnisation", "")
	termService.AddEntry(ctx, "ecommerce", "en-US", "es-ES", "shopping cart", "carrito de compras", "")

	dueIn := func(days int) *time.Time {
		t := now.AddDate(0, 0, days)
		return &t
	}

	payloads := []projects.CreateProjectInput{
		{
			Name:          "Tech Manual EN-ES",
			Sector:        "ecommerce",
			SourceLocale:  "en-US",
			TargetLocales: []string{"es-ES"},
			Content: "Welcome to our store!\n" +
				"Ensure all firmware is updated before installation.\n" +
				"Contact support for warranty claims.",
			Client:             "TechCorp Inc",
			Priority:           models.PriorityHigh,
			DueDate:            dueIn(2),
			EstimatedWordCount: 1800,
			Budget:             2450.0,
			Description:        "Localization of installation manual for consumer hardware.",
			AssignedVendorID:   vendors[0].ID.String(),
			ConnectorID:        connectors[1].ID,
			Metadata: map[string]string{
				"reporting_week":    "Week 1",
				"translator":        "carlos.vega",
				"translation_hours": "18",
				"rating":            "4.9",
			},
		},
		{
			Name:          "Legal Document FR-EN",
			Sector:        "legal",
			SourceLocale:  "fr-FR",
			TargetLocales: []string{"en-US"},
			Content: "Cette clause couvre l'indemnisation des partenaires.\n" +
				"La mise à jour de conformité doit être signée avant le 30 juin.",
			Client:             "Legal Services Co",
			Priority:           models.PriorityCritical,
			DueDate:            dueIn(1),
			EstimatedWordCount: 2300,
			Budget:             3200.0,
			Description:        "Contract localization for cross-border compliance.",
			AssignedVendorID:   vendors[1].ID.String(),
			ConnectorID:        connectors[3].ID,
			Metadata: map[string]string{
				"reporting_week":    "Week 2",
				"translator":        "amelie.leroy",
				"translation_hours": "24",
				"rating":            "4.8",
			},
		},
		{
			Name:          "Marketing Copy EN-DE",
			Sector:        "ecommerce",
			SourceLocale:  "en-US",
			TargetLocales: []string{"de-DE"},
			Content: "Flash sale ends tonight!\n" +
				"Secure payment portal with express checkout.",
			Client:             "Global Marketing",
			Priority:           models.PriorityMedium,
			DueDate:            dueIn(4),
			EstimatedWordCount: 950,
			Budget:             1280.0,
			Description:        "Homepage hero and campaign banners for EU region.",
			AssignedVendorID:   vendors[0].ID.String(),
			ConnectorID:        connectors[1].ID,
			Metadata: map[string]string{
				"reporting_week":    "Week 3",
				"translator":        "hannah.mueller",
				"translation_hours": "9",
				"rating":            "4.7",
			},
		},
		{
			Name:          "Website Content ES-EN",
			Sector:        "bfsi",
			SourceLocale:  "es-ES",
			TargetLocales: []string{"en-US"},
			Content: "La actualización de seguridad entra en vigor hoy.\n" +
				"Los clientes deben confirmar su número de cuenta.",
			Client:             "Banca Segura",
			Priority:           models.PriorityHigh,
			DueDate:            dueIn(3),
			EstimatedWordCount: 1600,
			Budget:             2100.0,
			Description:        "Customer portal update for security procedures.",
			AssignedVendorID:   vendors[0].ID.String(),
			ConnectorID:        connectors[2].ID,
			Metadata: map[string]string{
				"reporting_week":    "Week 4",
				"translator":        "marco.rivera",
				"translation_hours": "15",
				"rating":            "4.6",
			},
		},
	}

	jobs := make([]models.Job, 0, len(payloads))
	for _, payload := range payloads {
		jobs = append(jobs, projectService.CreateProject(ctx, payload))
	}

	// Move every demo job past intake so dashboards show work in flight.
	for i := range jobs {
		job := &jobs[i]
		if len(job.Workflow) > 0 {
			job.Workflow[0].Status = workflow.StepCompleted
			if len(job.Workflow) > 1 {
				job.Workflow[1].Status = workflow.StepInProgress
			}
		}
		job.Status = workflow.Status(job.Workflow)

		// One segment per job carries a sample post edit.
		if len(job.Segments) > 0 {
			job.Segments[0].PostEdit = job.Segments[0].NMTSuggestion + " (reviewed)"
		}
		job.Progress = projects.RecalculateProgress(job)
		job.LastUpdated = time.Now().UTC()
		store.UpdateJob(*job)
	}

	store.RecordActivityMessage("project", "New project from Client #23 – due in 3 days.")
	store.RecordActivityMessage("finance", "Payment received: $1,250 for 'Marketing Copy'.")
	store.RecordActivityMessage("workflow", "Translator review completed for 'Legal Document'.")

	store.SetTimeTracking(
		map[string]float64{"translation": 102.0, "review": 36.0, "communication": 18.0},
		[]models.TimeTrackingPoint{
			{Label: "Mon", Hours: 5.2},
			{Label: "Tue", Hours: 6.0},
			{Label: "Wed", Hours: 4.8},
			{Label: "Thu", Hours: 5.5},
			{Label: "Fri", Hours: 5.9},
			{Label: "Sat", Hours: 2.4},
			{Label: "Sun", Hours: 1.5},
		},
	)

	store.MarkSeeded()
	logger.Info("Seeded demo data",
		zap.Int("connectors", len(connectors)),
		zap.Int("vendors", len(vendors)),
		zap.Int("projects", len(jobs)))
}
