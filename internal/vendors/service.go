// Package vendors tracks registered language service providers
package vendors

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/richxcame/localeflow/internal/models"
	"github.com/richxcame/localeflow/internal/state"
)

// RegisterVendorInput describes a new language service provider
type RegisterVendorInput struct {
	Name         string
	Sectors      []string
	Locales      []string
	Rating       float64
	ContactEmail string
}

// Service manages the vendor directory
type Service struct {
	store *state.Store
}

// NewService creates the vendor service
func NewService(store *state.Store) *Service {
	return &Service{store: store}
}

// Register adds a vendor to the directory
func (s *Service) Register(input RegisterVendorInput) models.Vendor {
	vendor := models.Vendor{
		ID:           uuid.New(),
		Name:         input.Name,
		Sectors:      input.Sectors,
		Locales:      input.Locales,
		Rating:       input.Rating,
		ContactEmail: input.ContactEmail,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}
	s.store.AddVendor(vendor)
	return vendor
}

// List returns all vendors sorted by name
func (s *Service) List() []models.Vendor {
	vendors := s.store.ListVendors()
	sort.Slice(vendors, func(i, j int) bool {
		return vendors[i].Name < vendors[j].Name
	})
	return vendors
}
