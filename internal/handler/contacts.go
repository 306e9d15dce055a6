package handler

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"contacts-crm/internal/groups"
	"contacts-crm/internal/models"
	"contacts-crm/internal/onboarding"
	"contacts-crm/internal/search"
	"contacts-crm/internal/storage"
)

var ErrNameRequired = errors.New("a person needs a first or last name")

type Config struct {
	// SearchDefaultLimit applies when a search does not ask for a page size
	SearchDefaultLimit int
}

// Contacts is the entry point the CLI uses for contact operations
type Contacts struct {
	store    *storage.Store
	workflow *onboarding.Workflow
	engine   *search.Engine
	finder   *groups.Finder
	config   *Config
	log      zerolog.Logger
}

// NewContacts creates a new Contacts handler
func NewContacts(store *storage.Store, workflow *onboarding.Workflow, engine *search.Engine, finder *groups.Finder, cfg *Config, log zerolog.Logger) *Contacts {
	return &Contacts{
		store:    store,
		workflow: workflow,
		engine:   engine,
		finder:   finder,
		config:   cfg,
		log:      log.With().Str("component", "Contacts").Logger(),
	}
}

// AddPerson onboards a new person
func (h *Contacts) AddPerson(ctx context.Context, req models.CreatePersonRequest) (*models.Contact, error) {
	if req.FirstName == "" && req.LastName == "" {
		return nil, ErrNameRequired
	}
	return h.workflow.CreatePerson(ctx, req)
}

// AddCompany onboards a new company
func (h *Contacts) AddCompany(ctx context.Context, req models.CreateCompanyRequest) (*models.Contact, error) {
	return h.workflow.CreateCompany(ctx, req)
}

// Search returns one page of contact summaries. It never fails; an empty
// result may mean no match or an internal error.
func (h *Contacts) Search(ctx context.Context, req models.SearchRequest) []models.ContactSummary {
	if req.Limit <= 0 {
		req.Limit = h.config.SearchDefaultLimit
	}
	if req.Skip < 0 {
		req.Skip = 0
	}
	return h.engine.Search(ctx, req)
}

// View loads a contact with all its records
func (h *Contacts) View(ctx context.Context, id int64) (*models.Contact, error) {
	c, err := h.store.GetContact(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load contact %d: %w", id, err)
	}
	return c, nil
}

// Delete removes a contact and everything it owns
func (h *Contacts) Delete(ctx context.Context, id int64) error {
	if err := h.store.DeleteContact(ctx, id); err != nil {
		return fmt.Errorf("failed to delete contact %d: %w", id, err)
	}
	h.log.Info().Int64("contact_id", id).Msg("Deleted contact")
	return nil
}

// ClosestGroup finds the cell group under a church location nearest to a place
func (h *Contacts) ClosestGroup(ctx context.Context, placeID string, locationID int64) (models.ClosestGroup, bool) {
	return h.finder.ClosestGroup(ctx, placeID, locationID)
}

// Group loads a single group
func (h *Contacts) Group(ctx context.Context, id int64) (*models.Group, error) {
	return h.store.GetGroup(ctx, id)
}

// CellGroups lists the cell groups of a church location
func (h *Contacts) CellGroups(ctx context.Context, locationID int64) ([]models.Group, error) {
	return h.store.GroupsByParentAndCategory(ctx, locationID, models.CategoryCellGroup)
}
