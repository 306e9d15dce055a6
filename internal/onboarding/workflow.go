package onboarding

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"contacts-crm/internal/geo"
	"contacts-crm/internal/models"
)

var ErrNotImplemented = errors.New("not yet implemented")

// Store persists contacts, their owned records and new groups
type Store interface {
	SaveContact(ctx context.Context, c *models.Contact) error
	SavePerson(ctx context.Context, contactID int64, p *models.Person) error
	SavePhones(ctx context.Context, contactID int64, phones []models.Phone) ([]models.Phone, error)
	SaveEmails(ctx context.Context, contactID int64, emails []models.Email) ([]models.Email, error)
	SaveAddresses(ctx context.Context, contactID int64, addresses []models.Address) ([]models.Address, error)
	SaveGroupMemberships(ctx context.Context, contactID int64, memberships []models.GroupMembership) ([]models.GroupMembership, error)
	SaveGroupMembershipRequests(ctx context.Context, contactID int64, requests []models.GroupMembershipRequest) ([]models.GroupMembershipRequest, error)
	CreateGroup(ctx context.Context, g *models.Group) error
	GetContact(ctx context.Context, id int64) (*models.Contact, error)
}

// GroupFinder resolves the nearest cell group to a residence
type GroupFinder interface {
	ClosestGroup(ctx context.Context, placeID string, scopeID int64) (models.ClosestGroup, bool)
}

// Notifier delivers a notification
type Notifier interface {
	Send(ctx context.Context, n models.Notification) error
}

// Workflow onboards new contacts
type Workflow struct {
	store    Store
	places   geo.Lookup
	finder   GroupFinder
	notifier Notifier
	log      zerolog.Logger
}

// NewWorkflow creates an onboarding Workflow
func NewWorkflow(store Store, places geo.Lookup, finder GroupFinder, notifier Notifier, log zerolog.Logger) *Workflow {
	return &Workflow{
		store:    store,
		places:   places,
		finder:   finder,
		notifier: notifier,
		log:      log.With().Str("component", "Onboarding").Logger(),
	}
}

// personRecords are the records collected before the contact shell exists
type personRecords struct {
	person       models.Person
	phones       []models.Phone
	emails       []models.Email
	addresses    []models.Address
	memberships  []models.GroupMembership
	requests     []models.GroupMembershipRequest
	notification *models.Notification
}

// CreatePerson creates a person contact with its phone, email, address and group
// records, and returns it fully loaded. Persistence failures are returned as is;
// records written before the failure are not rolled back.
func (w *Workflow) CreatePerson(ctx context.Context, req models.CreatePersonRequest) (*models.Contact, error) {
	rec := personRecords{
		person: models.Person{
			FirstName:   req.FirstName,
			MiddleName:  req.MiddleName,
			LastName:    req.LastName,
			DateOfBirth: req.DateOfBirth,
			Gender:      req.Gender,
			CivilStatus: req.CivilStatus,
			AgeGroup:    req.AgeGroup,
			PlaceOfWork: req.PlaceOfWork,
			Avatar:      AvatarFor(req.Email),
		},
	}

	if phone := strings.TrimSpace(req.Phone); phone != "" {
		rec.phones = append(rec.phones, models.Phone{Category: models.PhoneMobile, IsPrimary: true, Value: phone})
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		rec.emails = append(rec.emails, models.Email{Category: models.EmailPersonal, IsPrimary: true, Value: email})
	}
	if req.Residence != nil {
		rec.addresses = append(rec.addresses, w.residenceAddress(ctx, req.Residence))
	}
	if err := w.assignGroups(ctx, req, &rec); err != nil {
		return nil, err
	}

	contact := models.Contact{Category: models.ContactPerson}
	if err := w.store.SaveContact(ctx, &contact); err != nil {
		return nil, fmt.Errorf("failed to save contact: %w", err)
	}
	id := contact.ID
	if err := w.store.SavePerson(ctx, id, &rec.person); err != nil {
		return nil, fmt.Errorf("failed to save person of contact %d: %w", id, err)
	}
	if _, err := w.store.SavePhones(ctx, id, rec.phones); err != nil {
		return nil, fmt.Errorf("failed to save phones of contact %d: %w", id, err)
	}
	if _, err := w.store.SaveEmails(ctx, id, rec.emails); err != nil {
		return nil, fmt.Errorf("failed to save emails of contact %d: %w", id, err)
	}
	if _, err := w.store.SaveAddresses(ctx, id, rec.addresses); err != nil {
		return nil, fmt.Errorf("failed to save addresses of contact %d: %w", id, err)
	}
	if _, err := w.store.SaveGroupMemberships(ctx, id, rec.memberships); err != nil {
		return nil, fmt.Errorf("failed to save group memberships of contact %d: %w", id, err)
	}
	if _, err := w.store.SaveGroupMembershipRequests(ctx, id, rec.requests); err != nil {
		return nil, fmt.Errorf("failed to save group membership requests of contact %d: %w", id, err)
	}

	if rec.notification != nil {
		if err := w.notifier.Send(ctx, *rec.notification); err != nil {
			w.log.Error().Err(err).Int64("contact_id", id).Str("to", rec.notification.To).Msg("Failed to notify group leader")
		}
	}

	w.log.Info().Int64("contact_id", id).Str("name", rec.person.FullName()).Msg("Created person")
	return w.store.GetContact(ctx, id)
}

// residenceAddress builds the home address, enriched with geocoded fields when the place resolves
func (w *Workflow) residenceAddress(ctx context.Context, residence *models.Residence) models.Address {
	address := models.Address{
		Category:  models.AddressHome,
		IsPrimary: true,
		County:    models.CountyNotAvailable,
		FreeForm:  residence.Description,
		PlaceID:   residence.PlaceID,
	}
	if residence.PlaceID == "" {
		return address
	}

	place, err := w.places.Resolve(ctx, residence.PlaceID)
	if err != nil {
		w.log.Warn().Err(err).Str("place_id", residence.PlaceID).Msg("Failed to geocode residence, keeping free-form address")
		return address
	}
	lat, lng := place.Latitude, place.Longitude
	address.Latitude = &lat
	address.Longitude = &lng
	address.Country = place.Country
	address.District = place.District
	return address
}

// assignGroups decides the memberships, and the join request when the person
// wants a cell group but has none.
func (w *Workflow) assignGroups(ctx context.Context, req models.CreatePersonRequest, rec *personRecords) error {
	if req.ChurchLocationID != nil && *req.ChurchLocationID > 0 {
		rec.memberships = append(rec.memberships, models.GroupMembership{
			GroupID: *req.ChurchLocationID,
			Role:    models.RoleMember,
		})
	}

	if req.InCell {
		if id, ok := req.CellGroup.Existing(); ok {
			rec.memberships = append(rec.memberships, models.GroupMembership{GroupID: id, Role: models.RoleMember})
		} else if name, ok := req.CellGroup.NewName(); ok {
			group := models.Group{
				Name:       name,
				ParentID:   req.ChurchLocationID,
				CategoryID: models.CategoryCellGroup,
				Privacy:    models.GroupPublic,
				Details:    models.DetailsPending,
			}
			if err := w.store.CreateGroup(ctx, &group); err != nil {
				return fmt.Errorf("failed to create cell group %q: %w", name, err)
			}
			rec.memberships = append(rec.memberships, models.GroupMembership{GroupID: group.ID, Role: models.RoleMember})
		}
		return nil
	}

	if req.JoinCell {
		w.requestClosestGroup(ctx, req, rec)
	}
	return nil
}

func (w *Workflow) requestClosestGroup(ctx context.Context, req models.CreatePersonRequest, rec *personRecords) {
	if req.ChurchLocationID == nil || req.Residence == nil || req.Residence.PlaceID == "" {
		w.log.Warn().Msg("Cannot look for a cell group without a church location and a residence place")
		return
	}
	scope := *req.ChurchLocationID

	closest, ok := w.finder.ClosestGroup(ctx, req.Residence.PlaceID, scope)
	if !ok {
		w.log.Warn().Int64("scope_id", scope).Msg("No cell group found for join request")
		return
	}

	rec.requests = append(rec.requests, models.GroupMembershipRequest{
		ParentID:   &scope,
		GroupID:    closest.GroupID,
		DistanceKm: closest.DistanceKm(),
	})

	n, err := leaderNotification(req, closest)
	if err != nil {
		w.log.Warn().Err(err).Int64("group_id", closest.GroupID).Msg("Cannot notify group leader")
		return
	}
	rec.notification = &n
}

// CreateCompany is not supported yet
func (w *Workflow) CreateCompany(ctx context.Context, req models.CreateCompanyRequest) (*models.Contact, error) {
	return nil, ErrNotImplemented
}
