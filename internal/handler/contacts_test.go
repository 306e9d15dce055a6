package handler

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contacts-crm/internal/groups"
	"contacts-crm/internal/models"
	"contacts-crm/internal/onboarding"
	"contacts-crm/internal/search"
	"contacts-crm/internal/storage"
)

type fakeLookup struct {
	place models.Place
}

func (f *fakeLookup) Resolve(_ context.Context, placeID string) (models.Place, error) {
	p := f.place
	p.PlaceID = placeID
	return p, nil
}

func ptr(v float64) *float64 { return &v }

type recordingNotifier struct {
	sent []models.Notification
}

func (r *recordingNotifier) Send(_ context.Context, n models.Notification) error {
	r.sent = append(r.sent, n)
	return nil
}

type env struct {
	contacts *Contacts
	notifier *recordingNotifier
	location models.Group
	near     models.Group
	far      models.Group
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	store, err := storage.Open(ctx, ":memory:", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	e := &env{notifier: &recordingNotifier{}}
	e.location = models.Group{Name: "Kampala Central", CategoryID: models.CategoryLocation, Privacy: models.GroupPublic}
	require.NoError(t, store.CreateGroup(ctx, &e.location))
	e.far = models.Group{
		Name: "Far MC", CategoryID: models.CategoryCellGroup, ParentID: &e.location.ID, Privacy: models.GroupPublic,
		Latitude: ptr(0), Longitude: ptr(1), MetaData: `{"email":"far@example.com","leaders":"Tom"}`,
	}
	require.NoError(t, store.CreateGroup(ctx, &e.far))
	e.near = models.Group{
		Name: "Near MC", CategoryID: models.CategoryCellGroup, ParentID: &e.location.ID, Privacy: models.GroupPublic,
		Latitude: ptr(0), Longitude: ptr(0.5), MetaData: `{"email":"near@example.com","leaders":"Sarah","phone":"256772999999"}`,
	}
	require.NoError(t, store.CreateGroup(ctx, &e.near))

	lookup := &fakeLookup{place: models.Place{Country: "Uganda", District: "Kampala"}}
	finder := groups.NewFinder(store, lookup, zerolog.Nop())
	workflow := onboarding.NewWorkflow(store, lookup, finder, e.notifier, zerolog.Nop())
	engine := search.NewEngine(store, zerolog.Nop())
	e.contacts = NewContacts(store, workflow, engine, finder, &Config{SearchDefaultLimit: 20}, zerolog.Nop())
	return e
}

func TestContacts_OnboardSearchViewDelete(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	created, err := e.contacts.AddPerson(ctx, models.CreatePersonRequest{
		FirstName:        "Grace",
		LastName:         "Nakato",
		Phone:            "0772123456",
		Email:            "grace@example.com",
		Residence:        &models.Residence{Description: "Ntinda, Kampala", PlaceID: "place-1"},
		ChurchLocationID: &e.location.ID,
		JoinCell:         true,
	})
	require.NoError(t, err)

	require.Len(t, created.GroupMembershipRequests, 1)
	assert.Equal(t, e.near.ID, created.GroupMembershipRequests[0].GroupID)
	assert.InDelta(t, 55.66, created.GroupMembershipRequests[0].DistanceKm, 0.001)
	require.Len(t, e.notifier.sent, 1)
	assert.Equal(t, "near@example.com", e.notifier.sent[0].To)

	found := e.contacts.Search(ctx, models.SearchRequest{ChurchLocations: []int64{e.location.ID}, Query: "grace"})
	require.Len(t, found, 1)
	assert.Equal(t, created.ID, found[0].ID)
	assert.Equal(t, "Grace Nakato", found[0].Name)

	viewed, err := e.contacts.View(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, viewed.Addresses, 1)
	assert.Equal(t, "Uganda", viewed.Addresses[0].Country)

	require.NoError(t, e.contacts.Delete(ctx, created.ID))
	_, err = e.contacts.View(ctx, created.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, e.contacts.Delete(ctx, created.ID), models.ErrNotFound)
}

func TestContacts_AddPersonRequiresName(t *testing.T) {
	e := newEnv(t)

	_, err := e.contacts.AddPerson(context.Background(), models.CreatePersonRequest{Email: "x@example.com"})

	assert.ErrorIs(t, err, ErrNameRequired)
	assert.Empty(t, e.contacts.Search(context.Background(), models.SearchRequest{}))
}

func TestContacts_SearchAppliesDefaultPage(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.contacts.config.SearchDefaultLimit = 2
	for _, name := range []string{"Ann", "Ben", "Cleo"} {
		_, err := e.contacts.AddPerson(ctx, models.CreatePersonRequest{FirstName: name})
		require.NoError(t, err)
	}

	assert.Len(t, e.contacts.Search(ctx, models.SearchRequest{}), 2)
	assert.Len(t, e.contacts.Search(ctx, models.SearchRequest{Skip: -4, Limit: 10}), 3)
	assert.Len(t, e.contacts.Search(ctx, models.SearchRequest{Skip: 2}), 1)
}

func TestContacts_ClosestGroupAndCellGroups(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	closest, ok := e.contacts.ClosestGroup(ctx, "place-1", e.location.ID)
	require.True(t, ok)
	assert.Equal(t, "Near MC", closest.GroupName)
	assert.Equal(t, float64(55660), closest.DistanceMeters)

	_, ok = e.contacts.ClosestGroup(ctx, "place-1", e.near.ID)
	assert.False(t, ok, "a cell group has no cell groups of its own")

	location, err := e.contacts.Group(ctx, e.location.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CategoryLocation, location.CategoryID)

	cells, err := e.contacts.CellGroups(ctx, e.location.ID)
	require.NoError(t, err)
	require.Len(t, cells, 2)
	assert.Equal(t, "Far MC", cells[0].Name)
}

func TestContacts_AddCompanyNotImplemented(t *testing.T) {
	e := newEnv(t)

	_, err := e.contacts.AddCompany(context.Background(), models.CreateCompanyRequest{Name: "Acme"})

	assert.ErrorIs(t, err, onboarding.ErrNotImplemented)
}

func TestContacts_NewCellGroupIsNotACandidateUntilLocated(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	parish := models.Group{Name: "Mukono", CategoryID: models.CategoryLocation, Privacy: models.GroupPublic}
	require.NoError(t, e.contacts.store.CreateGroup(ctx, &parish))
	_, err := e.contacts.AddPerson(ctx, models.CreatePersonRequest{
		FirstName:        "Peter",
		ChurchLocationID: &parish.ID,
		InCell:           true,
		CellGroup:        models.NewCellGroup("Home fellowship"),
	})
	require.NoError(t, err)

	cells, err := e.contacts.CellGroups(ctx, parish.ID)
	require.NoError(t, err)
	require.Len(t, cells, 1)
	assert.Nil(t, cells[0].Latitude)
	assert.Nil(t, cells[0].Longitude)

	_, ok := e.contacts.ClosestGroup(ctx, "place-1", parish.ID)
	assert.False(t, ok)

	joiner, err := e.contacts.AddPerson(ctx, models.CreatePersonRequest{
		FirstName:        "Ruth",
		Residence:        &models.Residence{Description: "Mukono town", PlaceID: "place-2"},
		ChurchLocationID: &parish.ID,
		JoinCell:         true,
	})
	require.NoError(t, err)
	assert.Empty(t, joiner.GroupMembershipRequests)
	assert.Empty(t, e.notifier.sent)
}
