package search

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contacts-crm/internal/models"
	"contacts-crm/internal/storage"
)

type fakeStore struct {
	byGroups []int64
	byName   []int64
	byPhone  []int64
	byEmail  []int64
	failOn   string

	gotGroups []int64
	gotName   string
	gotPhone  string
	gotEmail  string

	listed    bool
	listIDs   []int64
	listSkip  int
	listLimit int
	listErr   error
}

func (f *fakeStore) lookup(name string, ids []int64) ([]int64, error) {
	if f.failOn == name {
		return nil, errors.New(name + " lookup failed")
	}
	return ids, nil
}

func (f *fakeStore) ContactIDsByGroups(_ context.Context, groupIDs []int64) ([]int64, error) {
	f.gotGroups = groupIDs
	return f.lookup("groups", f.byGroups)
}

func (f *fakeStore) ContactIDsByName(_ context.Context, query string) ([]int64, error) {
	f.gotName = query
	return f.lookup("query", f.byName)
}

func (f *fakeStore) ContactIDsByPhone(_ context.Context, fragment string) ([]int64, error) {
	f.gotPhone = fragment
	return f.lookup("phone", f.byPhone)
}

func (f *fakeStore) ContactIDsByEmail(_ context.Context, fragment string) ([]int64, error) {
	f.gotEmail = fragment
	return f.lookup("email", f.byEmail)
}

func (f *fakeStore) ListContacts(_ context.Context, ids []int64, skip, limit int) ([]models.Contact, error) {
	f.listed = true
	f.listIDs, f.listSkip, f.listLimit = ids, skip, limit
	if f.listErr != nil {
		return nil, f.listErr
	}
	if ids == nil {
		ids = []int64{1, 2, 3}
	}
	contacts := make([]models.Contact, 0, len(ids))
	for _, id := range ids {
		contacts = append(contacts, models.Contact{ID: id, Person: &models.Person{FirstName: "P"}})
	}
	return contacts, nil
}

func summaryIDs(s []models.ContactSummary) []int64 {
	ids := make([]int64, 0, len(s))
	for _, c := range s {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestSearch_IntersectsAllActiveFilters(t *testing.T) {
	store := &fakeStore{
		byGroups: []int64{1, 2, 3, 4},
		byName:   []int64{2, 3, 4, 9},
		byPhone:  []int64{3, 4, 2},
		byEmail:  []int64{4, 3, 8},
	}

	got := NewEngine(store, zerolog.Nop()).Search(context.Background(), models.SearchRequest{
		CellGroups:      []int64{10},
		ChurchLocations: []int64{20},
		Query:           "  ada ",
		Phone:           " 0772",
		Email:           "  ADA@Example.COM ",
		Skip:            5,
		Limit:           15,
	})

	assert.Equal(t, []int64{3, 4}, summaryIDs(got))
	assert.Equal(t, []int64{3, 4}, store.listIDs)
	assert.Equal(t, 5, store.listSkip)
	assert.Equal(t, 15, store.listLimit)
	assert.Equal(t, []int64{10, 20}, store.gotGroups)
	assert.Equal(t, "ada", store.gotName)
	assert.Equal(t, " 0772", store.gotPhone, "phone filter is passed through untouched")
	assert.Equal(t, "ada@example.com", store.gotEmail)
}

func TestSearch_EmptyIntersectionShortCircuits(t *testing.T) {
	store := &fakeStore{
		byName:  []int64{1, 2},
		byPhone: []int64{3},
	}

	got := NewEngine(store, zerolog.Nop()).Search(context.Background(), models.SearchRequest{Query: "a", Phone: "07"})

	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.False(t, store.listed, "must not fall through to an unfiltered fetch")
}

func TestSearch_SingleFilterWithNoMatches(t *testing.T) {
	store := &fakeStore{byEmail: []int64{}}

	got := NewEngine(store, zerolog.Nop()).Search(context.Background(), models.SearchRequest{Email: "nobody@"})

	assert.Empty(t, got)
	assert.False(t, store.listed)
}

func TestSearch_NoFiltersIsUnrestricted(t *testing.T) {
	store := &fakeStore{}

	got := NewEngine(store, zerolog.Nop()).Search(context.Background(), models.SearchRequest{
		Query: "   ",
		Email: "  ",
		Limit: 2,
	})

	require.True(t, store.listed)
	assert.Nil(t, store.listIDs)
	assert.Equal(t, 2, store.listLimit)
	assert.Equal(t, []int64{1, 2, 3}, summaryIDs(got))
}

func TestSearch_FailuresDegradeToEmpty(t *testing.T) {
	for _, name := range []string{"groups", "query", "phone", "email"} {
		t.Run(name, func(t *testing.T) {
			store := &fakeStore{
				byGroups: []int64{1}, byName: []int64{1}, byPhone: []int64{1}, byEmail: []int64{1},
				failOn: name,
			}
			got := NewEngine(store, zerolog.Nop()).Search(context.Background(), models.SearchRequest{
				CellGroups: []int64{1}, Query: "a", Phone: "1", Email: "e",
			})
			assert.NotNil(t, got)
			assert.Empty(t, got)
			assert.False(t, store.listed)
		})
	}

	t.Run("fetch", func(t *testing.T) {
		store := &fakeStore{listErr: errors.New("no such table: contacts")}
		got := NewEngine(store, zerolog.Nop()).Search(context.Background(), models.SearchRequest{})
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestIntersect(t *testing.T) {
	a := []int64{1, 2, 3, 4, 5}
	b := []int64{5, 4, 3, 9}
	c := []int64{3, 5, 7, 3}

	want := []int64{3, 5}
	assert.Equal(t, want, Intersect(a, b, c))
	assert.Equal(t, want, Intersect(c, a, b))
	assert.Equal(t, want, Intersect(b, c, a))

	assert.Empty(t, Intersect(a, []int64{}))
	assert.Equal(t, []int64{1, 2}, Intersect([]int64{2, 1, 2}))
	assert.NotNil(t, Intersect())
	assert.Empty(t, Intersect())
}

func TestSearch_AgainstSQLite(t *testing.T) {
	ctx := context.Background()
	s, err := storage.Open(ctx, ":memory:", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	location := models.Group{Name: "Kampala Central", CategoryID: models.CategoryLocation, Privacy: models.GroupPublic}
	require.NoError(t, s.CreateGroup(ctx, &location))
	cell := models.Group{Name: "Ntinda MC", CategoryID: models.CategoryCellGroup, ParentID: &location.ID, Privacy: models.GroupPublic}
	require.NoError(t, s.CreateGroup(ctx, &cell))

	add := func(first, last, phone, email string, groups ...int64) int64 {
		c := models.Contact{Category: models.ContactPerson}
		require.NoError(t, s.SaveContact(ctx, &c))
		require.NoError(t, s.SavePerson(ctx, c.ID, &models.Person{FirstName: first, LastName: last}))
		_, err := s.SavePhones(ctx, c.ID, []models.Phone{{Category: models.PhoneMobile, IsPrimary: true, Value: phone}})
		require.NoError(t, err)
		_, err = s.SaveEmails(ctx, c.ID, []models.Email{{Category: models.EmailPersonal, IsPrimary: true, Value: email}})
		require.NoError(t, err)
		for _, g := range groups {
			_, err := s.SaveGroupMemberships(ctx, c.ID, []models.GroupMembership{{GroupID: g, Role: models.RoleMember}})
			require.NoError(t, err)
		}
		return c.ID
	}
	ada := add("Ada", "Lovelace", "0772000001", "ada@example.com", location.ID, cell.ID)
	add("Adam", "Smith", "0701000002", "adam@example.com", location.ID)
	add("Carol", "King", "0772000003", "carol@work.org")

	engine := NewEngine(s, zerolog.Nop())
	got := engine.Search(ctx, models.SearchRequest{
		ChurchLocations: []int64{location.ID},
		Query:           "ADA",
		Phone:           "0772",
	})

	require.Len(t, got, 1)
	assert.Equal(t, ada, got[0].ID)
	assert.Equal(t, "Ada Lovelace", got[0].Name)
	assert.Equal(t, "ada@example.com", got[0].Email)
	assert.Equal(t, "0772000001", got[0].Phone)
	require.NotNil(t, got[0].CellGroup)
	assert.Equal(t, "Ntinda MC", got[0].CellGroup.Name)
	require.NotNil(t, got[0].Location)
	assert.Equal(t, "Kampala Central", got[0].Location.Name)

	assert.Len(t, engine.Search(ctx, models.SearchRequest{}), 3)
	assert.Empty(t, engine.Search(ctx, models.SearchRequest{Query: "ada", Email: "work.org"}))
}
