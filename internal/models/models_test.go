package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCellGroupChoice(t *testing.T) {
	c := ParseCellGroupChoice(" 42 ")
	id, ok := c.Existing()
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)
	_, isNew := c.NewName()
	assert.False(t, isNew)

	c = ParseCellGroupChoice("Kisaasi MC")
	name, ok := c.NewName()
	assert.True(t, ok)
	assert.Equal(t, "Kisaasi MC", name)
	_, isExisting := c.Existing()
	assert.False(t, isExisting)

	assert.True(t, ParseCellGroupChoice("   ").IsNone())
	assert.True(t, CellGroupChoice{}.IsNone())

	// numeric input is never a group name, even when it is not a valid id
	for _, raw := range []string{"0", "-3", " -0 "} {
		c := ParseCellGroupChoice(raw)
		assert.True(t, c.IsNone(), raw)
		_, isNew := c.NewName()
		assert.False(t, isNew, raw)
	}
}

func TestParseGroupLeader(t *testing.T) {
	leader, err := ParseGroupLeader(`{"email":"leader@example.com","leaders":"Jane & John","phone":"256700000001"}`)
	require.NoError(t, err)
	assert.Equal(t, "leader@example.com", leader.Email)
	assert.Equal(t, "Jane & John", leader.Name)
	assert.Equal(t, "256700000001", leader.Phone)

	_, err = ParseGroupLeader("")
	assert.Error(t, err)

	_, err = ParseGroupLeader("not json")
	assert.Error(t, err)

	_, err = ParseGroupLeader(`{"leaders":"nobody"}`)
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	dob := time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)
	c := &Contact{
		ID:       7,
		Category: ContactPerson,
		Person: &Person{
			FirstName:   "Ada",
			MiddleName:  " ",
			LastName:    "Lovelace",
			Avatar:      "https://avatar/1",
			AgeGroup:    "Adult",
			DateOfBirth: &dob,
		},
		Emails: []Email{
			{Value: "work@example.com"},
			{Value: "ada@example.com", IsPrimary: true},
		},
		Phones: []Phone{{Value: "0700000000"}},
		GroupMemberships: []GroupMembership{
			{GroupID: 1, Group: &Group{ID: 1, Name: "Kampala", CategoryID: CategoryLocation}},
			{GroupID: 2, Group: &Group{ID: 2, Name: "Ntinda MC", CategoryID: CategoryCellGroup}},
		},
	}

	s := Summarize(c)
	assert.Equal(t, int64(7), s.ID)
	assert.Equal(t, "Ada Lovelace", s.Name)
	assert.Equal(t, "ada@example.com", s.Email)
	assert.Equal(t, "0700000000", s.Phone)
	assert.Equal(t, "Adult", s.AgeGroup)
	assert.Equal(t, &dob, s.DateOfBirth)
	require.NotNil(t, s.CellGroup)
	assert.Equal(t, GroupRef{ID: 2, Name: "Ntinda MC"}, *s.CellGroup)
	require.NotNil(t, s.Location)
	assert.Equal(t, GroupRef{ID: 1, Name: "Kampala"}, *s.Location)
}

func TestSummarize_CompanyWithoutRelations(t *testing.T) {
	s := Summarize(&Contact{ID: 3, Category: ContactCompany, Company: &Company{Name: "Acme"}})
	assert.Equal(t, "Acme", s.Name)
	assert.Empty(t, s.Email)
	assert.Empty(t, s.Phone)
	assert.Nil(t, s.CellGroup)
	assert.Nil(t, s.Location)
}

func TestClosestGroupDistanceKm(t *testing.T) {
	assert.InDelta(t, 55.66, ClosestGroup{DistanceMeters: 55660}.DistanceKm(), 1e-9)
}
