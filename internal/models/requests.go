package models

import (
	"strconv"
	"strings"
	"time"
)

// SearchRequest holds the independent contact search filters and paging
type SearchRequest struct {
	CellGroups      []int64
	ChurchLocations []int64
	Query           string
	Phone           string
	Email           string
	Skip            int
	Limit           int
}

// GroupRef is the compact id/name pair of a group
type GroupRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ContactSummary is the compact projection of a contact returned by search
type ContactSummary struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Avatar      string     `json:"avatar,omitempty"`
	AgeGroup    string     `json:"age_group,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Email       string     `json:"email,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	CellGroup   *GroupRef  `json:"cell_group"`
	Location    *GroupRef  `json:"location"`
}

// Summarize projects a loaded contact into its search summary
func Summarize(c *Contact) ContactSummary {
	s := ContactSummary{
		ID:    c.ID,
		Name:  c.DisplayName(),
		Email: c.PrimaryEmail(),
		Phone: c.PrimaryPhone(),
	}
	if c.Person != nil {
		s.Avatar = c.Person.Avatar
		s.AgeGroup = c.Person.AgeGroup
		s.DateOfBirth = c.Person.DateOfBirth
	}
	if g := c.GroupOfCategory(CategoryCellGroup); g != nil {
		s.CellGroup = &GroupRef{ID: g.ID, Name: g.Name}
	}
	if g := c.GroupOfCategory(CategoryLocation); g != nil {
		s.Location = &GroupRef{ID: g.ID, Name: g.Name}
	}
	return s
}

// Residence is a free-form place description with an optional geocoding place id
type Residence struct {
	Description string `json:"description"`
	PlaceID     string `json:"place_id,omitempty"`
}

type cellGroupKind int

const (
	cellGroupNone cellGroupKind = iota
	cellGroupExisting
	cellGroupNew
)

// CellGroupChoice says which cell group a person already attends: an existing group
// referenced by id, a new group known only by name, or none at all.
type CellGroupChoice struct {
	kind cellGroupKind
	id   int64
	name string
}

// ExistingCellGroup references a cell group that is already recorded
func ExistingCellGroup(id int64) CellGroupChoice {
	return CellGroupChoice{kind: cellGroupExisting, id: id}
}

// NewCellGroup names a cell group that must be created
func NewCellGroup(name string) CellGroupChoice {
	return CellGroupChoice{kind: cellGroupNew, name: strings.TrimSpace(name)}
}

// Existing returns the referenced group id, if any
func (c CellGroupChoice) Existing() (int64, bool) {
	return c.id, c.kind == cellGroupExisting
}

// NewName returns the name of the group to create, if any
func (c CellGroupChoice) NewName() (string, bool) {
	return c.name, c.kind == cellGroupNew && c.name != ""
}

// IsNone reports whether no cell group was given
func (c CellGroupChoice) IsNone() bool {
	return c.kind == cellGroupNone
}

// ParseCellGroupChoice interprets raw user input: a positive integer references an
// existing group, any other integer is no choice, and non-numeric text names a new group.
func ParseCellGroupChoice(raw string) CellGroupChoice {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return CellGroupChoice{}
	}
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if id > 0 {
			return ExistingCellGroup(id)
		}
		return CellGroupChoice{}
	}
	return NewCellGroup(raw)
}

// CreatePersonRequest carries everything needed to onboard a new person
type CreatePersonRequest struct {
	FirstName        string
	MiddleName       string
	LastName         string
	DateOfBirth      *time.Time
	Gender           string
	CivilStatus      string
	AgeGroup         string
	PlaceOfWork      string
	Phone            string
	Email            string
	Residence        *Residence
	ChurchLocationID *int64
	InCell           bool
	JoinCell         bool
	CellGroup        CellGroupChoice
}

// CreateCompanyRequest carries the fields of a new company contact
type CreateCompanyRequest struct {
	Name  string
	Phone string
	Email string
}
