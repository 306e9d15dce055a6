package models

import (
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned by the store when a record does not exist
var ErrNotFound = errors.New("record not found")

// ContactCategory tells whether a contact is a person or a company
type ContactCategory string

const (
	ContactPerson  ContactCategory = "Person"
	ContactCompany ContactCategory = "Company"
)

// PhoneCategory classifies a phone number
type PhoneCategory string

const (
	PhoneMobile PhoneCategory = "Mobile"
	PhoneOffice PhoneCategory = "Office"
	PhoneHome   PhoneCategory = "Home"
	PhoneFax    PhoneCategory = "Fax"
	PhoneOther  PhoneCategory = "Other"
)

// EmailCategory classifies an email address
type EmailCategory string

const (
	EmailPersonal EmailCategory = "Personal"
	EmailWork     EmailCategory = "Work"
	EmailOther    EmailCategory = "Other"
)

// AddressCategory classifies an address
type AddressCategory string

const (
	AddressHome  AddressCategory = "Home"
	AddressWork  AddressCategory = "Work"
	AddressOther AddressCategory = "Other"
)

// CountyNotAvailable is stored on addresses whose county is unknown
const CountyNotAvailable = "-NA-"

// Contact is the root record owning a person or company profile and its sub-records
type Contact struct {
	ID                      int64                    `json:"id"`
	Category                ContactCategory          `json:"category"`
	CreatedAt               time.Time                `json:"created_at"`
	Person                  *Person                  `json:"person,omitempty"`
	Company                 *Company                 `json:"company,omitempty"`
	Phones                  []Phone                  `json:"phones"`
	Emails                  []Email                  `json:"emails"`
	Addresses               []Address                `json:"addresses"`
	GroupMemberships        []GroupMembership        `json:"group_memberships"`
	GroupMembershipRequests []GroupMembershipRequest `json:"group_membership_requests"`
	Identifications         []Identification         `json:"identifications"`
	Occasions               []Occasion               `json:"occasions"`
}

// Person is the profile of a person-category contact
type Person struct {
	ID          int64      `json:"id"`
	ContactID   int64      `json:"contact_id"`
	Salutation  string     `json:"salutation,omitempty"`
	FirstName   string     `json:"first_name"`
	MiddleName  string     `json:"middle_name,omitempty"`
	LastName    string     `json:"last_name"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Gender      string     `json:"gender,omitempty"`
	CivilStatus string     `json:"civil_status,omitempty"`
	AgeGroup    string     `json:"age_group,omitempty"`
	PlaceOfWork string     `json:"place_of_work,omitempty"`
	Avatar      string     `json:"avatar,omitempty"`
}

// FullName joins the non-empty name parts with single spaces
func (p *Person) FullName() string {
	if p == nil {
		return ""
	}
	parts := make([]string, 0, 3)
	for _, n := range []string{p.FirstName, p.MiddleName, p.LastName} {
		if n = strings.TrimSpace(n); n != "" {
			parts = append(parts, n)
		}
	}
	return strings.Join(parts, " ")
}

// Company is the profile of a company-category contact
type Company struct {
	ID        int64  `json:"id"`
	ContactID int64  `json:"contact_id"`
	Name      string `json:"name"`
}

// Phone is a phone number owned by a contact
type Phone struct {
	ID        int64         `json:"id"`
	ContactID int64         `json:"contact_id"`
	Category  PhoneCategory `json:"category"`
	IsPrimary bool          `json:"is_primary"`
	Value     string        `json:"value"`
}

// Email is an email address owned by a contact
type Email struct {
	ID        int64         `json:"id"`
	ContactID int64         `json:"contact_id"`
	Category  EmailCategory `json:"category"`
	IsPrimary bool          `json:"is_primary"`
	Value     string        `json:"value"`
}

// Address is a postal location, optionally enriched with geocoded coordinates
type Address struct {
	ID        int64           `json:"id"`
	ContactID int64           `json:"contact_id"`
	Category  AddressCategory `json:"category"`
	IsPrimary bool            `json:"is_primary"`
	Country   string          `json:"country,omitempty"`
	District  string          `json:"district,omitempty"`
	County    string          `json:"county,omitempty"`
	FreeForm  string          `json:"free_form,omitempty"`
	PlaceID   string          `json:"place_id,omitempty"`
	Latitude  *float64        `json:"latitude,omitempty"`
	Longitude *float64        `json:"longitude,omitempty"`
}

// Identification is an identity document number held by a contact
type Identification struct {
	ID         int64      `json:"id"`
	ContactID  int64      `json:"contact_id"`
	Category   string     `json:"category"`
	Value      string     `json:"value"`
	IssueDate  *time.Time `json:"issue_date,omitempty"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
}

// Occasion is a dated event in a contact's life (birthday, anniversary...)
type Occasion struct {
	ID        int64      `json:"id"`
	ContactID int64      `json:"contact_id"`
	Category  string     `json:"category"`
	Value     *time.Time `json:"value,omitempty"`
	Details   string     `json:"details,omitempty"`
}

// PrimaryEmail returns the primary email value, falling back to the first one
func (c *Contact) PrimaryEmail() string {
	for _, e := range c.Emails {
		if e.IsPrimary {
			return e.Value
		}
	}
	if len(c.Emails) > 0 {
		return c.Emails[0].Value
	}
	return ""
}

// PrimaryPhone returns the primary phone value, falling back to the first one
func (c *Contact) PrimaryPhone() string {
	for _, p := range c.Phones {
		if p.IsPrimary {
			return p.Value
		}
	}
	if len(c.Phones) > 0 {
		return c.Phones[0].Value
	}
	return ""
}

// DisplayName is the person's full name or the company name
func (c *Contact) DisplayName() string {
	if c.Person != nil {
		return c.Person.FullName()
	}
	if c.Company != nil {
		return c.Company.Name
	}
	return ""
}

// GroupOfCategory returns the group of the first membership whose group has the given category
func (c *Contact) GroupOfCategory(category string) *Group {
	for _, m := range c.GroupMemberships {
		if m.Group != nil && m.Group.CategoryID == category {
			return m.Group
		}
	}
	return nil
}
