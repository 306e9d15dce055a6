package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	// CategoryCellGroup marks missional communities (cell groups)
	CategoryCellGroup = "MC"
	// CategoryLocation marks church locations, the parent scope of cell groups
	CategoryLocation = "Location"

	// DetailsPending is the placeholder details of groups created during onboarding
	DetailsPending = "--pending--"
)

// GroupPrivacy controls who may see a group
type GroupPrivacy string

const (
	GroupPrivate GroupPrivacy = "Private"
	GroupPublic  GroupPrivacy = "Public"
)

// GroupRole is a contact's role within a group
type GroupRole string

const (
	RoleLeader GroupRole = "Leader"
	RoleMember GroupRole = "Member"
)

// Group is a church location, a cell group or any other grouping of contacts
type Group struct {
	ID         int64        `json:"id"`
	Name       string       `json:"name"`
	ParentID   *int64       `json:"parent_id,omitempty"`
	CategoryID string       `json:"category_id"`
	Privacy    GroupPrivacy `json:"privacy"`
	Details    string       `json:"details,omitempty"`
	Latitude   *float64     `json:"latitude,omitempty"`
	Longitude  *float64     `json:"longitude,omitempty"`
	MetaData   string       `json:"meta_data,omitempty"`
}

// GroupLeader is the leader contact info kept in a group's metadata blob
type GroupLeader struct {
	Email string `json:"email"`
	Name  string `json:"leaders"`
	Phone string `json:"phone,omitempty"`
}

// ParseGroupLeader decodes the leader contact info from a group's metadata blob.
// The blob is serialized JSON until leader fields get their own columns.
func ParseGroupLeader(meta string) (GroupLeader, error) {
	var leader GroupLeader
	if strings.TrimSpace(meta) == "" {
		return leader, fmt.Errorf("group metadata is empty")
	}
	if err := json.Unmarshal([]byte(meta), &leader); err != nil {
		return leader, fmt.Errorf("failed to decode group metadata: %w", err)
	}
	if leader.Email == "" && leader.Phone == "" {
		return leader, fmt.Errorf("group metadata has no leader contact")
	}
	return leader, nil
}

// Leader returns the group's leader as recorded in its metadata
func (g *Group) Leader() (GroupLeader, error) {
	return ParseGroupLeader(g.MetaData)
}

// GroupMembership links a contact to a group it belongs to
type GroupMembership struct {
	ID        int64     `json:"id"`
	ContactID int64     `json:"contact_id"`
	GroupID   int64     `json:"group_id"`
	Role      GroupRole `json:"role"`
	Group     *Group    `json:"group,omitempty"`
}

// GroupMembershipRequest is a pending, unconfirmed intent to join a group.
// DistanceKm is measured at creation time and never recomputed.
type GroupMembershipRequest struct {
	ID         int64     `json:"id"`
	ContactID  int64     `json:"contact_id"`
	ParentID   *int64    `json:"parent_id,omitempty"`
	GroupID    int64     `json:"group_id"`
	DistanceKm float64   `json:"distance_km"`
	CreatedAt  time.Time `json:"created_at"`
}

// ClosestGroup is the outcome of a nearest cell group resolution
type ClosestGroup struct {
	GroupID        int64   `json:"group_id"`
	GroupName      string  `json:"group_name"`
	GroupMeta      string  `json:"group_meta"`
	ParentID       int64   `json:"parent_id"`
	DistanceMeters float64 `json:"distance"`
}

// DistanceKm converts the winning distance to kilometers
func (c ClosestGroup) DistanceKm() float64 {
	return c.DistanceMeters / 1000
}

// Place is a geocoded place identifier
type Place struct {
	PlaceID   string  `json:"place_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Country   string  `json:"country"`
	District  string  `json:"district"`
}

// Notification is an outbound message to a contact, delivered by email and/or WhatsApp
type Notification struct {
	To       string
	Phone    string
	Subject  string
	HTMLBody string
	Text     string
}
