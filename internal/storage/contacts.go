package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"contacts-crm/internal/models"
)

// SaveContact inserts a contact shell when it has no id yet, or updates its category
func (s *Store) SaveContact(ctx context.Context, c *models.Contact) error {
	if c.ID == 0 {
		if c.CreatedAt.IsZero() {
			c.CreatedAt = time.Now().UTC()
		}
		id, err := s.insert(ctx,
			`INSERT INTO contacts (category, created_at) VALUES (?, ?)`,
			string(c.Category), c.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert contact: %w", err)
		}
		c.ID = id
		return nil
	}

	res, err := s.db.ExecContext(ctx, `UPDATE contacts SET category = ? WHERE id = ?`, string(c.Category), c.ID)
	if err != nil {
		return fmt.Errorf("failed to update contact %d: %w", c.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("contact %d: %w", c.ID, models.ErrNotFound)
	}
	return nil
}

// DeleteContact removes a contact; owned sub-records are cascaded by the database
func (s *Store) DeleteContact(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete contact %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete contact %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("contact %d: %w", id, models.ErrNotFound)
	}
	s.log.Info().Int64("contact_id", id).Msg("Deleted contact")
	return nil
}

// SavePerson attaches a person profile to a contact
func (s *Store) SavePerson(ctx context.Context, contactID int64, p *models.Person) error {
	var dob sql.NullTime
	if p.DateOfBirth != nil {
		dob = sql.NullTime{Time: *p.DateOfBirth, Valid: true}
	}
	id, err := s.insert(ctx, `INSERT INTO persons
		(contact_id, salutation, first_name, middle_name, last_name, date_of_birth,
		 gender, civil_status, age_group, place_of_work, avatar)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		contactID, p.Salutation, p.FirstName, p.MiddleName, p.LastName, dob,
		p.Gender, p.CivilStatus, p.AgeGroup, p.PlaceOfWork, p.Avatar)
	if err != nil {
		return fmt.Errorf("failed to insert person: %w", err)
	}
	p.ID = id
	p.ContactID = contactID
	return nil
}

// SaveCompany attaches a company profile to a contact
func (s *Store) SaveCompany(ctx context.Context, contactID int64, c *models.Company) error {
	id, err := s.insert(ctx, `INSERT INTO companies (contact_id, name) VALUES (?, ?)`, contactID, c.Name)
	if err != nil {
		return fmt.Errorf("failed to insert company: %w", err)
	}
	c.ID = id
	c.ContactID = contactID
	return nil
}

// SavePhones inserts phones owned by contactID and returns them with their ids
func (s *Store) SavePhones(ctx context.Context, contactID int64, phones []models.Phone) ([]models.Phone, error) {
	saved := make([]models.Phone, 0, len(phones))
	for _, p := range phones {
		id, err := s.insert(ctx,
			`INSERT INTO phones (contact_id, category, is_primary, value) VALUES (?, ?, ?, ?)`,
			contactID, string(p.Category), p.IsPrimary, p.Value)
		if err != nil {
			return saved, fmt.Errorf("failed to insert phone: %w", err)
		}
		p.ID, p.ContactID = id, contactID
		saved = append(saved, p)
	}
	return saved, nil
}

// SaveEmails inserts emails owned by contactID and returns them with their ids
func (s *Store) SaveEmails(ctx context.Context, contactID int64, emails []models.Email) ([]models.Email, error) {
	saved := make([]models.Email, 0, len(emails))
	for _, e := range emails {
		id, err := s.insert(ctx,
			`INSERT INTO emails (contact_id, category, is_primary, value) VALUES (?, ?, ?, ?)`,
			contactID, string(e.Category), e.IsPrimary, e.Value)
		if err != nil {
			return saved, fmt.Errorf("failed to insert email: %w", err)
		}
		e.ID, e.ContactID = id, contactID
		saved = append(saved, e)
	}
	return saved, nil
}

// SaveAddresses inserts addresses owned by contactID and returns them with their ids
func (s *Store) SaveAddresses(ctx context.Context, contactID int64, addresses []models.Address) ([]models.Address, error) {
	saved := make([]models.Address, 0, len(addresses))
	for _, a := range addresses {
		id, err := s.insert(ctx, `INSERT INTO addresses
			(contact_id, category, is_primary, country, district, county, free_form, place_id, latitude, longitude)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			contactID, string(a.Category), a.IsPrimary, a.Country, a.District, a.County,
			a.FreeForm, a.PlaceID, nullFloat64(a.Latitude), nullFloat64(a.Longitude))
		if err != nil {
			return saved, fmt.Errorf("failed to insert address: %w", err)
		}
		a.ID, a.ContactID = id, contactID
		saved = append(saved, a)
	}
	return saved, nil
}

// SaveGroupMemberships links contactID to groups
func (s *Store) SaveGroupMemberships(ctx context.Context, contactID int64, memberships []models.GroupMembership) ([]models.GroupMembership, error) {
	saved := make([]models.GroupMembership, 0, len(memberships))
	for _, m := range memberships {
		id, err := s.insert(ctx,
			`INSERT INTO group_memberships (contact_id, group_id, role) VALUES (?, ?, ?)`,
			contactID, m.GroupID, string(m.Role))
		if err != nil {
			return saved, fmt.Errorf("failed to insert group membership: %w", err)
		}
		m.ID, m.ContactID = id, contactID
		saved = append(saved, m)
	}
	return saved, nil
}

// SaveGroupMembershipRequests records pending requests of contactID to join groups
func (s *Store) SaveGroupMembershipRequests(ctx context.Context, contactID int64, requests []models.GroupMembershipRequest) ([]models.GroupMembershipRequest, error) {
	saved := make([]models.GroupMembershipRequest, 0, len(requests))
	for _, r := range requests {
		if r.CreatedAt.IsZero() {
			r.CreatedAt = time.Now().UTC()
		}
		id, err := s.insert(ctx, `INSERT INTO group_membership_requests
			(contact_id, parent_id, group_id, distance_km, created_at) VALUES (?, ?, ?, ?, ?)`,
			contactID, nullInt64(r.ParentID), r.GroupID, r.DistanceKm, r.CreatedAt)
		if err != nil {
			return saved, fmt.Errorf("failed to insert group membership request: %w", err)
		}
		r.ID, r.ContactID = id, contactID
		saved = append(saved, r)
	}
	return saved, nil
}

// GetContact loads a contact with every relation
func (s *Store) GetContact(ctx context.Context, id int64) (*models.Contact, error) {
	var c models.Contact
	var category string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, category, created_at FROM contacts WHERE id = ?`, id).
		Scan(&c.ID, &category, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("contact %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load contact %d: %w", id, err)
	}
	c.Category = models.ContactCategory(category)

	if err := s.loadRelations(ctx, &c, true); err != nil {
		return nil, fmt.Errorf("failed to load relations of contact %d: %w", id, err)
	}
	return &c, nil
}

// ListContacts pages through contacts ordered by id, loading the relations needed
// for summaries. A nil ids slice means no restriction; limit <= 0 means no limit.
func (s *Store) ListContacts(ctx context.Context, ids []int64, skip, limit int) ([]models.Contact, error) {
	if ids != nil && len(ids) == 0 {
		return []models.Contact{}, nil
	}
	if limit <= 0 {
		limit = -1
	}
	if skip < 0 {
		skip = 0
	}

	var query strings.Builder
	query.WriteString(`SELECT id, category, created_at FROM contacts`)
	args := make([]any, 0, len(ids)+2)
	if ids != nil {
		query.WriteString(` WHERE id IN (` + placeholders(len(ids)) + `)`)
		args = append(args, int64Args(ids)...)
	}
	query.WriteString(` ORDER BY id LIMIT ? OFFSET ?`)
	args = append(args, limit, skip)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	contacts := make([]models.Contact, 0)
	for rows.Next() {
		var c models.Contact
		var category string
		if err := rows.Scan(&c.ID, &category, &c.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		c.Category = models.ContactCategory(category)
		contacts = append(contacts, c)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}

	// relations are loaded after the cursor is closed: the pool has a single connection
	for i := range contacts {
		if err := s.loadRelations(ctx, &contacts[i], false); err != nil {
			return nil, fmt.Errorf("failed to load relations of contact %d: %w", contacts[i].ID, err)
		}
	}
	return contacts, nil
}

// ContactIDsByGroups returns the contacts that are members of any of the groups
func (s *Store) ContactIDsByGroups(ctx context.Context, groupIDs []int64) ([]int64, error) {
	if len(groupIDs) == 0 {
		return []int64{}, nil
	}
	return s.queryIDs(ctx,
		`SELECT DISTINCT contact_id FROM group_memberships WHERE group_id IN (`+placeholders(len(groupIDs))+`)`,
		int64Args(groupIDs)...)
}

// ContactIDsByName matches first, middle or last name, case-insensitively
func (s *Store) ContactIDsByName(ctx context.Context, query string) ([]int64, error) {
	pattern := likePattern(strings.ToLower(strings.TrimSpace(query)))
	return s.queryIDs(ctx, `SELECT contact_id FROM persons
		WHERE ulower(first_name) LIKE ? ESCAPE '\'
		   OR ulower(last_name) LIKE ? ESCAPE '\'
		   OR ulower(middle_name) LIKE ? ESCAPE '\'`,
		pattern, pattern, pattern)
}

// ContactIDsByPhone matches phone values containing fragment, case-sensitively
func (s *Store) ContactIDsByPhone(ctx context.Context, fragment string) ([]int64, error) {
	return s.queryIDs(ctx, `SELECT DISTINCT contact_id FROM phones WHERE instr(value, ?) > 0`, fragment)
}

// ContactIDsByEmail matches email values containing fragment, case-insensitively
func (s *Store) ContactIDsByEmail(ctx context.Context, fragment string) ([]int64, error) {
	pattern := likePattern(strings.ToLower(strings.TrimSpace(fragment)))
	return s.queryIDs(ctx, `SELECT DISTINCT contact_id FROM emails WHERE ulower(value) LIKE ? ESCAPE '\'`, pattern)
}
