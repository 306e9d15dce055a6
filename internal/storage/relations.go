package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"contacts-crm/internal/models"
)

// loadRelations fills the owned records of c. The summary set (full == false) covers
// what search projections need: profile, emails, phones and memberships with groups.
func (s *Store) loadRelations(ctx context.Context, c *models.Contact, full bool) error {
	var err error
	if c.Person, err = s.loadPerson(ctx, c.ID); err != nil {
		return err
	}
	if c.Company, err = s.loadCompany(ctx, c.ID); err != nil {
		return err
	}
	if c.Emails, err = s.loadEmails(ctx, c.ID); err != nil {
		return err
	}
	if c.Phones, err = s.loadPhones(ctx, c.ID); err != nil {
		return err
	}
	if c.GroupMemberships, err = s.loadMemberships(ctx, c.ID); err != nil {
		return err
	}
	if !full {
		return nil
	}
	if c.Addresses, err = s.loadAddresses(ctx, c.ID); err != nil {
		return err
	}
	if c.GroupMembershipRequests, err = s.loadRequests(ctx, c.ID); err != nil {
		return err
	}
	if c.Identifications, err = s.loadIdentifications(ctx, c.ID); err != nil {
		return err
	}
	if c.Occasions, err = s.loadOccasions(ctx, c.ID); err != nil {
		return err
	}
	return nil
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func (s *Store) loadPerson(ctx context.Context, contactID int64) (*models.Person, error) {
	var p models.Person
	var dob sql.NullTime
	err := s.db.QueryRowContext(ctx, `SELECT id, contact_id, salutation, first_name, middle_name, last_name,
		date_of_birth, gender, civil_status, age_group, place_of_work, avatar
		FROM persons WHERE contact_id = ?`, contactID).
		Scan(&p.ID, &p.ContactID, &p.Salutation, &p.FirstName, &p.MiddleName, &p.LastName,
			&dob, &p.Gender, &p.CivilStatus, &p.AgeGroup, &p.PlaceOfWork, &p.Avatar)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.DateOfBirth = timePtr(dob)
	return &p, nil
}

func (s *Store) loadCompany(ctx context.Context, contactID int64) (*models.Company, error) {
	var c models.Company
	err := s.db.QueryRowContext(ctx, `SELECT id, contact_id, name FROM companies WHERE contact_id = ?`, contactID).
		Scan(&c.ID, &c.ContactID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) loadPhones(ctx context.Context, contactID int64) ([]models.Phone, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, contact_id, category, is_primary, value FROM phones WHERE contact_id = ? ORDER BY id`, contactID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	phones := make([]models.Phone, 0)
	for rows.Next() {
		var p models.Phone
		var category string
		if err := rows.Scan(&p.ID, &p.ContactID, &category, &p.IsPrimary, &p.Value); err != nil {
			return nil, err
		}
		p.Category = models.PhoneCategory(category)
		phones = append(phones, p)
	}
	return phones, rows.Err()
}

func (s *Store) loadEmails(ctx context.Context, contactID int64) ([]models.Email, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, contact_id, category, is_primary, value FROM emails WHERE contact_id = ? ORDER BY id`, contactID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	emails := make([]models.Email, 0)
	for rows.Next() {
		var e models.Email
		var category string
		if err := rows.Scan(&e.ID, &e.ContactID, &category, &e.IsPrimary, &e.Value); err != nil {
			return nil, err
		}
		e.Category = models.EmailCategory(category)
		emails = append(emails, e)
	}
	return emails, rows.Err()
}

func (s *Store) loadAddresses(ctx context.Context, contactID int64) ([]models.Address, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, contact_id, category, is_primary, country, district,
		county, free_form, place_id, latitude, longitude
		FROM addresses WHERE contact_id = ? ORDER BY id`, contactID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	addresses := make([]models.Address, 0)
	for rows.Next() {
		var a models.Address
		var category string
		var lat, lng sql.NullFloat64
		if err := rows.Scan(&a.ID, &a.ContactID, &category, &a.IsPrimary, &a.Country, &a.District,
			&a.County, &a.FreeForm, &a.PlaceID, &lat, &lng); err != nil {
			return nil, err
		}
		a.Category = models.AddressCategory(category)
		if lat.Valid {
			a.Latitude = &lat.Float64
		}
		if lng.Valid {
			a.Longitude = &lng.Float64
		}
		addresses = append(addresses, a)
	}
	return addresses, rows.Err()
}

func (s *Store) loadMemberships(ctx context.Context, contactID int64) ([]models.GroupMembership, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT m.id, m.contact_id, m.group_id, m.role,
		g.id, g.name, g.parent_id, g.category_id, g.privacy, g.details, g.latitude, g.longitude, g.meta_data
		FROM group_memberships m JOIN contact_groups g ON g.id = m.group_id
		WHERE m.contact_id = ? ORDER BY m.id`, contactID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	memberships := make([]models.GroupMembership, 0)
	for rows.Next() {
		var m models.GroupMembership
		var role string
		g, dest := groupScanTarget()
		if err := rows.Scan(append([]any{&m.ID, &m.ContactID, &m.GroupID, &role}, dest...)...); err != nil {
			return nil, err
		}
		m.Role = models.GroupRole(role)
		m.Group = g.finish()
		memberships = append(memberships, m)
	}
	return memberships, rows.Err()
}

func (s *Store) loadRequests(ctx context.Context, contactID int64) ([]models.GroupMembershipRequest, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, contact_id, parent_id, group_id, distance_km, created_at
		FROM group_membership_requests WHERE contact_id = ? ORDER BY id`, contactID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]models.GroupMembershipRequest, 0)
	for rows.Next() {
		var r models.GroupMembershipRequest
		var parentID sql.NullInt64
		if err := rows.Scan(&r.ID, &r.ContactID, &parentID, &r.GroupID, &r.DistanceKm, &r.CreatedAt); err != nil {
			return nil, err
		}
		if parentID.Valid {
			r.ParentID = &parentID.Int64
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

func (s *Store) loadIdentifications(ctx context.Context, contactID int64) ([]models.Identification, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, contact_id, category, value, issue_date, expiry_date
		FROM identifications WHERE contact_id = ? ORDER BY id`, contactID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]models.Identification, 0)
	for rows.Next() {
		var i models.Identification
		var issued, expires sql.NullTime
		if err := rows.Scan(&i.ID, &i.ContactID, &i.Category, &i.Value, &issued, &expires); err != nil {
			return nil, err
		}
		i.IssueDate = timePtr(issued)
		i.ExpiryDate = timePtr(expires)
		ids = append(ids, i)
	}
	return ids, rows.Err()
}

func (s *Store) loadOccasions(ctx context.Context, contactID int64) ([]models.Occasion, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, contact_id, category, value, details
		FROM occasions WHERE contact_id = ? ORDER BY id`, contactID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	occasions := make([]models.Occasion, 0)
	for rows.Next() {
		var o models.Occasion
		var value sql.NullTime
		if err := rows.Scan(&o.ID, &o.ContactID, &o.Category, &value, &o.Details); err != nil {
			return nil, err
		}
		o.Value = timePtr(value)
		occasions = append(occasions, o)
	}
	return occasions, rows.Err()
}
