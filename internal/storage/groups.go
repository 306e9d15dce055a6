package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"contacts-crm/internal/models"
)

const groupColumns = `id, name, parent_id, category_id, privacy, details, latitude, longitude, meta_data`

type groupRow struct {
	g        models.Group
	parentID sql.NullInt64
	privacy  string
	lat, lng sql.NullFloat64
}

// groupScanTarget returns a row holder and the Scan destinations matching groupColumns
func groupScanTarget() (*groupRow, []any) {
	r := &groupRow{}
	return r, []any{&r.g.ID, &r.g.Name, &r.parentID, &r.g.CategoryID, &r.privacy,
		&r.g.Details, &r.lat, &r.lng, &r.g.MetaData}
}

func (r *groupRow) finish() *models.Group {
	g := r.g
	g.Privacy = models.GroupPrivacy(r.privacy)
	if r.parentID.Valid {
		id := r.parentID.Int64
		g.ParentID = &id
	}
	if r.lat.Valid && r.lng.Valid {
		lat, lng := r.lat.Float64, r.lng.Float64
		g.Latitude, g.Longitude = &lat, &lng
	}
	return &g
}

// CreateGroup inserts a group and sets its id
func (s *Store) CreateGroup(ctx context.Context, g *models.Group) error {
	id, err := s.insert(ctx, `INSERT INTO contact_groups
		(name, parent_id, category_id, privacy, details, latitude, longitude, meta_data)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		g.Name, nullInt64(g.ParentID), g.CategoryID, string(g.Privacy), g.Details,
		nullFloat64(g.Latitude), nullFloat64(g.Longitude), g.MetaData)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}
	g.ID = id
	s.log.Info().Int64("group_id", id).Str("name", g.Name).Str("category", g.CategoryID).Msg("Created group")
	return nil
}

// GetGroup loads a group by id
func (s *Store) GetGroup(ctx context.Context, id int64) (*models.Group, error) {
	r, dest := groupScanTarget()
	err := s.db.QueryRowContext(ctx, `SELECT `+groupColumns+` FROM contact_groups WHERE id = ?`, id).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("group %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load group %d: %w", id, err)
	}
	return r.finish(), nil
}

// GroupsByParentAndCategory lists the children of parentID with the given category, in id order
func (s *Store) GroupsByParentAndCategory(ctx context.Context, parentID int64, category string) ([]models.Group, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+groupColumns+` FROM contact_groups
		WHERE parent_id = ? AND category_id = ? ORDER BY id`, parentID, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	groups := make([]models.Group, 0)
	for rows.Next() {
		r, dest := groupScanTarget()
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, *r.finish())
	}
	return groups, rows.Err()
}
