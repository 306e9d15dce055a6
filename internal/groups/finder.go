package groups

import (
	"context"

	"github.com/rs/zerolog"

	"contacts-crm/internal/geo"
	"contacts-crm/internal/models"
)

// precisionMeters is the rounding step of candidate distances
const precisionMeters = 1

// Store lists the groups sharing a parent scope and category
type Store interface {
	GroupsByParentAndCategory(ctx context.Context, parentID int64, category string) ([]models.Group, error)
}

// Finder resolves the cell group closest to a residence
type Finder struct {
	groups Store
	places geo.Lookup
	log    zerolog.Logger
}

// NewFinder creates a Finder
func NewFinder(groups Store, places geo.Lookup, log zerolog.Logger) *Finder {
	return &Finder{
		groups: groups,
		places: places,
		log:    log.With().Str("component", "GroupFinder").Logger(),
	}
}

// ClosestGroup returns the cell group under scopeID nearest to the place, and false
// when there is no candidate or the lookup fails. Failures are logged, never returned.
func (f *Finder) ClosestGroup(ctx context.Context, placeID string, scopeID int64) (models.ClosestGroup, bool) {
	candidates, err := f.groups.GroupsByParentAndCategory(ctx, scopeID, models.CategoryCellGroup)
	if err != nil {
		f.log.Error().Err(err).Int64("scope_id", scopeID).Msg("Failed to list candidate groups")
		return models.ClosestGroup{}, false
	}
	if len(candidates) == 0 {
		f.log.Warn().Int64("scope_id", scopeID).Msg("There are no groups in the person's vicinity")
		return models.ClosestGroup{}, false
	}

	place, err := f.places.Resolve(ctx, placeID)
	if err != nil {
		f.log.Error().Err(err).Str("place_id", placeID).Msg("Failed to resolve residence")
		return models.ClosestGroup{}, false
	}
	residence := geo.Coordinate{Latitude: place.Latitude, Longitude: place.Longitude}

	best := -1
	var least float64
	for i, g := range candidates {
		if g.Latitude == nil || g.Longitude == nil {
			f.log.Warn().Int64("group_id", g.ID).Str("group_name", g.Name).Msg("Skipping group without a location")
			continue
		}
		d, err := geo.Distance(residence, geo.Coordinate{Latitude: *g.Latitude, Longitude: *g.Longitude}, precisionMeters)
		if err != nil {
			f.log.Error().Err(err).Int64("group_id", g.ID).Str("place_id", placeID).Msg("Failed to measure distance to group")
			return models.ClosestGroup{}, false
		}
		// strict comparison keeps the first candidate on ties
		if best < 0 || d < least {
			best, least = i, d
		}
	}

	if best < 0 {
		f.log.Warn().Int64("scope_id", scopeID).Msg("No group in the person's vicinity has a location")
		return models.ClosestGroup{}, false
	}

	winner := candidates[best]
	f.log.Info().
		Int64("group_id", winner.ID).
		Str("group_name", winner.Name).
		Float64("distance_m", least).
		Msg("Resolved closest group")

	return models.ClosestGroup{
		GroupID:        winner.ID,
		GroupName:      winner.Name,
		GroupMeta:      winner.MetaData,
		ParentID:       scopeID,
		DistanceMeters: least,
	}, true
}
