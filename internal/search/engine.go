package search

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"contacts-crm/internal/models"
)

// Store provides the per-filter id lookups and the paged contact fetch
type Store interface {
	ContactIDsByGroups(ctx context.Context, groupIDs []int64) ([]int64, error)
	ContactIDsByName(ctx context.Context, query string) ([]int64, error)
	ContactIDsByPhone(ctx context.Context, fragment string) ([]int64, error)
	ContactIDsByEmail(ctx context.Context, fragment string) ([]int64, error)
	ListContacts(ctx context.Context, ids []int64, skip, limit int) ([]models.Contact, error)
}

// Engine runs multi-criteria contact searches
type Engine struct {
	store Store
	log   zerolog.Logger
}

// NewEngine creates a search Engine
func NewEngine(store Store, log zerolog.Logger) *Engine {
	return &Engine{
		store: store,
		log:   log.With().Str("component", "ContactSearch").Logger(),
	}
}

type filter struct {
	name  string
	value string
	ids   func(ctx context.Context) ([]int64, error)
}

// activeFilters returns a lookup for every filter the request sets
func (e *Engine) activeFilters(req models.SearchRequest) []filter {
	var filters []filter

	groups := append(append([]int64{}, req.CellGroups...), req.ChurchLocations...)
	if len(groups) > 0 {
		filters = append(filters, filter{name: "groups", ids: func(ctx context.Context) ([]int64, error) {
			return e.store.ContactIDsByGroups(ctx, groups)
		}})
	}
	if q := strings.TrimSpace(req.Query); q != "" {
		filters = append(filters, filter{name: "query", value: q, ids: func(ctx context.Context) ([]int64, error) {
			return e.store.ContactIDsByName(ctx, q)
		}})
	}
	if req.Phone != "" {
		filters = append(filters, filter{name: "phone", value: req.Phone, ids: func(ctx context.Context) ([]int64, error) {
			return e.store.ContactIDsByPhone(ctx, req.Phone)
		}})
	}
	if email := strings.ToLower(strings.TrimSpace(req.Email)); email != "" {
		filters = append(filters, filter{name: "email", value: email, ids: func(ctx context.Context) ([]int64, error) {
			return e.store.ContactIDsByEmail(ctx, email)
		}})
	}
	return filters
}

// Search returns the summaries of contacts matching every filter set in req.
// Any failure is logged and yields an empty list.
func (e *Engine) Search(ctx context.Context, req models.SearchRequest) []models.ContactSummary {
	filters := e.activeFilters(req)

	results := make([][]int64, 0, len(filters))
	for _, f := range filters {
		ids, err := f.ids(ctx)
		if err != nil {
			e.log.Error().Err(err).Str("filter", f.name).Msg("Search filter failed")
			return []models.ContactSummary{}
		}
		e.log.Debug().Str("filter", f.name).Str("value", f.value).Int("matches", len(ids)).Msg("Applied search filter")
		results = append(results, ids)
	}

	// nil means unrestricted
	var restrict []int64
	if len(results) > 0 {
		restrict = Intersect(results...)
		if len(restrict) == 0 {
			return []models.ContactSummary{}
		}
	}

	contacts, err := e.store.ListContacts(ctx, restrict, req.Skip, req.Limit)
	if err != nil {
		e.log.Error().Err(err).Msg("Failed to fetch contacts")
		return []models.ContactSummary{}
	}

	summaries := make([]models.ContactSummary, 0, len(contacts))
	for i := range contacts {
		summaries = append(summaries, models.Summarize(&contacts[i]))
	}
	return summaries
}

// Intersect folds the id sets with set intersection, seeded by the first one.
// The result is deduplicated, sorted and never nil.
func Intersect(sets ...[]int64) []int64 {
	if len(sets) == 0 {
		return []int64{}
	}

	acc := toSet(sets[0])
	for _, s := range sets[1:] {
		acc = intersect(acc, toSet(s))
	}

	ids := make([]int64, 0, len(acc))
	for id := range acc {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func toSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func intersect(a, b map[int64]struct{}) map[int64]struct{} {
	if len(b) < len(a) {
		a, b = b, a
	}
	out := make(map[int64]struct{}, len(a))
	for id := range a {
		if _, ok := b[id]; ok {
			out[id] = struct{}{}
		}
	}
	return out
}
