package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/viaflight/layover-planner/internal/database"
	"github.com/viaflight/layover-planner/internal/models"
	"github.com/viaflight/layover-planner/pkg/openhours"
)

// DefaultSearchLimit caps search results when the caller gives no limit
const DefaultSearchLimit = 20

// FacilityService produces UI-ready facility collections on top of the raw
// FacilityStore: the category catalog with live counts, filtered and sorted
// listings, search, and operating-window filtering. A failed store query
// for a single category contributes zero results; listings degrade, they
// never hard-fail.
type FacilityService struct {
	store  *database.FacilityStore
	logger *logrus.Logger
	now    func() time.Time
}

// NewFacilityService creates a new facility service
func NewFacilityService(store *database.FacilityStore, logger *logrus.Logger) *FacilityService {
	return &FacilityService{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// ListOptions controls ListByCategory output
type ListOptions struct {
	IncludeClosed bool
	SearchTerm    string
	Limit         int    // 0 = unlimited
	SortBy        string // "name" (default), "type", "location"; anything else keeps input order
}

// SearchOptions controls Search output
type SearchOptions struct {
	Categories    []models.Category // empty = all categories
	IncludeClosed bool
	Limit         int // 0 = DefaultSearchLimit
}

// ListCategories returns the category catalog for an airport with live
// facility counts, in catalog order, dropping categories with no matches
func (s *FacilityService) ListCategories(airportCode string) []models.CategoryDescriptor {
	var descriptors []models.CategoryDescriptor
	for _, descriptor := range models.CategoryCatalog {
		category := descriptor.ID
		facilities, err := s.store.QueryFacilities(airportCode, &category)
		if err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"airport":  airportCode,
				"category": category,
			}).Warn("Category count failed, treating as empty")
			continue
		}
		if len(facilities) == 0 {
			continue
		}
		descriptor.Count = len(facilities)
		descriptors = append(descriptors, descriptor)
	}
	return descriptors
}

// ListByCategory returns the airport's facilities in one category,
// optionally filtered by a search term and operating state, sorted, and
// truncated to the limit
func (s *FacilityService) ListByCategory(airportCode string, category models.Category, opts ListOptions) []models.Facility {
	facilities, err := s.store.QueryFacilities(airportCode, &category)
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"airport":  airportCode,
			"category": category,
		}).Warn("Category listing failed, returning empty")
		return nil
	}

	if opts.SearchTerm != "" {
		facilities = filterByTerm(facilities, opts.SearchTerm)
	}
	if !opts.IncludeClosed {
		facilities = s.filterOperating(facilities)
	}

	sortBy := opts.SortBy
	if sortBy == "" {
		sortBy = "name"
	}
	sortFacilities(facilities, sortBy)

	if opts.Limit > 0 && len(facilities) > opts.Limit {
		facilities = facilities[:opts.Limit]
	}
	return facilities
}

// Search finds facilities matching the term across all category tables,
// optionally restricted to a category allow-list
func (s *FacilityService) Search(airportCode, term string, opts SearchOptions) []models.Facility {
	facilities, err := s.store.SearchFacilities(airportCode, term)
	if err != nil {
		s.logger.WithError(err).WithField("airport", airportCode).
			Warn("Facility search failed, returning empty")
		return nil
	}

	if len(opts.Categories) > 0 {
		allowed := make(map[models.Category]bool, len(opts.Categories))
		for _, c := range opts.Categories {
			allowed[c] = true
		}
		kept := facilities[:0]
		for _, f := range facilities {
			if allowed[f.Category] {
				kept = append(kept, f)
			}
		}
		facilities = kept
	}

	if !opts.IncludeClosed {
		facilities = s.filterOperating(facilities)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if len(facilities) > limit {
		facilities = facilities[:limit]
	}
	return facilities
}

// ListByOperatingWindow returns facilities whose operating interval
// overlaps the window [startClock, endClock), both fractional-hour strings.
// 24-hour facilities always match.
func (s *FacilityService) ListByOperatingWindow(airportCode, startClock, endClock string) ([]models.Facility, error) {
	startMin, ok := openhours.ParseClock(startClock)
	if !ok {
		return nil, fmt.Errorf("invalid window start time: %q", startClock)
	}
	endMin, ok := openhours.ParseClock(endClock)
	if !ok {
		return nil, fmt.Errorf("invalid window end time: %q", endClock)
	}

	facilities, err := s.store.QueryFacilities(airportCode, nil)
	if err != nil {
		s.logger.WithError(err).WithField("airport", airportCode).
			Warn("Operating-window listing failed, returning empty")
		return nil, nil
	}

	var matching []models.Facility
	for _, f := range facilities {
		if openhours.Overlaps(f.OpenTime.String, f.CloseTime.String, startMin, endMin) {
			matching = append(matching, f)
		}
	}
	return matching, nil
}

// AirportInfo returns airport metadata, nil when unknown
func (s *FacilityService) AirportInfo(airportCode string) (*models.Airport, error) {
	return s.store.QueryAirportInfo(airportCode)
}

func (s *FacilityService) filterOperating(facilities []models.Facility) []models.Facility {
	at := s.now()
	kept := facilities[:0]
	for _, f := range facilities {
		if s.store.IsOperatingNow(&f, at) {
			kept = append(kept, f)
		}
	}
	return kept
}

func filterByTerm(facilities []models.Facility, term string) []models.Facility {
	needle := strings.ToLower(term)
	kept := facilities[:0]
	for _, f := range facilities {
		if strings.Contains(strings.ToLower(f.Name), needle) ||
			strings.Contains(strings.ToLower(f.Description.String), needle) {
			kept = append(kept, f)
		}
	}
	return kept
}

func sortFacilities(facilities []models.Facility, sortBy string) {
	switch sortBy {
	case "name":
		sort.SliceStable(facilities, func(i, j int) bool {
			return facilities[i].Name < facilities[j].Name
		})
	case "type":
		sort.SliceStable(facilities, func(i, j int) bool {
			return facilities[i].Category < facilities[j].Category
		})
	case "location":
		sort.SliceStable(facilities, func(i, j int) bool {
			return facilities[i].LocationLabel() < facilities[j].LocationLabel()
		})
	}
	// unknown sort keys keep input order
}
