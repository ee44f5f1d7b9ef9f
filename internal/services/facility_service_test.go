package services

import (
	"io"
	"sort"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viaflight/layover-planner/internal/database"
	"github.com/viaflight/layover-planner/internal/models"
)

const facilityServiceSeed = `
INSERT INTO airports (code, name, has_wifi) VALUES ('SIN', 'Singapore Changi Airport', 1);

INSERT INTO rest_areas (airport_code, category, rest_name, description, location, open_time, close_time)
VALUES ('SIN', 'lounge', 'SkyLounge', 'Quiet lounge with showers', 'Terminal 1', '0', '24');

INSERT INTO rest_areas (airport_code, category, rest_name, description, location, open_time, close_time)
VALUES ('SIN', 'lounge', 'Blossom Lounge', 'Premium lounge', 'Terminal 4', '6', '23');

INSERT INTO meals (airport_code, category, meal_name, description, location, open_time, close_time)
VALUES ('SIN', 'cafe', 'Kaya Toast House', 'Traditional coffee and kaya toast', 'Terminal 2', '6', '23');

INSERT INTO meals (airport_code, category, meal_name, description, location, open_time, close_time)
VALUES ('SIN', 'cafe', 'Midnight Beans', 'Specialty coffee bar', 'Terminal 1', '23', '1');

INSERT INTO shopping (airport_code, category, shop_name, description, location, open_time, close_time)
VALUES ('SIN', 'shopping', 'Changi Duty Free', 'Liquor and chocolate', 'Terminal 3', '0', '24');
`

func newTestFacilityService(t *testing.T) *FacilityService {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store := database.NewFacilityStore(":memory:", "unused.sql", logger)
	require.NoError(t, store.InitializeFromDump(facilityServiceSeed))
	t.Cleanup(func() { store.Close() })

	return NewFacilityService(store, logger)
}

func atClock(hour, minute int) func() time.Time {
	return func() time.Time {
		return time.Date(2026, 8, 25, hour, minute, 0, 0, time.UTC)
	}
}

func TestListCategories(t *testing.T) {
	svc := newTestFacilityService(t)

	descriptors := svc.ListCategories("SIN")
	require.Len(t, descriptors, 3, "categories without facilities are dropped")

	// catalog order is preserved
	assert.Equal(t, models.CategoryLounge, descriptors[0].ID)
	assert.Equal(t, 2, descriptors[0].Count)
	assert.Equal(t, models.CategoryCafe, descriptors[1].ID)
	assert.Equal(t, 2, descriptors[1].Count)
	assert.Equal(t, models.CategoryShopping, descriptors[2].ID)
	assert.Equal(t, 1, descriptors[2].Count)
}

func TestListByCategory(t *testing.T) {
	svc := newTestFacilityService(t)

	t.Run("Operating Filter", func(t *testing.T) {
		svc.now = atClock(3, 0)

		open := svc.ListByCategory("SIN", models.CategoryLounge, ListOptions{})
		require.Len(t, open, 1, "only the 24-hour lounge is open at 03:00")
		assert.Equal(t, "SkyLounge", open[0].Name)

		all := svc.ListByCategory("SIN", models.CategoryLounge, ListOptions{IncludeClosed: true})
		assert.Len(t, all, 2)
	})

	t.Run("Name Sort", func(t *testing.T) {
		svc.now = atClock(12, 0)

		facilities := svc.ListByCategory("SIN", models.CategoryLounge, ListOptions{SortBy: "name"})
		require.Len(t, facilities, 2)
		names := make([]string, len(facilities))
		for i, f := range facilities {
			names[i] = f.Name
		}
		assert.True(t, sort.StringsAreSorted(names))
	})

	t.Run("Sorts By Name When Unspecified", func(t *testing.T) {
		svc.now = atClock(12, 0)

		// seed order is SkyLounge first; the default ordering flips them
		facilities := svc.ListByCategory("SIN", models.CategoryLounge, ListOptions{IncludeClosed: true})
		require.Len(t, facilities, 2)
		assert.Equal(t, "Blossom Lounge", facilities[0].Name)
		assert.Equal(t, "SkyLounge", facilities[1].Name)
	})

	t.Run("Term Filter", func(t *testing.T) {
		svc.now = atClock(12, 0)

		facilities := svc.ListByCategory("SIN", models.CategoryCafe, ListOptions{SearchTerm: "toast"})
		require.Len(t, facilities, 1)
		assert.Equal(t, "Kaya Toast House", facilities[0].Name)
	})

	t.Run("Limit", func(t *testing.T) {
		svc.now = atClock(12, 0)

		facilities := svc.ListByCategory("SIN", models.CategoryLounge, ListOptions{IncludeClosed: true, Limit: 1})
		assert.Len(t, facilities, 1)
	})

	t.Run("Unknown Airport", func(t *testing.T) {
		facilities := svc.ListByCategory("ZZZ", models.CategoryLounge, ListOptions{IncludeClosed: true})
		assert.Empty(t, facilities)
	})
}

func TestSearch(t *testing.T) {
	svc := newTestFacilityService(t)
	svc.now = atClock(12, 0)

	t.Run("Across Categories", func(t *testing.T) {
		facilities := svc.Search("SIN", "coffee", SearchOptions{IncludeClosed: true})
		require.Len(t, facilities, 2)
	})

	t.Run("Category Allow List", func(t *testing.T) {
		facilities := svc.Search("SIN", "lounge", SearchOptions{
			Categories:    []models.Category{models.CategoryShopping},
			IncludeClosed: true,
		})
		assert.Empty(t, facilities)

		facilities = svc.Search("SIN", "lounge", SearchOptions{
			Categories:    []models.Category{models.CategoryLounge},
			IncludeClosed: true,
		})
		assert.Len(t, facilities, 2)
	})

	t.Run("Operating Filter", func(t *testing.T) {
		svc.now = atClock(0, 30)
		defer func() { svc.now = atClock(12, 0) }()

		// at 00:30 only the midnight-crossing cafe serves coffee
		facilities := svc.Search("SIN", "coffee", SearchOptions{})
		require.Len(t, facilities, 1)
		assert.Equal(t, "Midnight Beans", facilities[0].Name)
	})
}

func TestListByOperatingWindow(t *testing.T) {
	svc := newTestFacilityService(t)

	t.Run("Invalid Clock", func(t *testing.T) {
		_, err := svc.ListByOperatingWindow("SIN", "abc", "12")
		assert.Error(t, err)

		_, err = svc.ListByOperatingWindow("SIN", "10", "xyz")
		assert.Error(t, err)
	})

	t.Run("Window Overlap", func(t *testing.T) {
		// late-night window: 24h facilities and the midnight cafe match
		facilities, err := svc.ListByOperatingWindow("SIN", "23.5", "0.5")
		require.NoError(t, err)

		names := make(map[string]bool)
		for _, f := range facilities {
			names[f.Name] = true
		}
		assert.True(t, names["SkyLounge"])
		assert.True(t, names["Changi Duty Free"])
		assert.True(t, names["Midnight Beans"])
		assert.False(t, names["Blossom Lounge"])
		assert.False(t, names["Kaya Toast House"])
	})

	t.Run("Daytime Window", func(t *testing.T) {
		facilities, err := svc.ListByOperatingWindow("SIN", "10", "12")
		require.NoError(t, err)

		names := make(map[string]bool)
		for _, f := range facilities {
			names[f.Name] = true
		}
		assert.True(t, names["Blossom Lounge"])
		assert.True(t, names["Kaya Toast House"])
		assert.False(t, names["Midnight Beans"])
	})
}

func TestAirportInfo(t *testing.T) {
	svc := newTestFacilityService(t)

	airport, err := svc.AirportInfo("SIN")
	require.NoError(t, err)
	require.NotNil(t, airport)
	assert.Equal(t, "Singapore Changi Airport", airport.Name)

	missing, err := svc.AirportInfo("ZZZ")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
