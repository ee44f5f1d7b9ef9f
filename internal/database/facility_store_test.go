package database

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viaflight/layover-planner/internal/models"
)

const testSeedDump = `
-- test facility data
INSERT INTO airports (code, name, name_local, has_wifi, has_shower, currency_info)
VALUES ('SIN', 'Singapore Changi Airport', 'Changi', 1, 1, 'SGD');

INSERT INTO rest_areas (airport_code, category, rest_name, description, location, open_time, close_time)
VALUES ('SIN', 'lounge', 'SkyLounge', 'Quiet lounge with showers', 'Terminal 1', '0', '24');

INSERT INTO rest_areas (airport_code, category, rest_name, description, location, open_time, close_time)
VALUES ('SIN', 'lounge', 'Blossom Lounge', 'Premium lounge', 'Terminal 4', '6', '23');

INSERT INTO meals (airport_code, category, meal_name, description, location, open_time, close_time)
VALUES ('SIN', 'cafe', 'Kaya Toast House', 'Traditional coffee and kaya toast', 'Terminal 2', '6', '23');

INSERT INTO meals (airport_code, category, meal_name, description, location, open_time, close_time)
VALUES ('SIN', 'meal', 'Hawker Court', 'Laksa and chicken rice', 'Terminal 3', '10', '21.5');

INSERT INTO shopping (airport_code, category, shop_name, description, open_time, close_time)
VALUES ('NRT', 'shopping', 'Akihabara Annex', 'Electronics and character goods', '8', '20');
`

func newTestStore(t *testing.T) *FacilityStore {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store := NewFacilityStore(":memory:", "unused.sql", logger)
	require.NoError(t, store.InitializeFromDump(testSeedDump))
	t.Cleanup(func() { store.Close() })
	return store
}

func TestFacilityStoreInitialize(t *testing.T) {
	t.Run("Missing Seed File", func(t *testing.T) {
		logger := logrus.New()
		logger.SetOutput(io.Discard)

		store := NewFacilityStore(":memory:", "does/not/exist.sql", logger)
		err := store.Initialize()
		require.Error(t, err)
		assert.False(t, store.Ready())

		var initErr *InitializationError
		assert.ErrorAs(t, err, &initErr)
	})

	t.Run("Malformed Statements Are Skipped", func(t *testing.T) {
		logger := logrus.New()
		logger.SetOutput(io.Discard)

		dump := testSeedDump + `
INSERT INTO no_such_table (x) VALUES (1);
THIS IS NOT SQL AT ALL;
`
		store := NewFacilityStore(":memory:", "unused.sql", logger)
		require.NoError(t, store.InitializeFromDump(dump))
		defer store.Close()

		// valid rows still loaded
		lounge := models.CategoryLounge
		facilities, err := store.QueryFacilities("SIN", &lounge)
		require.NoError(t, err)
		assert.Len(t, facilities, 2)
	})

	t.Run("Idempotent", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.InitializeFromDump(testSeedDump))

		lounge := models.CategoryLounge
		facilities, err := store.QueryFacilities("SIN", &lounge)
		require.NoError(t, err)
		assert.Len(t, facilities, 2)
	})
}

func TestQueryFacilities(t *testing.T) {
	store := newTestStore(t)

	t.Run("By Category", func(t *testing.T) {
		lounge := models.CategoryLounge
		facilities, err := store.QueryFacilities("SIN", &lounge)
		require.NoError(t, err)
		require.Len(t, facilities, 2)

		names := []string{facilities[0].Name, facilities[1].Name}
		assert.Contains(t, names, "SkyLounge")
		assert.Contains(t, names, "Blossom Lounge")
		for _, f := range facilities {
			assert.Equal(t, models.TableRestAreas, f.SourceTable)
			assert.Equal(t, models.CategoryLounge, f.Category)
		}
	})

	t.Run("Shared Family Table Splits By Category", func(t *testing.T) {
		cafe := models.CategoryCafe
		cafes, err := store.QueryFacilities("SIN", &cafe)
		require.NoError(t, err)
		require.Len(t, cafes, 1)
		assert.Equal(t, "Kaya Toast House", cafes[0].Name)

		meal := models.CategoryMeal
		meals, err := store.QueryFacilities("SIN", &meal)
		require.NoError(t, err)
		require.Len(t, meals, 1)
		assert.Equal(t, "Hawker Court", meals[0].Name)
	})

	t.Run("All Categories", func(t *testing.T) {
		facilities, err := store.QueryFacilities("SIN", nil)
		require.NoError(t, err)
		assert.Len(t, facilities, 4)
	})

	t.Run("Unknown Airport", func(t *testing.T) {
		facilities, err := store.QueryFacilities("ZZZ", nil)
		require.NoError(t, err)
		assert.Empty(t, facilities)
	})

	t.Run("Airport Filter", func(t *testing.T) {
		shopping := models.CategoryShopping
		facilities, err := store.QueryFacilities("NRT", &shopping)
		require.NoError(t, err)
		require.Len(t, facilities, 1)
		assert.Equal(t, "Akihabara Annex", facilities[0].Name)
	})
}

func TestSearchFacilities(t *testing.T) {
	store := newTestStore(t)

	t.Run("Matches Description", func(t *testing.T) {
		facilities, err := store.SearchFacilities("SIN", "coffee")
		require.NoError(t, err)
		require.Len(t, facilities, 1)
		assert.Equal(t, "Kaya Toast House", facilities[0].Name)
	})

	t.Run("Matches Name Case Insensitive", func(t *testing.T) {
		facilities, err := store.SearchFacilities("SIN", "skylounge")
		require.NoError(t, err)
		require.Len(t, facilities, 1)
		assert.Equal(t, "SkyLounge", facilities[0].Name)
	})

	t.Run("Substring Match Across Tables", func(t *testing.T) {
		facilities, err := store.SearchFacilities("SIN", "lounge")
		require.NoError(t, err)
		assert.Len(t, facilities, 2)
	})

	t.Run("No Match", func(t *testing.T) {
		facilities, err := store.SearchFacilities("SIN", "nonexistent")
		require.NoError(t, err)
		assert.Empty(t, facilities)
	})
}

func TestQueryAirportInfo(t *testing.T) {
	store := newTestStore(t)

	t.Run("Found", func(t *testing.T) {
		airport, err := store.QueryAirportInfo("SIN")
		require.NoError(t, err)
		require.NotNil(t, airport)
		assert.Equal(t, "Singapore Changi Airport", airport.Name)
		assert.True(t, airport.HasWifi)
		assert.True(t, airport.HasShower)
		assert.False(t, airport.HasHotel)
	})

	t.Run("Unknown Code", func(t *testing.T) {
		airport, err := store.QueryAirportInfo("ZZZ")
		require.NoError(t, err)
		assert.Nil(t, airport)
	})
}

func TestIsOperatingNow(t *testing.T) {
	store := newTestStore(t)

	lounge := models.CategoryLounge
	facilities, err := store.QueryFacilities("SIN", &lounge)
	require.NoError(t, err)

	byName := make(map[string]models.Facility)
	for _, f := range facilities {
		byName[f.Name] = f
	}

	threeAM := time.Date(2026, 8, 25, 3, 0, 0, 0, time.UTC)
	noon := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	skyLounge := byName["SkyLounge"]
	assert.True(t, store.IsOperatingNow(&skyLounge, threeAM), "24-hour lounge is always open")

	blossom := byName["Blossom Lounge"]
	assert.False(t, store.IsOperatingNow(&blossom, threeAM))
	assert.True(t, store.IsOperatingNow(&blossom, noon))
}
