package services

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viaflight/layover-planner/internal/database"
	"github.com/viaflight/layover-planner/internal/models"
)

func newTestLocalStore(t *testing.T) *database.LocalStore {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store, err := database.OpenLocalStore(":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func discardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// failingRemote wires a schedule repository to a mock connection with no
// expectations, so every remote call errors
func failingRemote(t *testing.T) *database.ScheduleRepository {
	t.Helper()
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return database.NewScheduleRepository(&database.PostgresDB{DB: sqlx.NewDb(db, "sqlmock")})
}

func TestScheduleServiceLocalOnly(t *testing.T) {
	local := newTestLocalStore(t)
	svc := NewScheduleService(nil, local, DefaultFallbackPolicy(), discardLogger())
	ctx := context.Background()

	t.Run("Save Assigns Local Identity", func(t *testing.T) {
		schedule := &models.Schedule{
			UserID: "u1",
			Name:   "My Trip",
			Plan:   []byte(`{"city":"Singapore"}`),
		}
		id, err := svc.Save(ctx, schedule)
		require.NoError(t, err)
		assert.NotEmpty(t, id)
		assert.Equal(t, models.ScheduleOriginLocal, schedule.Origin)
		assert.False(t, schedule.CreatedAt.IsZero())
	})

	t.Run("Get Round Trip", func(t *testing.T) {
		schedule := &models.Schedule{UserID: "u1", Name: "Weekend Layover"}
		id, err := svc.Save(ctx, schedule)
		require.NoError(t, err)

		got, err := svc.GetByID(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Weekend Layover", got.Name)
		assert.Equal(t, models.ScheduleOriginLocal, got.Origin)
	})

	t.Run("Get Missing", func(t *testing.T) {
		got, err := svc.GetByID(ctx, "does-not-exist")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("List By Owner Newest First", func(t *testing.T) {
		local := newTestLocalStore(t)
		svc := NewScheduleService(nil, local, DefaultFallbackPolicy(), discardLogger())

		base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
		for i, name := range []string{"First", "Second", "Third"} {
			when := base.Add(time.Duration(i) * time.Hour)
			svc.now = func() time.Time { return when }
			_, err := svc.Save(ctx, &models.Schedule{UserID: "u1", Name: name})
			require.NoError(t, err)
		}

		schedules, err := svc.ListByOwner(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, schedules, 3)
		assert.Equal(t, "Third", schedules[0].Name)
		assert.Equal(t, "First", schedules[2].Name)

		none, err := svc.ListByOwner(ctx, "someone-else")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("Rename", func(t *testing.T) {
		schedule := &models.Schedule{UserID: "u1", Name: "Old Name"}
		id, err := svc.Save(ctx, schedule)
		require.NoError(t, err)

		require.NoError(t, svc.Rename(ctx, id, "New Name"))

		got, err := svc.GetByID(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "New Name", got.Name)
	})

	t.Run("Rename Missing", func(t *testing.T) {
		err := svc.Rename(ctx, "does-not-exist", "New Name")
		assert.ErrorIs(t, err, database.ErrNotFound)
	})

	t.Run("Delete Is Idempotent", func(t *testing.T) {
		schedule := &models.Schedule{UserID: "u1", Name: "Doomed"}
		id, err := svc.Save(ctx, schedule)
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, id))
		got, err := svc.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, got)

		// second delete is a silent no-op
		assert.NoError(t, svc.Delete(ctx, id))
	})
}

func TestScheduleServiceRemoteFallback(t *testing.T) {
	ctx := context.Background()

	t.Run("Save Falls Back When Remote Fails", func(t *testing.T) {
		local := newTestLocalStore(t)
		svc := NewScheduleService(failingRemote(t), local, DefaultFallbackPolicy(), discardLogger())

		schedule := &models.Schedule{UserID: "u1", Name: "My Trip"}
		id, err := svc.Save(ctx, schedule)
		require.NoError(t, err)
		assert.NotEmpty(t, id)
		assert.Equal(t, models.ScheduleOriginLocal, schedule.Origin)

		// readable through the local tier
		got, err := svc.GetByID(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "My Trip", got.Name)
	})

	t.Run("Read Falls Back When Remote Fails", func(t *testing.T) {
		local := newTestLocalStore(t)

		localOnly := NewScheduleService(nil, local, DefaultFallbackPolicy(), discardLogger())
		id, err := localOnly.Save(ctx, &models.Schedule{UserID: "u1", Name: "Saved Before Outage"})
		require.NoError(t, err)

		svc := NewScheduleService(failingRemote(t), local, DefaultFallbackPolicy(), discardLogger())
		got, err := svc.GetByID(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Saved Before Outage", got.Name)
	})

	t.Run("Remote Disabled By Policy", func(t *testing.T) {
		local := newTestLocalStore(t)
		policy := DefaultFallbackPolicy()
		policy.PreferRemote = false

		svc := NewScheduleService(failingRemote(t), local, policy, discardLogger())
		schedule := &models.Schedule{UserID: "u1", Name: "Local By Policy"}
		_, err := svc.Save(ctx, schedule)
		require.NoError(t, err)
		assert.Equal(t, models.ScheduleOriginLocal, schedule.Origin)
	})
}

func TestScheduleServiceMirrorOnWrite(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	remote := database.NewScheduleRepository(&database.PostgresDB{DB: sqlx.NewDb(db, "sqlmock")})

	local := newTestLocalStore(t)
	svc := NewScheduleService(remote, local, DefaultFallbackPolicy(), discardLogger())

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO schedules`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	schedule := &models.Schedule{UserID: "u1", Name: "Mirrored Trip"}
	id, err := svc.Save(ctx, schedule)
	require.NoError(t, err)
	assert.Equal(t, models.ScheduleOriginRemote, schedule.Origin)

	// the successful remote write left a copy in the local store
	rec, err := local.Get(database.CollectionSchedules, id)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "u1", rec.OwnerID)

	assert.NoError(t, mock.ExpectationsWereMet())
}
