package services

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/viaflight/layover-planner/internal/database"
	"github.com/viaflight/layover-planner/internal/models"
)

// ScheduleService persists saved trip plans across the remote backend and
// the local fallback store, so saving and loading keeps working offline.
// remote may be nil when no backend is configured; everything then runs
// against the local tier only.
type ScheduleService struct {
	remote *database.ScheduleRepository
	local  *database.LocalStore
	policy FallbackPolicy
	logger *logrus.Logger
	now    func() time.Time
}

// NewScheduleService creates a new schedule service
func NewScheduleService(
	remote *database.ScheduleRepository,
	local *database.LocalStore,
	policy FallbackPolicy,
	logger *logrus.Logger,
) *ScheduleService {
	return &ScheduleService{
		remote: remote,
		local:  local,
		policy: policy,
		logger: logger,
		now:    time.Now,
	}
}

func (s *ScheduleService) remoteEnabled() bool {
	return s.remote != nil && s.policy.PreferRemote
}

// Save stores a schedule, remote-first with transparent local fallback,
// and returns the assigned id
func (s *ScheduleService) Save(ctx context.Context, schedule *models.Schedule) (string, error) {
	if s.remoteEnabled() {
		rctx, cancel := s.policy.remoteContext(ctx)
		err := s.remote.CreateSchedule(rctx, schedule)
		cancel()
		if err == nil {
			if s.policy.MirrorOnWrite {
				if mirrorErr := s.putLocal(schedule); mirrorErr != nil {
					s.logger.WithError(mirrorErr).WithField("schedule_id", schedule.ID).
						Warn("Failed to mirror schedule to local store")
				}
			}
			return schedule.ID, nil
		}
		s.logger.WithError(err).Warn("Remote schedule save failed, falling back to local store")
	}

	schedule.ID = newLocalID()
	schedule.Origin = models.ScheduleOriginLocal
	schedule.CreatedAt = s.now()
	schedule.UpdatedAt = schedule.CreatedAt
	if err := s.putLocal(schedule); err != nil {
		return "", &database.PersistenceError{Op: "save schedule", Err: err}
	}
	return schedule.ID, nil
}

// GetByID loads one schedule, nil when absent in both tiers
func (s *ScheduleService) GetByID(ctx context.Context, id string) (*models.Schedule, error) {
	if s.remoteEnabled() {
		rctx, cancel := s.policy.remoteContext(ctx)
		schedule, err := s.remote.GetScheduleByID(rctx, id)
		cancel()
		switch {
		case err != nil:
			s.logger.WithError(err).Warn("Remote schedule read failed, falling back to local store")
		case schedule == nil && s.policy.FallbackOnEmptyRead:
			// nothing remotely; the local tier may still have it
		case schedule != nil:
			return schedule, nil
		default:
			return nil, nil
		}
	}

	rec, err := s.local.Get(database.CollectionSchedules, id)
	if err != nil {
		return nil, &database.PersistenceError{Op: "get schedule", Err: err}
	}
	if rec == nil {
		return nil, nil
	}
	return decodeSchedule(rec.Payload)
}

// ListByOwner returns a user's schedules newest-first, remote-preferred
func (s *ScheduleService) ListByOwner(ctx context.Context, userID string) ([]models.Schedule, error) {
	if s.remoteEnabled() {
		rctx, cancel := s.policy.remoteContext(ctx)
		schedules, err := s.remote.GetSchedulesByUserID(rctx, userID)
		cancel()
		switch {
		case err != nil:
			s.logger.WithError(err).Warn("Remote schedule listing failed, falling back to local store")
		case len(schedules) == 0 && s.policy.FallbackOnEmptyRead:
			// empty remotely; show whatever was saved locally
		default:
			return schedules, nil
		}
	}

	recs, err := s.local.ListByOwner(database.CollectionSchedules, userID)
	if err != nil {
		return nil, &database.PersistenceError{Op: "list schedules", Err: err}
	}
	schedules := make([]models.Schedule, 0, len(recs))
	for _, rec := range recs {
		schedule, err := decodeSchedule(rec.Payload)
		if err != nil {
			s.logger.WithError(err).WithField("schedule_id", rec.ID).
				Warn("Skipping undecodable local schedule")
			continue
		}
		schedules = append(schedules, *schedule)
	}
	return schedules, nil
}

// Rename changes a schedule's display name. Unlike plain lookups, rename
// requires the schedule to exist; database.ErrNotFound is surfaced when
// neither tier has it.
func (s *ScheduleService) Rename(ctx context.Context, id, newName string) error {
	if s.remoteEnabled() {
		rctx, cancel := s.policy.remoteContext(ctx)
		err := s.remote.UpdateScheduleName(rctx, id, newName)
		cancel()
		if err == nil {
			// keep the mirror in step; the mirror may legitimately miss it
			if mirrorErr := s.renameLocal(id, newName); mirrorErr != nil && !errors.Is(mirrorErr, database.ErrNotFound) {
				s.logger.WithError(mirrorErr).WithField("schedule_id", id).
					Warn("Failed to rename mirrored schedule")
			}
			return nil
		}
		if !errors.Is(err, database.ErrNotFound) {
			s.logger.WithError(err).Warn("Remote schedule rename failed, falling back to local store")
		}
	}

	err := s.renameLocal(id, newName)
	if errors.Is(err, database.ErrNotFound) {
		return database.ErrNotFound
	}
	if err != nil {
		return &database.PersistenceError{Op: "rename schedule", Err: err}
	}
	return nil
}

// Delete removes a schedule from both tiers. Deleting an id that exists
// nowhere succeeds silently; delete is idempotent.
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	remoteOK := false
	if s.remoteEnabled() {
		rctx, cancel := s.policy.remoteContext(ctx)
		err := s.remote.DeleteSchedule(rctx, id)
		cancel()
		if err != nil {
			s.logger.WithError(err).Warn("Remote schedule delete failed, falling back to local store")
		} else {
			remoteOK = true
		}
	}

	if err := s.local.Delete(database.CollectionSchedules, id); err != nil {
		if remoteOK {
			// remote delete stuck; the stale mirror entry is advisory only
			s.logger.WithError(err).WithField("schedule_id", id).
				Warn("Failed to delete mirrored schedule")
			return nil
		}
		return &database.PersistenceError{Op: "delete schedule", Err: err}
	}
	return nil
}

func (s *ScheduleService) putLocal(schedule *models.Schedule) error {
	payload, err := json.Marshal(schedule)
	if err != nil {
		return err
	}
	return s.local.Put(database.CollectionSchedules, database.LocalRecord{
		ID:        schedule.ID,
		OwnerID:   schedule.UserID,
		CreatedAt: schedule.CreatedAt,
		Payload:   payload,
	})
}

func (s *ScheduleService) renameLocal(id, newName string) error {
	return s.local.UpdatePayload(database.CollectionSchedules, id, func(payload []byte) ([]byte, error) {
		schedule, err := decodeSchedule(payload)
		if err != nil {
			return nil, err
		}
		schedule.Name = newName
		schedule.UpdatedAt = s.now()
		return json.Marshal(schedule)
	})
}

func decodeSchedule(payload []byte) (*models.Schedule, error) {
	var schedule models.Schedule
	if err := json.Unmarshal(payload, &schedule); err != nil {
		return nil, err
	}
	return &schedule, nil
}

var localIDCounter uint32

// newLocalID generates a locally-scoped entity id. The storage origin is
// carried by an explicit origin tag, never inferred from the id's shape.
// The counter suffix keeps ids distinct when several entities are created
// within one clock tick.
func newLocalID() string {
	n := atomic.AddUint32(&localIDCounter, 1)
	return strconv.FormatInt(time.Now().UnixNano(), 10) + strconv.FormatUint(uint64(n%1000), 10)
}
