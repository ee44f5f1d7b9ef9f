package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"sort"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/viaflight/layover-planner/internal/database"
	"github.com/viaflight/layover-planner/internal/models"
)

// ReviewService persists trip reviews, their per-facility place reviews and
// likes across the remote backend and the local fallback store, with the
// same two-tier policy as schedules. A trip review and its place reviews
// are written together and deleted as a unit.
type ReviewService struct {
	remote *database.ReviewRepository
	local  *database.LocalStore
	policy FallbackPolicy
	logger *logrus.Logger
	now    func() time.Time
}

// NewReviewService creates a new review service
func NewReviewService(
	remote *database.ReviewRepository,
	local *database.LocalStore,
	policy FallbackPolicy,
	logger *logrus.Logger,
) *ReviewService {
	return &ReviewService{
		remote: remote,
		local:  local,
		policy: policy,
		logger: logger,
		now:    time.Now,
	}
}

func (s *ReviewService) remoteEnabled() bool {
	return s.remote != nil && s.policy.PreferRemote
}

// Submit stores a trip review with its place reviews and returns the
// assigned review id
func (s *ReviewService) Submit(ctx context.Context, review *models.TripReview) (string, error) {
	if err := review.Validate(); err != nil {
		return "", err
	}

	if s.remoteEnabled() {
		rctx, cancel := s.policy.remoteContext(ctx)
		err := s.remote.CreateTripReview(rctx, review)
		cancel()
		if err == nil {
			if s.policy.MirrorOnWrite {
				if mirrorErr := s.putLocal(review); mirrorErr != nil {
					s.logger.WithError(mirrorErr).WithField("review_id", review.ID).
						Warn("Failed to mirror trip review to local store")
				}
			}
			return review.ID, nil
		}
		s.logger.WithError(err).Warn("Remote review save failed, falling back to local store")
	}

	review.ID = newLocalID()
	review.CreatedAt = s.now()
	review.UpdatedAt = review.CreatedAt
	for i := range review.PlaceReviews {
		review.PlaceReviews[i].ID = newLocalID()
		review.PlaceReviews[i].TripReviewID = review.ID
		review.PlaceReviews[i].CreatedAt = review.CreatedAt
	}
	if err := s.putLocal(review); err != nil {
		return "", &database.PersistenceError{Op: "save trip review", Err: err}
	}
	return review.ID, nil
}

// GetByID loads one trip review, nil when absent in both tiers
func (s *ReviewService) GetByID(ctx context.Context, id string) (*models.TripReview, error) {
	if s.remoteEnabled() {
		rctx, cancel := s.policy.remoteContext(ctx)
		review, err := s.remote.GetTripReviewByID(rctx, id)
		cancel()
		switch {
		case err != nil:
			s.logger.WithError(err).Warn("Remote review read failed, falling back to local store")
		case review == nil && s.policy.FallbackOnEmptyRead:
			// nothing remotely; the local tier may still have it
		case review != nil:
			return review, nil
		default:
			return nil, nil
		}
	}

	rec, err := s.local.Get(database.CollectionTripReviews, id)
	if err != nil {
		return nil, &database.PersistenceError{Op: "get trip review", Err: err}
	}
	if rec == nil {
		return nil, nil
	}
	return decodeTripReview(rec.Payload)
}

// ListByFacility returns trip reviews that rated the facility, newest-first
func (s *ReviewService) ListByFacility(ctx context.Context, facilityID int64) ([]models.TripReview, error) {
	if s.remoteEnabled() {
		rctx, cancel := s.policy.remoteContext(ctx)
		reviews, err := s.remote.GetTripReviewsByFacility(rctx, facilityID)
		cancel()
		switch {
		case err != nil:
			s.logger.WithError(err).Warn("Remote review listing failed, falling back to local store")
		case len(reviews) == 0 && s.policy.FallbackOnEmptyRead:
			// empty remotely; show whatever was saved locally
		default:
			return reviews, nil
		}
	}

	// place review records carry the facility id as their owner column,
	// which doubles as the local secondary index for this query
	recs, err := s.local.ListByOwner(database.CollectionPlaceReviews, strconv.FormatInt(facilityID, 10))
	if err != nil {
		return nil, &database.PersistenceError{Op: "list trip reviews by facility", Err: err}
	}

	seen := make(map[string]bool)
	var reviews []models.TripReview
	for _, rec := range recs {
		if seen[rec.ParentID] {
			continue
		}
		seen[rec.ParentID] = true
		parent, err := s.local.Get(database.CollectionTripReviews, rec.ParentID)
		if err != nil || parent == nil {
			continue
		}
		review, err := decodeTripReview(parent.Payload)
		if err != nil {
			s.logger.WithError(err).WithField("review_id", rec.ParentID).
				Warn("Skipping undecodable local trip review")
			continue
		}
		reviews = append(reviews, *review)
	}
	sortReviewsNewestFirst(reviews)
	return reviews, nil
}

// ListByCity returns trip reviews for a layover city, newest-first
func (s *ReviewService) ListByCity(ctx context.Context, city string) ([]models.TripReview, error) {
	if s.remoteEnabled() {
		rctx, cancel := s.policy.remoteContext(ctx)
		reviews, err := s.remote.GetTripReviewsByCity(rctx, city)
		cancel()
		switch {
		case err != nil:
			s.logger.WithError(err).Warn("Remote review listing failed, falling back to local store")
		case len(reviews) == 0 && s.policy.FallbackOnEmptyRead:
			// empty remotely; show whatever was saved locally
		default:
			return reviews, nil
		}
	}

	recs, err := s.local.ListByOwner(database.CollectionTripReviews, city)
	if err != nil {
		return nil, &database.PersistenceError{Op: "list trip reviews by city", Err: err}
	}
	reviews := make([]models.TripReview, 0, len(recs))
	for _, rec := range recs {
		review, err := decodeTripReview(rec.Payload)
		if err != nil {
			s.logger.WithError(err).WithField("review_id", rec.ID).
				Warn("Skipping undecodable local trip review")
			continue
		}
		reviews = append(reviews, *review)
	}
	return reviews, nil
}

// Delete removes a trip review and everything hanging off it: place
// reviews and likes go with their parent. Idempotent.
func (s *ReviewService) Delete(ctx context.Context, id string) error {
	remoteOK := false
	if s.remoteEnabled() {
		rctx, cancel := s.policy.remoteContext(ctx)
		err := s.remote.DeleteTripReview(rctx, id)
		cancel()
		if err != nil {
			s.logger.WithError(err).Warn("Remote review delete failed, falling back to local store")
		} else {
			remoteOK = true
		}
	}

	if err := s.deleteLocal(id); err != nil {
		if remoteOK {
			s.logger.WithError(err).WithField("review_id", id).
				Warn("Failed to delete mirrored trip review")
			return nil
		}
		return &database.PersistenceError{Op: "delete trip review", Err: err}
	}
	return nil
}

// Like records a like on a trip review; userID may be nil for anonymous
// likes
func (s *ReviewService) Like(ctx context.Context, reviewID string, userID *string) (*models.ReviewLike, error) {
	like := &models.ReviewLike{TripReviewID: reviewID}
	if userID != nil {
		like.UserID = sql.NullString{String: *userID, Valid: true}
	}

	if s.remoteEnabled() {
		rctx, cancel := s.policy.remoteContext(ctx)
		err := s.remote.CreateLike(rctx, like)
		cancel()
		if err == nil {
			if s.policy.MirrorOnWrite {
				if mirrorErr := s.putLocalLike(like); mirrorErr != nil {
					s.logger.WithError(mirrorErr).WithField("like_id", like.ID).
						Warn("Failed to mirror review like to local store")
				}
			}
			return like, nil
		}
		s.logger.WithError(err).Warn("Remote like failed, falling back to local store")
	}

	like.ID = newLocalID()
	like.CreatedAt = s.now()
	if err := s.putLocalLike(like); err != nil {
		return nil, &database.PersistenceError{Op: "save review like", Err: err}
	}
	return like, nil
}

// Unlike removes a like from both tiers; idempotent
func (s *ReviewService) Unlike(ctx context.Context, likeID string) error {
	remoteOK := false
	if s.remoteEnabled() {
		rctx, cancel := s.policy.remoteContext(ctx)
		err := s.remote.DeleteLike(rctx, likeID)
		cancel()
		if err != nil {
			s.logger.WithError(err).Warn("Remote unlike failed, falling back to local store")
		} else {
			remoteOK = true
		}
	}

	if err := s.local.Delete(database.CollectionReviewLikes, likeID); err != nil {
		if remoteOK {
			s.logger.WithError(err).WithField("like_id", likeID).
				Warn("Failed to delete mirrored review like")
			return nil
		}
		return &database.PersistenceError{Op: "delete review like", Err: err}
	}
	return nil
}

// ListLikes returns the likes on a trip review
func (s *ReviewService) ListLikes(ctx context.Context, reviewID string) ([]models.ReviewLike, error) {
	if s.remoteEnabled() {
		rctx, cancel := s.policy.remoteContext(ctx)
		likes, err := s.remote.GetLikesByReview(rctx, reviewID)
		cancel()
		switch {
		case err != nil:
			s.logger.WithError(err).Warn("Remote like listing failed, falling back to local store")
		case len(likes) == 0 && s.policy.FallbackOnEmptyRead:
			// empty remotely; check the local tier
		default:
			return likes, nil
		}
	}

	recs, err := s.local.ListByParent(database.CollectionReviewLikes, reviewID)
	if err != nil {
		return nil, &database.PersistenceError{Op: "list review likes", Err: err}
	}
	likes := make([]models.ReviewLike, 0, len(recs))
	for _, rec := range recs {
		var like models.ReviewLike
		if err := json.Unmarshal(rec.Payload, &like); err != nil {
			continue
		}
		likes = append(likes, like)
	}
	return likes, nil
}

func (s *ReviewService) putLocal(review *models.TripReview) error {
	payload, err := json.Marshal(review)
	if err != nil {
		return err
	}
	// the trip review record is keyed by city so local city listings can
	// use the owner index
	if err := s.local.Put(database.CollectionTripReviews, database.LocalRecord{
		ID:        review.ID,
		OwnerID:   review.City,
		CreatedAt: review.CreatedAt,
		Payload:   payload,
	}); err != nil {
		return err
	}

	for i := range review.PlaceReviews {
		place := &review.PlaceReviews[i]
		placePayload, err := json.Marshal(place)
		if err != nil {
			return err
		}
		if err := s.local.Put(database.CollectionPlaceReviews, database.LocalRecord{
			ID:        place.ID,
			OwnerID:   strconv.FormatInt(place.FacilityID, 10),
			ParentID:  review.ID,
			CreatedAt: place.CreatedAt,
			Payload:   placePayload,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *ReviewService) putLocalLike(like *models.ReviewLike) error {
	payload, err := json.Marshal(like)
	if err != nil {
		return err
	}
	owner := ""
	if like.UserID.Valid {
		owner = like.UserID.String
	}
	return s.local.Put(database.CollectionReviewLikes, database.LocalRecord{
		ID:        like.ID,
		OwnerID:   owner,
		ParentID:  like.TripReviewID,
		CreatedAt: like.CreatedAt,
		Payload:   payload,
	})
}

func (s *ReviewService) deleteLocal(id string) error {
	if err := s.local.DeleteByParent(database.CollectionReviewLikes, id); err != nil {
		return err
	}
	if err := s.local.DeleteByParent(database.CollectionPlaceReviews, id); err != nil {
		return err
	}
	return s.local.Delete(database.CollectionTripReviews, id)
}

func decodeTripReview(payload []byte) (*models.TripReview, error) {
	var review models.TripReview
	if err := json.Unmarshal(payload, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

func sortReviewsNewestFirst(reviews []models.TripReview) {
	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})
}
