package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/viaflight/layover-planner/internal/models"
)

// ReviewRepository handles remote-backend operations for trip reviews,
// their place reviews and likes
type ReviewRepository struct {
	db RemoteDB
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db RemoteDB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// CreateTripReview inserts a trip review together with its place reviews
func (r *ReviewRepository) CreateTripReview(ctx context.Context, review *models.TripReview) error {
	review.ID = uuid.New().String()

	query := `
		INSERT INTO trip_reviews (
			id, user_id, rating, summary, detail,
			city, duration_hours, visit_count, trip_type,
			arrival_flight, depart_flight, images,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowxContext(
		ctx,
		query,
		review.ID,
		review.UserID,
		review.Rating,
		review.Summary,
		review.Detail,
		review.City,
		review.DurationHours,
		review.VisitCount,
		review.TripType,
		review.ArrivalFlight,
		review.DepartFlight,
		review.Images,
	).Scan(&review.CreatedAt, &review.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create trip review: %w", err)
	}

	for i := range review.PlaceReviews {
		place := &review.PlaceReviews[i]
		place.ID = uuid.New().String()
		place.TripReviewID = review.ID
		if err := r.createPlaceReview(ctx, place); err != nil {
			return err
		}
	}
	return nil
}

func (r *ReviewRepository) createPlaceReview(ctx context.Context, place *models.PlaceReview) error {
	query := `
		INSERT INTO place_reviews (
			id, trip_review_id, facility_id, facility_name, facility_category,
			rating, comment, image_url, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING created_at
	`
	err := r.db.QueryRowxContext(
		ctx,
		query,
		place.ID,
		place.TripReviewID,
		place.FacilityID,
		place.FacilityName,
		place.FacilityCategory,
		place.Rating,
		place.Comment,
		place.ImageURL,
	).Scan(&place.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create place review: %w", err)
	}
	return nil
}

// GetTripReviewsByFacility retrieves trip reviews that rated the given
// facility, newest-first, with their place reviews attached
func (r *ReviewRepository) GetTripReviewsByFacility(ctx context.Context, facilityID int64) ([]models.TripReview, error) {
	var reviews []models.TripReview
	query := `
		SELECT * FROM trip_reviews
		WHERE id IN (SELECT trip_review_id FROM place_reviews WHERE facility_id = $1)
		ORDER BY created_at DESC
	`
	if err := r.db.SelectContext(ctx, &reviews, query, facilityID); err != nil {
		return nil, fmt.Errorf("failed to get trip reviews by facility: %w", err)
	}
	return r.attachPlaceReviews(ctx, reviews)
}

// GetTripReviewsByCity retrieves trip reviews for a city, newest-first,
// with their place reviews attached
func (r *ReviewRepository) GetTripReviewsByCity(ctx context.Context, city string) ([]models.TripReview, error) {
	var reviews []models.TripReview
	query := `
		SELECT * FROM trip_reviews
		WHERE city = $1
		ORDER BY created_at DESC
	`
	if err := r.db.SelectContext(ctx, &reviews, query, city); err != nil {
		return nil, fmt.Errorf("failed to get trip reviews by city: %w", err)
	}
	return r.attachPlaceReviews(ctx, reviews)
}

// GetTripReviewByID retrieves one trip review, nil when absent
func (r *ReviewRepository) GetTripReviewByID(ctx context.Context, id string) (*models.TripReview, error) {
	var review models.TripReview
	query := `SELECT * FROM trip_reviews WHERE id = $1`
	err := r.db.GetContext(ctx, &review, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip review: %w", err)
	}
	attached, err := r.attachPlaceReviews(ctx, []models.TripReview{review})
	if err != nil {
		return nil, err
	}
	return &attached[0], nil
}

func (r *ReviewRepository) attachPlaceReviews(ctx context.Context, reviews []models.TripReview) ([]models.TripReview, error) {
	if len(reviews) == 0 {
		return reviews, nil
	}

	ids := make([]string, len(reviews))
	for i := range reviews {
		ids[i] = reviews[i].ID
	}

	var places []models.PlaceReview
	query := `
		SELECT * FROM place_reviews
		WHERE trip_review_id = ANY($1)
		ORDER BY created_at ASC
	`
	if err := r.db.SelectContext(ctx, &places, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("failed to get place reviews: %w", err)
	}

	byParent := make(map[string][]models.PlaceReview, len(reviews))
	for _, place := range places {
		byParent[place.TripReviewID] = append(byParent[place.TripReviewID], place)
	}
	for i := range reviews {
		reviews[i].PlaceReviews = byParent[reviews[i].ID]
	}
	return reviews, nil
}

// DeleteTripReview deletes a trip review and cascades to its place reviews
// and likes. Deleting a missing id is a no-op.
func (r *ReviewRepository) DeleteTripReview(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM review_likes WHERE trip_review_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete review likes: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM place_reviews WHERE trip_review_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete place reviews: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM trip_reviews WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete trip review: %w", err)
	}
	return nil
}

// CreateLike records one like on a trip review
func (r *ReviewRepository) CreateLike(ctx context.Context, like *models.ReviewLike) error {
	like.ID = uuid.New().String()

	query := `
		INSERT INTO review_likes (id, trip_review_id, user_id, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING created_at
	`
	err := r.db.QueryRowxContext(ctx, query, like.ID, like.TripReviewID, like.UserID).Scan(&like.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create review like: %w", err)
	}
	return nil
}

// DeleteLike removes one like; missing ids are a no-op
func (r *ReviewRepository) DeleteLike(ctx context.Context, likeID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM review_likes WHERE id = $1`, likeID); err != nil {
		return fmt.Errorf("failed to delete review like: %w", err)
	}
	return nil
}

// GetLikesByReview retrieves all likes on a trip review
func (r *ReviewRepository) GetLikesByReview(ctx context.Context, reviewID string) ([]models.ReviewLike, error) {
	var likes []models.ReviewLike
	query := `SELECT * FROM review_likes WHERE trip_review_id = $1 ORDER BY created_at ASC`
	if err := r.db.SelectContext(ctx, &likes, query, reviewID); err != nil {
		return nil, fmt.Errorf("failed to get review likes: %w", err)
	}
	return likes, nil
}
