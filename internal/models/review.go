package models

import (
	"database/sql"
	"fmt"
	"time"
)

// TripReview is a user-submitted review of a whole layover trip
type TripReview struct {
	ID     string `db:"id" json:"id"`
	UserID string `db:"user_id" json:"user_id"`

	Rating  int            `db:"rating" json:"rating"` // 1-5
	Summary string         `db:"summary" json:"summary"`
	Detail  sql.NullString `db:"detail" json:"detail,omitempty"`

	// Trip metadata
	City          string         `db:"city" json:"city"`
	DurationHours int            `db:"duration_hours" json:"duration_hours"`
	VisitCount    int            `db:"visit_count" json:"visit_count"`
	TripType      sql.NullString `db:"trip_type" json:"trip_type,omitempty"`
	ArrivalFlight sql.NullString `db:"arrival_flight" json:"arrival_flight,omitempty"`
	DepartFlight  sql.NullString `db:"depart_flight" json:"depart_flight,omitempty"`

	Images StringArray `db:"images" json:"images,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	// Place reviews submitted together with this trip review. Populated on
	// submission and on reads that join the child table; not a column.
	PlaceReviews []PlaceReview `db:"-" json:"place_reviews,omitempty"`
}

// Validate checks the user-supplied fields of a trip review
func (r *TripReview) Validate() error {
	if r.Rating < 1 || r.Rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5, got %d", r.Rating)
	}
	if r.City == "" {
		return fmt.Errorf("city is required")
	}
	for i := range r.PlaceReviews {
		if err := r.PlaceReviews[i].Validate(); err != nil {
			return fmt.Errorf("place review %d: %w", i+1, err)
		}
	}
	return nil
}

// PlaceReview rates one facility within a trip review. Facility name and
// category are snapshotted at submission time so the review stays readable
// if the facility dataset changes.
type PlaceReview struct {
	ID           string `db:"id" json:"id"`
	TripReviewID string `db:"trip_review_id" json:"trip_review_id"`

	FacilityID       int64    `db:"facility_id" json:"facility_id"`
	FacilityName     string   `db:"facility_name" json:"facility_name"`
	FacilityCategory Category `db:"facility_category" json:"facility_category"`

	Rating   int            `db:"rating" json:"rating"`
	Comment  sql.NullString `db:"comment" json:"comment,omitempty"`
	ImageURL sql.NullString `db:"image_url" json:"image_url,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Validate checks the user-supplied fields of a place review
func (p *PlaceReview) Validate() error {
	if p.Rating < 1 || p.Rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5, got %d", p.Rating)
	}
	if p.FacilityName == "" {
		return fmt.Errorf("facility_name is required")
	}
	return nil
}

// ReviewLike is one like on a trip review. UserID is null until the liker
// has an established identity.
type ReviewLike struct {
	ID           string         `db:"id" json:"id"`
	TripReviewID string         `db:"trip_review_id" json:"trip_review_id"`
	UserID       sql.NullString `db:"user_id" json:"user_id,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
}
