package models

import (
	"encoding/json"
	"time"
)

// ScheduleOrigin records which tier created a schedule id. Routing by an
// explicit tag replaces the old habit of sniffing the id format.
type ScheduleOrigin string

// Schedule origins
const (
	ScheduleOriginRemote ScheduleOrigin = "remote"
	ScheduleOriginLocal  ScheduleOrigin = "local"
)

// Schedule is a saved layover trip plan. Plan holds the finalized trip
// selection and Itinerary the day-by-day schedule; both are opaque to the
// backend and stored as JSON.
type Schedule struct {
	ID     string         `db:"id" json:"id"`
	UserID string         `db:"user_id" json:"user_id"`
	Name   string         `db:"name" json:"name"`
	Origin ScheduleOrigin `db:"origin" json:"origin"`

	Plan      json.RawMessage `db:"plan" json:"plan,omitempty"`
	Itinerary json.RawMessage `db:"itinerary" json:"itinerary,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
