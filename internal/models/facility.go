package models

import (
	"database/sql"
)

// Facility represents a single point-of-interest row from one of the
// category-family tables. The name column differs per family; the store
// aliases it to "name" when scanning, and SourceTable records where the row
// came from.
type Facility struct {
	ID          int64    `db:"id" json:"id"`
	AirportCode string   `db:"airport_code" json:"airport_code"`
	Category    Category `db:"category" json:"category"`
	Name        string   `db:"name" json:"name"`

	Description   sql.NullString `db:"description" json:"description,omitempty"`
	Location      sql.NullString `db:"location" json:"location,omitempty"`
	OpenTime      sql.NullString `db:"open_time" json:"open_time,omitempty"`
	CloseTime     sql.NullString `db:"close_time" json:"close_time,omitempty"`
	BusinessHours sql.NullString `db:"business_hours" json:"business_hours,omitempty"`
	Phone         sql.NullString `db:"phone" json:"phone,omitempty"`
	Website       sql.NullString `db:"website" json:"website,omitempty"`
	Cost          sql.NullString `db:"cost" json:"cost,omitempty"`
	ImageURL      sql.NullString `db:"image_url" json:"image_url,omitempty"`

	SourceTable TableTag `db:"-" json:"source_table"`
}

// LocationLabel returns the location text, empty when unset
func (f *Facility) LocationLabel() string {
	if f.Location.Valid {
		return f.Location.String
	}
	return ""
}

// Airport holds basic metadata and amenity flags for one airport
type Airport struct {
	Code      string `db:"code" json:"code"`
	Name      string `db:"name" json:"name"`
	NameLocal string `db:"name_local" json:"name_local"`

	HasWifi        bool `db:"has_wifi" json:"has_wifi"`
	HasSmokingArea bool `db:"has_smoking_area" json:"has_smoking_area"`
	HasPharmacy    bool `db:"has_pharmacy" json:"has_pharmacy"`
	HasShower      bool `db:"has_shower" json:"has_shower"`
	HasHotel       bool `db:"has_hotel" json:"has_hotel"`

	CurrencyInfo sql.NullString `db:"currency_info" json:"currency_info,omitempty"`
	TransitInfo  sql.NullString `db:"transit_info" json:"transit_info,omitempty"`
}
