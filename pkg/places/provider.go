package places

import (
	"context"
)

// Provider defines the interface for fetching place details from a
// third-party maps provider
type Provider interface {
	// GetPlaceDetails fetches the details of one place by provider id
	GetPlaceDetails(ctx context.Context, placeID string) (*PlaceDetails, error)

	// GetName returns the name of the provider implementation
	GetName() string
}

// PlaceDetails is the provider-agnostic detail record for one place
type PlaceDetails struct {
	PlaceID     string         `json:"place_id"`
	Name        string         `json:"name"`
	Address     string         `json:"address"`
	Latitude    float64        `json:"latitude"`
	Longitude   float64        `json:"longitude"`
	Hours       []string       `json:"hours,omitempty"`
	Rating      float64        `json:"rating"`
	ReviewCount int            `json:"review_count"`
	Reviews     []PlaceComment `json:"reviews,omitempty"`
}

// PlaceComment is one provider-sourced review snippet
type PlaceComment struct {
	Author string `json:"author"`
	Rating int    `json:"rating"`
	Text   string `json:"text"`
	Time   string `json:"time"`
}
