package places

import (
	"context"
)

// DevGateway is the development-mode provider: it returns canned place
// details so the app works without provider credentials, the same way the
// rest of the stack runs without a remote backend.
type DevGateway struct{}

// NewDevGateway creates a new development gateway
func NewDevGateway() *DevGateway {
	return &DevGateway{}
}

// GetPlaceDetails returns canned details echoing the requested id
func (g *DevGateway) GetPlaceDetails(_ context.Context, placeID string) (*PlaceDetails, error) {
	return &PlaceDetails{
		PlaceID:     placeID,
		Name:        "Sample Place",
		Address:     "80 Airport Boulevard, Singapore",
		Latitude:    1.3644,
		Longitude:   103.9915,
		Hours:       []string{"Monday: Open 24 hours"},
		Rating:      4.5,
		ReviewCount: 2,
		Reviews: []PlaceComment{
			{Author: "Dev Reviewer", Rating: 5, Text: "Great spot for a layover.", Time: "a week ago"},
			{Author: "Another Reviewer", Rating: 4, Text: "Convenient and quiet.", Time: "a month ago"},
		},
	}, nil
}

// GetName returns the gateway name
func (g *DevGateway) GetName() string {
	return "Development"
}
