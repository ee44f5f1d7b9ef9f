package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// GoogleGateway implements the Provider interface against the Google Places
// details API
type GoogleGateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// GoogleConfig holds configuration for the Google Places gateway
type GoogleConfig struct {
	BaseURL string
	APIKey  string
}

// NewGoogleGateway creates a new Google Places gateway client
func NewGoogleGateway(config GoogleConfig) *GoogleGateway {
	return &GoogleGateway{
		baseURL: config.BaseURL,
		apiKey:  config.APIKey,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// detailsResponse mirrors the provider's response envelope
type detailsResponse struct {
	Status string `json:"status"`
	Result struct {
		PlaceID          string `json:"place_id"`
		Name             string `json:"name"`
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
		OpeningHours struct {
			WeekdayText []string `json:"weekday_text"`
		} `json:"opening_hours"`
		Rating           float64 `json:"rating"`
		UserRatingsTotal int     `json:"user_ratings_total"`
		Reviews          []struct {
			AuthorName              string `json:"author_name"`
			Rating                  int    `json:"rating"`
			Text                    string `json:"text"`
			RelativeTimeDescription string `json:"relative_time_description"`
		} `json:"reviews"`
	} `json:"result"`
	ErrorMessage string `json:"error_message"`
}

// GetPlaceDetails fetches place details from the provider
func (g *GoogleGateway) GetPlaceDetails(ctx context.Context, placeID string) (*PlaceDetails, error) {
	endpoint := fmt.Sprintf("%s/details/json?place_id=%s&key=%s",
		g.baseURL, url.QueryEscape(placeID), url.QueryEscape(g.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build place details request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch place details: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read place details response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("place details request failed with status %d", resp.StatusCode)
	}

	var parsed detailsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse place details response: %w", err)
	}
	if parsed.Status != "OK" {
		return nil, fmt.Errorf("place details lookup failed: %s (%s)", parsed.Status, parsed.ErrorMessage)
	}

	details := &PlaceDetails{
		PlaceID:     parsed.Result.PlaceID,
		Name:        parsed.Result.Name,
		Address:     parsed.Result.FormattedAddress,
		Latitude:    parsed.Result.Geometry.Location.Lat,
		Longitude:   parsed.Result.Geometry.Location.Lng,
		Hours:       parsed.Result.OpeningHours.WeekdayText,
		Rating:      parsed.Result.Rating,
		ReviewCount: parsed.Result.UserRatingsTotal,
	}
	for _, r := range parsed.Result.Reviews {
		details.Reviews = append(details.Reviews, PlaceComment{
			Author: r.AuthorName,
			Rating: r.Rating,
			Text:   r.Text,
			Time:   r.RelativeTimeDescription,
		})
	}
	return details, nil
}

// GetName returns the gateway name
func (g *GoogleGateway) GetName() string {
	return "Google Places"
}
