// README: Google Places text search and geocoding used to fill place blocks.
package maps

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"googlemaps.github.io/maps"

	"github.com/cow-planmate/Ai/internal/cache"
	"github.com/cow-planmate/Ai/internal/types"
)

var (
	// ErrPlaceNotFound is the explicit "no match" outcome; it is not a failure.
	ErrPlaceNotFound = errors.New("place not found")
	ErrNotGeocoded   = errors.New("address not geocoded")
)

const (
	defaultTimeout = 5 * time.Second
	biasRadius     = 20000 // meters
)

// Place represents a simplified location result.
type Place struct {
	Name     string      `json:"name"`
	Address  string      `json:"address"`
	Rating   float64     `json:"rating"`
	PlaceID  string      `json:"placeId"`
	Location types.Point `json:"location"`
	Link     string      `json:"link"`
}

// PlaceLink builds the shareable Google Maps URL for a place id.
func PlaceLink(placeID string) string {
	return "https://www.google.com/maps/place/?q=place_id:" + placeID
}

// Client is the subset of *maps.Client this package needs.
type Client interface {
	TextSearch(ctx context.Context, r *maps.TextSearchRequest) (maps.PlacesSearchResponse, error)
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// PlacesService handles interactions with Google Places API.
type PlacesService struct {
	client   Client
	cache    cache.Cache
	language string
	timeout  time.Duration
}

// NewPlacesService creates a new PlacesService with the given API Key.
func NewPlacesService(apiKey, language string, c cache.Cache) (*PlacesService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return NewPlacesServiceWithClient(client, language, c), nil
}

// NewPlacesServiceWithClient wires an existing client; tests pass a fake.
func NewPlacesServiceWithClient(client Client, language string, c cache.Cache) *PlacesService {
	if language == "" {
		language = "ko"
	}
	if c == nil {
		c = cache.Noop{}
	}
	return &PlacesService{client: client, cache: c, language: language, timeout: defaultTimeout}
}

// Search runs a text search and returns the index-th match, clamped to the
// last result. bias may be nil for an unbiased query.
func (s *PlacesService) Search(ctx context.Context, query string, bias *types.Point, index int) (Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Place{}, ErrPlaceNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	r := &maps.TextSearchRequest{Query: query, Language: s.language}
	if bias != nil {
		r.Location = &maps.LatLng{Lat: bias.Lat, Lng: bias.Lng}
		r.Radius = biasRadius
	}

	resp, err := s.client.TextSearch(ctx, r)
	if err != nil {
		// ZERO_RESULTS surfaces as an error from the client library.
		if strings.Contains(err.Error(), "ZERO_RESULTS") {
			return Place{}, ErrPlaceNotFound
		}
		return Place{}, fmt.Errorf("places api error: %w", err)
	}
	if len(resp.Results) == 0 {
		return Place{}, ErrPlaceNotFound
	}

	if index < 0 {
		index = 0
	}
	if index >= len(resp.Results) {
		index = len(resp.Results) - 1
	}
	result := resp.Results[index]

	place := Place{
		Name:     result.Name,
		Address:  result.FormattedAddress,
		Rating:   float64(result.Rating),
		PlaceID:  result.PlaceID,
		Location: types.Point{Lat: result.Geometry.Location.Lat, Lng: result.Geometry.Location.Lng},
		Link:     PlaceLink(result.PlaceID),
	}
	log.Printf("[SEARCH] %q -> %s", query, place.Name)
	return place, nil
}

// Geocode resolves an address or city name to coordinates. Results are cached.
func (s *PlacesService) Geocode(ctx context.Context, address string) (types.Point, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return types.Point{}, ErrNotGeocoded
	}
	key := cache.Key("geocode", s.language, address)
	var p types.Point
	if cache.GetJSON(ctx, s.cache, key, &p) {
		return p, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	results, err := s.client.Geocode(ctx, &maps.GeocodingRequest{Address: address, Language: s.language})
	if err != nil {
		return types.Point{}, fmt.Errorf("geocode %q: %w", address, err)
	}
	if len(results) == 0 {
		return types.Point{}, fmt.Errorf("%w: %q", ErrNotGeocoded, address)
	}
	loc := results[0].Geometry.Location
	p = types.Point{Lat: loc.Lat, Lng: loc.Lng}
	cache.SetJSON(ctx, s.cache, key, p)
	return p, nil
}
