package geocode

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/kelvins/geocoder"
)

// Google resolves addresses with the Google Maps geocoding API.
type Google struct {
	country string
	lookup  func(geocoder.Address) (geocoder.Location, error)
	mu      sync.Mutex
}

// NewGoogle configures the geocoding client. The client library keeps its
// API key in a package variable, so only one key per process is supported.
func NewGoogle(apiKey, country string) *Google {
	geocoder.ApiKey = apiKey
	return &Google{country: country, lookup: geocoder.Geocoding}
}

func (g *Google) Geocode(ctx context.Context, address Address) (Point, error) {
	if err := ctx.Err(); err != nil {
		return Point{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	location, err := g.lookup(geocoder.Address{
		Street:     address.Street,
		PostalCode: address.PostalCode,
		City:       address.Town,
		State:      address.Province,
		Country:    g.country,
	})
	if err != nil {
		log.Printf("[GEOCODE] [ERROR] lookup failed for %q: %v", address.String(), err)
		return Point{}, fmt.Errorf("%w: %v", ErrNoResult, err)
	}

	if location.Latitude == 0 && location.Longitude == 0 {
		return Point{}, ErrNoResult
	}

	return Point{Latitude: location.Latitude, Longitude: location.Longitude}, nil
}
