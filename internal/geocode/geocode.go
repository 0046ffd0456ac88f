// Package geocode resolves postal addresses to coordinates.
package geocode

import (
	"context"
	"errors"
	"strings"
)

var ErrNoResult = errors.New("geocode: no result for address")

type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Address struct {
	Street     string
	PostalCode string
	Town       string
	Province   string
}

// String composes the single-line form "street, postal, town, province".
func (a Address) String() string {
	parts := make([]string, 0, 4)
	for _, part := range []string{a.Street, a.PostalCode, a.Town, a.Province} {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, ", ")
}

// Geocoder returns ErrNoResult when the address does not resolve.
type Geocoder interface {
	Geocode(ctx context.Context, address Address) (Point, error)
}

// Func adapts a function to the Geocoder interface.
type Func func(ctx context.Context, address Address) (Point, error)

func (f Func) Geocode(ctx context.Context, address Address) (Point, error) {
	return f(ctx, address)
}
