package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Static resolves addresses from a fixed table keyed by postal code or by
// the composed address line. It backs development runs without an API key.
type Static struct {
	points map[string]Point
}

func NewStatic(points map[string]Point) *Static {
	normalized := make(map[string]Point, len(points))
	for key, point := range points {
		normalized[normalizeKey(key)] = point
	}
	return &Static{points: normalized}
}

func (s *Static) Geocode(ctx context.Context, address Address) (Point, error) {
	if err := ctx.Err(); err != nil {
		return Point{}, err
	}
	if point, ok := s.points[normalizeKey(address.String())]; ok {
		return point, nil
	}
	if point, ok := s.points[normalizeKey(address.PostalCode)]; ok {
		return point, nil
	}
	return Point{}, ErrNoResult
}

func normalizeKey(key string) string {
	return strings.Join(strings.Fields(strings.ToLower(key)), "")
}

// LoadStatic reads a JSON object mapping addresses or postal codes to points.
func LoadStatic(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var points map[string]Point
	if err := json.Unmarshal(data, &points); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return NewStatic(points), nil
}
