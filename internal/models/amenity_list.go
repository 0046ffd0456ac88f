package models

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

const (
	AmenityHydro = "Hydro"
	AmenityGas   = "Gas"
	AmenityWiFi  = "WiFi"
	AmenityNone  = "None"
)

var knownAmenities = map[string]string{
	"hydro": AmenityHydro,
	"gas":   AmenityGas,
	"wifi":  AmenityWiFi,
	"none":  AmenityNone,
}

// CanonicalAmenity maps a tag to its canonical spelling. ok is false for
// tags outside the fixed set.
func CanonicalAmenity(tag string) (string, bool) {
	canonical, ok := knownAmenities[strings.ToLower(strings.TrimSpace(tag))]
	return canonical, ok
}

// AmenityList decodes amenities whether stored as a single string or an
// array of strings.
type AmenityList []string

// NewAmenityList canonicalises and de-duplicates tags, rejecting unknown ones.
func NewAmenityList(tags []string) (AmenityList, error) {
	seen := map[string]struct{}{}
	out := make(AmenityList, 0, len(tags))
	for _, tag := range tags {
		if strings.TrimSpace(tag) == "" {
			continue
		}
		canonical, ok := CanonicalAmenity(tag)
		if !ok {
			return nil, fmt.Errorf("unknown amenity: %s", strings.TrimSpace(tag))
		}
		if _, dup := seen[canonical]; dup {
			continue
		}
		seen[canonical] = struct{}{}
		out = append(out, canonical)
	}
	return out, nil
}

// UnmarshalBSONValue accepts both string and array BSON types so legacy
// documents still decode.
func (a *AmenityList) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*a = AmenityList{}
		return nil
	case bsontype.Array:
		var values []string
		if err := bson.UnmarshalValue(t, data, &values); err != nil {
			return err
		}
		*a = keepKnown(values)
		return nil
	case bsontype.String:
		var value string
		if err := bson.UnmarshalValue(t, data, &value); err != nil {
			return err
		}
		*a = keepKnown(strings.Split(value, ","))
		return nil
	default:
		return fmt.Errorf("cannot decode %s into AmenityList", t)
	}
}

// MarshalBSONValue always stores the list as an array.
func (a AmenityList) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if a == nil {
		return bson.MarshalValue([]string{})
	}
	return bson.MarshalValue([]string(a))
}

// keepKnown drops tags written by older clients that are outside the set.
func keepKnown(values []string) AmenityList {
	out := make(AmenityList, 0, len(values))
	seen := map[string]struct{}{}
	for _, v := range values {
		canonical, ok := CanonicalAmenity(v)
		if !ok {
			continue
		}
		if _, dup := seen[canonical]; dup {
			continue
		}
		seen[canonical] = struct{}{}
		out = append(out, canonical)
	}
	return out
}
