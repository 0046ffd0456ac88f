package rentals

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"renthub/internal/geocode"
	"renthub/internal/imagestore"
	"renthub/internal/models"
)

// PropertyInput holds the fields a landlord submits for a new property.
type PropertyInput struct {
	Street       string   `json:"address" validate:"required"`
	PostalCode   string   `json:"postalCode" validate:"required"`
	Town         string   `json:"town" validate:"required"`
	Province     string   `json:"province" validate:"required"`
	PropertyType string   `json:"propertyType" validate:"required"`
	Price        float64  `json:"price" validate:"required,finite,gt=0"`
	Description  string   `json:"description"`
	Amenities    []string `json:"amenities"`
}

// ImageUpload is an image attached to a create or update call.
type ImageUpload struct {
	Filename string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

// Catalog manages the landlord-owned property listings.
type Catalog struct {
	properties PropertyStore
	geocoder   geocode.Geocoder
	images     imagestore.Store
	validate   *validator.Validate
	now        func() time.Time
}

// NewCatalog wires the catalog. images may be nil when uploads are disabled.
func NewCatalog(properties PropertyStore, geocoder geocode.Geocoder, images imagestore.Store) *Catalog {
	return &Catalog{
		properties: properties,
		geocoder:   geocoder,
		images:     images,
		validate:   newValidator(),
		now:        time.Now,
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	if err := v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		return isFinite(fl.Field().Float())
	}); err != nil {
		log.Fatalf("[CATALOG] [ERROR] register finite validation: %v", err)
	}
	return v
}

func isFinite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

func (c *Catalog) validationError(err error) error {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return ValidationError{Details: []string{err.Error()}}
	}
	details := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		switch fe.Tag() {
		case "required":
			details = append(details, fmt.Sprintf("%s is required", fe.Field()))
		case "gt":
			details = append(details, fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param()))
		case "finite":
			details = append(details, fmt.Sprintf("%s must be a finite number", fe.Field()))
		default:
			details = append(details, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return ValidationError{Details: details}
}

func (in *PropertyInput) trim() {
	in.Street = strings.TrimSpace(in.Street)
	in.PostalCode = strings.TrimSpace(in.PostalCode)
	in.Town = strings.TrimSpace(in.Town)
	in.Province = strings.TrimSpace(in.Province)
	in.PropertyType = strings.TrimSpace(in.PropertyType)
	in.Description = strings.TrimSpace(in.Description)
}

// Create validates, geocodes and stores a new listed property.
func (c *Catalog) Create(ctx context.Context, s Session, in PropertyInput, image *ImageUpload) (models.Property, error) {
	if err := s.require(models.RoleLandlord); err != nil {
		return models.Property{}, err
	}

	in.trim()
	if err := c.validate.Struct(in); err != nil {
		return models.Property{}, c.validationError(err)
	}
	amenities, err := models.NewAmenityList(in.Amenities)
	if err != nil {
		return models.Property{}, ValidationError{Details: []string{err.Error()}}
	}
	if image != nil {
		if err := imagestore.Validate(image.Filename, image.Size); err != nil {
			return models.Property{}, ValidationError{Details: []string{err.Error()}}
		}
	}

	address := geocode.Address{Street: in.Street, PostalCode: in.PostalCode, Town: in.Town, Province: in.Province}
	point, err := c.geocoder.Geocode(ctx, address)
	if err != nil {
		log.Printf("[CATALOG] [ERROR] geocode failed for %q: %v", address.String(), err)
		return models.Property{}, GeocodeError{Address: address.String(), Err: err}
	}

	imageURL, err := c.upload(ctx, image)
	if err != nil {
		return models.Property{}, err
	}

	now := c.now()
	property := models.Property{
		OwnerID:      s.UserID,
		Street:       in.Street,
		PostalCode:   in.PostalCode,
		Town:         in.Town,
		Province:     in.Province,
		PropertyType: in.PropertyType,
		Price:        in.Price,
		Description:  in.Description,
		Amenities:    amenities,
		Latitude:     point.Latitude,
		Longitude:    point.Longitude,
		ImageURL:     imageURL,
		IsListed:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := c.properties.InsertProperty(ctx, &property); err != nil {
		log.Println("[CATALOG] [ERROR] insert property failed:", err)
		c.discard(ctx, imageURL)
		return models.Property{}, remote("create property", err)
	}

	log.Printf("[CATALOG] [INFO] property %s created by %s", property.ID.Hex(), s.UserID)
	return property, nil
}

func (c *Catalog) upload(ctx context.Context, image *ImageUpload) (string, error) {
	if image == nil {
		return "", nil
	}
	if c.images == nil {
		return "", ValidationError{Details: []string{"image uploads are disabled"}}
	}

	reader, err := image.Open()
	if err != nil {
		return "", remote("open image", err)
	}
	defer reader.Close()

	url, err := c.images.Upload(ctx, image.Filename, reader, image.Size)
	if err != nil {
		log.Println("[CATALOG] [ERROR] image upload failed:", err)
		return "", remote("upload image", err)
	}
	return url, nil
}

func (c *Catalog) discard(ctx context.Context, url string) {
	if url == "" || c.images == nil {
		return
	}
	if err := c.images.Delete(ctx, url); err != nil {
		log.Println("[CATALOG] [WARN] could not remove orphaned image:", err)
	}
}

// owned loads a property and checks that the session user owns it.
func (c *Catalog) owned(ctx context.Context, s Session, id primitive.ObjectID) (models.Property, error) {
	if err := s.require(models.RoleLandlord); err != nil {
		return models.Property{}, err
	}
	property, err := c.properties.GetProperty(ctx, id)
	if errors.Is(err, ErrNoDocument) {
		return models.Property{}, NotFoundError{Kind: "property", ID: id.Hex()}
	}
	if err != nil {
		return models.Property{}, remote("get property", err)
	}
	if property.OwnerID != s.UserID {
		return models.Property{}, ForbiddenError{Reason: "property belongs to another landlord"}
	}
	return property, nil
}

// Update applies a partial update. Coordinates are kept even when the
// address changes.
func (c *Catalog) Update(ctx context.Context, s Session, id primitive.ObjectID, patch models.PropertyPatch, image *ImageUpload) (models.Property, error) {
	if err := validatePatch(&patch); err != nil {
		return models.Property{}, err
	}
	if image != nil {
		if err := imagestore.Validate(image.Filename, image.Size); err != nil {
			return models.Property{}, ValidationError{Details: []string{err.Error()}}
		}
	}

	existing, err := c.owned(ctx, s, id)
	if err != nil {
		return models.Property{}, err
	}

	imageURL, err := c.upload(ctx, image)
	if err != nil {
		return models.Property{}, err
	}
	if imageURL != "" {
		patch.ImageURL = &imageURL
	}

	updated, err := c.properties.UpdateProperty(ctx, id, s.UserID, patch, c.now())
	if errors.Is(err, ErrNoDocument) {
		c.discard(ctx, imageURL)
		return models.Property{}, NotFoundError{Kind: "property", ID: id.Hex()}
	}
	if err != nil {
		log.Println("[CATALOG] [ERROR] update property failed:", err)
		c.discard(ctx, imageURL)
		return models.Property{}, remote("update property", err)
	}

	if imageURL != "" && existing.ImageURL != "" && existing.ImageURL != imageURL {
		c.discard(ctx, existing.ImageURL)
	}

	log.Printf("[CATALOG] [INFO] property %s updated", id.Hex())
	return updated, nil
}

func validatePatch(patch *models.PropertyPatch) error {
	details := make([]string, 0)
	required := []struct {
		name  string
		value *string
	}{
		{"address", patch.Street},
		{"postalCode", patch.PostalCode},
		{"town", patch.Town},
		{"province", patch.Province},
		{"propertyType", patch.PropertyType},
	}
	for _, field := range required {
		if field.value == nil {
			continue
		}
		*field.value = strings.TrimSpace(*field.value)
		if *field.value == "" {
			details = append(details, field.name+" cannot be empty")
		}
	}
	if patch.Description != nil {
		trimmed := strings.TrimSpace(*patch.Description)
		patch.Description = &trimmed
	}
	if patch.Price != nil {
		switch {
		case !isFinite(*patch.Price):
			details = append(details, "price must be a finite number")
		case *patch.Price <= 0:
			details = append(details, "price must be greater than 0")
		}
	}
	if patch.Amenities != nil {
		amenities, err := models.NewAmenityList(*patch.Amenities)
		if err != nil {
			details = append(details, err.Error())
		} else {
			canonical := []string(amenities)
			patch.Amenities = &canonical
		}
	}
	if len(details) > 0 {
		return ValidationError{Details: details}
	}
	return nil
}

// SetListed hides or shows a property without touching its requests.
func (c *Catalog) SetListed(ctx context.Context, s Session, id primitive.ObjectID, listed bool) (models.Property, error) {
	if _, err := c.owned(ctx, s, id); err != nil {
		return models.Property{}, err
	}

	updated, err := c.properties.SetListed(ctx, id, s.UserID, listed, c.now())
	if errors.Is(err, ErrNoDocument) {
		return models.Property{}, NotFoundError{Kind: "property", ID: id.Hex()}
	}
	if err != nil {
		log.Println("[CATALOG] [ERROR] set listed failed:", err)
		return models.Property{}, remote("set listed", err)
	}

	log.Printf("[CATALOG] [INFO] property %s isListed=%t", id.Hex(), listed)
	return updated, nil
}

// Delete removes the property. Requests and shortlist entries that point at
// it are left in place.
func (c *Catalog) Delete(ctx context.Context, s Session, id primitive.ObjectID) error {
	if _, err := c.owned(ctx, s, id); err != nil {
		return err
	}

	err := c.properties.DeleteProperty(ctx, id, s.UserID)
	if errors.Is(err, ErrNoDocument) {
		return NotFoundError{Kind: "property", ID: id.Hex()}
	}
	if err != nil {
		log.Println("[CATALOG] [ERROR] delete property failed:", err)
		return remote("delete property", err)
	}

	log.Printf("[CATALOG] [INFO] property %s deleted", id.Hex())
	return nil
}

// Get returns a property. Delisted properties are only visible to their owner.
func (c *Catalog) Get(ctx context.Context, s Session, id primitive.ObjectID) (models.Property, error) {
	property, err := c.properties.GetProperty(ctx, id)
	if errors.Is(err, ErrNoDocument) {
		return models.Property{}, NotFoundError{Kind: "property", ID: id.Hex()}
	}
	if err != nil {
		return models.Property{}, remote("get property", err)
	}
	if !property.IsListed && property.OwnerID != s.UserID {
		return models.Property{}, NotFoundError{Kind: "property", ID: id.Hex()}
	}
	return property, nil
}

// ListAllVisible returns listed properties, newest first.
func (c *Catalog) ListAllVisible(ctx context.Context, page Page) ([]models.Property, error) {
	properties, err := c.properties.ListedProperties(ctx, page)
	if err != nil {
		log.Println("[CATALOG] [ERROR] list visible failed:", err)
		return nil, remote("list properties", err)
	}
	return properties, nil
}

// ListByOwner returns every property of the landlord, listed or not.
func (c *Catalog) ListByOwner(ctx context.Context, s Session) ([]models.Property, error) {
	if err := s.require(models.RoleLandlord); err != nil {
		return nil, err
	}
	properties, err := c.properties.PropertiesByOwner(ctx, s.UserID)
	if err != nil {
		log.Println("[CATALOG] [ERROR] list by owner failed:", err)
		return nil, remote("list own properties", err)
	}
	return properties, nil
}

// MapQuery narrows map markers to a radius around a center.
type MapQuery struct {
	Center   *geocode.Point
	RadiusKm float64
}

// MapMarkers returns visible properties as map markers, nearest first when a
// center is given.
func (c *Catalog) MapMarkers(ctx context.Context, q MapQuery) ([]models.MapMarker, error) {
	properties, err := c.ListAllVisible(ctx, Page{})
	if err != nil {
		return nil, err
	}

	markers := make([]models.MapMarker, 0, len(properties))
	for _, p := range properties {
		marker := models.MapMarker{
			ID:        p.ID,
			Latitude:  p.Latitude,
			Longitude: p.Longitude,
			Address:   p.Label(),
			Price:     p.Price,
		}
		if q.Center != nil {
			d := distanceKm(q.Center.Latitude, q.Center.Longitude, p.Latitude, p.Longitude)
			if q.RadiusKm > 0 && d > q.RadiusKm {
				continue
			}
			marker.DistanceKm = &d
		}
		markers = append(markers, marker)
	}

	if q.Center != nil {
		sort.SliceStable(markers, func(i, j int) bool {
			return *markers[i].DistanceKm < *markers[j].DistanceKm
		})
	}
	return markers, nil
}
