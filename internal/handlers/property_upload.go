package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"renthub/internal/models"
	"renthub/internal/rentals"
)

// PropertyUpdateRequest is the JSON body of a partial update. Absent fields
// are left untouched.
type PropertyUpdateRequest struct {
	Street       *string   `json:"address"`
	PostalCode   *string   `json:"postalCode"`
	Town         *string   `json:"town"`
	Province     *string   `json:"province"`
	PropertyType *string   `json:"propertyType"`
	Price        *float64  `json:"price"`
	Description  *string   `json:"description"`
	Amenities    *[]string `json:"amenities"`
}

func (r PropertyUpdateRequest) patch() models.PropertyPatch {
	return models.PropertyPatch{
		Street:       r.Street,
		PostalCode:   r.PostalCode,
		Town:         r.Town,
		Province:     r.Province,
		PropertyType: r.PropertyType,
		Price:        r.Price,
		Description:  r.Description,
		Amenities:    r.Amenities,
	}
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.GetHeader("Content-Type"), "multipart/form-data")
}

// parsePropertyCreate reads a new property from JSON or multipart form data.
func parsePropertyCreate(c *gin.Context) (rentals.PropertyInput, *rentals.ImageUpload, error) {
	var input rentals.PropertyInput
	if !isMultipart(c) {
		if err := c.ShouldBindJSON(&input); err != nil {
			return rentals.PropertyInput{}, nil, err
		}
		return input, nil, nil
	}

	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		log.Println("[UPLOAD] [ERROR] multipart parse failed:", err)
		return rentals.PropertyInput{}, nil, err
	}

	input.Street = c.PostForm("address")
	input.PostalCode = c.PostForm("postalCode")
	input.Town = c.PostForm("town")
	input.Province = c.PostForm("province")
	input.PropertyType = c.PostForm("propertyType")
	input.Description = c.PostForm("description")
	input.Amenities = formAmenities(c)

	if value, ok := c.GetPostForm("price"); ok && strings.TrimSpace(value) != "" {
		price, err := parsePrice(value)
		if err != nil {
			return rentals.PropertyInput{}, nil, err
		}
		input.Price = price
	}

	image, err := formImage(c)
	if err != nil {
		return rentals.PropertyInput{}, nil, err
	}
	return input, image, nil
}

// parsePropertyPatch reads a partial update from JSON or multipart form data.
func parsePropertyPatch(c *gin.Context) (models.PropertyPatch, *rentals.ImageUpload, error) {
	if !isMultipart(c) {
		var req PropertyUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return models.PropertyPatch{}, nil, err
		}
		return req.patch(), nil, nil
	}

	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		log.Println("[UPLOAD] [ERROR] multipart parse failed:", err)
		return models.PropertyPatch{}, nil, err
	}

	patch := models.PropertyPatch{}
	for field, target := range map[string]**string{
		"address":      &patch.Street,
		"postalCode":   &patch.PostalCode,
		"town":         &patch.Town,
		"province":     &patch.Province,
		"propertyType": &patch.PropertyType,
		"description":  &patch.Description,
	} {
		if value, ok := c.GetPostForm(field); ok {
			v := value
			*target = &v
		}
	}

	if value, ok := c.GetPostForm("price"); ok {
		price, err := parsePrice(value)
		if err != nil {
			return models.PropertyPatch{}, nil, err
		}
		patch.Price = &price
	}

	if _, ok := c.GetPostFormArray("amenities"); ok {
		amenities := formAmenities(c)
		patch.Amenities = &amenities
	}

	image, err := formImage(c)
	if err != nil {
		return models.PropertyPatch{}, nil, err
	}
	return patch, image, nil
}

// formAmenities accepts repeated fields or a single comma separated value.
func formAmenities(c *gin.Context) []string {
	values := c.PostFormArray("amenities")
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}

func parsePrice(value string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimPrefix(strings.TrimSpace(value), "$"), ",", "")
	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsInf(price, 0) || math.IsNaN(price) {
		return 0, fmt.Errorf("invalid price: %s", strings.TrimSpace(value))
	}
	return price, nil
}

func formImage(c *gin.Context) (*rentals.ImageUpload, error) {
	file, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || strings.Contains(err.Error(), "no such file") {
			return nil, nil
		}
		return nil, err
	}
	return imageUpload(file), nil
}

func imageUpload(file *multipart.FileHeader) *rentals.ImageUpload {
	return &rentals.ImageUpload{
		Filename: file.Filename,
		Size:     file.Size,
		Open: func() (io.ReadCloser, error) {
			return file.Open()
		},
	}
}

func parseBoolValue(value string) (bool, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "on" {
		return true, nil
	}
	return strconv.ParseBool(value)
}
