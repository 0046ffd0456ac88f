package config

import (
	"fmt"
	"strings"
)

// Required lists the settings the selected drivers cannot run without.
func (c Config) Required() []string {
	missing := make([]string, 0)
	need := func(key, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, key)
		}
	}

	need("JWT_SECRET", c.JWTSecret)
	if c.StoreDriver == "mongo" {
		need("MONGO_URI", c.MongoURI)
	}
	if c.ImageDriver == "minio" {
		need("MINIO_ENDPOINT", c.MinioEndpoint)
		need("MINIO_ACCESS_KEY", c.MinioAccessKey)
		need("MINIO_SECRET_KEY", c.MinioSecretKey)
	}
	if c.GeocoderDriver == "google" {
		need("GOOGLE_MAPS_API_KEY", c.GoogleAPIKey)
	}
	return missing
}

// Validate reports missing or unknown settings.
func (c Config) Validate() error {
	switch c.StoreDriver {
	case "mongo", "memory":
	default:
		return fmt.Errorf("STORE_DRIVER must be mongo or memory, got %q", c.StoreDriver)
	}
	switch c.ImageDriver {
	case "disk", "minio", "none":
	default:
		return fmt.Errorf("IMAGE_DRIVER must be disk, minio or none, got %q", c.ImageDriver)
	}
	switch c.GeocoderDriver {
	case "google", "static":
	default:
		return fmt.Errorf("GEOCODER_DRIVER must be google or static, got %q", c.GeocoderDriver)
	}
	if missing := c.Required(); len(missing) > 0 {
		return fmt.Errorf("ENV %s is required", strings.Join(missing, ", "))
	}
	return nil
}
