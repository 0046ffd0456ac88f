package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "STORE_DRIVER", "DB_NAME", "REQUEST_TIMEOUT", "ROLE_CACHE_TTL", "IMAGE_DRIVER", "GEOCODE_COUNTRY"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "mongo", cfg.StoreDriver)
	assert.Equal(t, "renthub", cfg.DBName)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 30*time.Minute, cfg.RoleCacheTTL)
	assert.Equal(t, "disk", cfg.ImageDriver)
	assert.Equal(t, "Canada", cfg.GeocodeCountry)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("REQUEST_TIMEOUT", "12")
	t.Setenv("REDIS_DB", "4")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("ROLE_CACHE_TTL", "-3")

	cfg := FromEnv()
	assert.Equal(t, "memory", cfg.StoreDriver)
	assert.Equal(t, 12*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 4, cfg.RedisDB)
	assert.True(t, cfg.MinioUseSSL)
	assert.Equal(t, 30*time.Minute, cfg.RoleCacheTTL)
}

func TestValidate(t *testing.T) {
	cfg := Config{StoreDriver: "memory", ImageDriver: "disk", GeocoderDriver: "static", JWTSecret: "s"}
	require.NoError(t, cfg.Validate())

	cfg.StoreDriver = "mongo"
	cfg.ImageDriver = "minio"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MONGO_URI")
	assert.Contains(t, err.Error(), "MINIO_ENDPOINT")

	cfg.StoreDriver = "postgres"
	assert.ErrorContains(t, cfg.Validate(), "STORE_DRIVER")
}
