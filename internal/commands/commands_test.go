package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renthub/internal/config"
	"renthub/internal/imagestore"
)

func TestRootCmdRegistersSubcommands(t *testing.T) {
	root := RootCmd()

	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["indexes"])
	assert.NotNil(t, root.Flags().Lookup("skip-indexes"))
}

func TestOpenStoresMemorySeedsUsers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"t1","name":"T","email":"t@example.com","role":"tenant"}]`), 0o600))

	st, err := openStores(config.Config{StoreDriver: "memory", UsersSeedFile: path}, true)
	require.NoError(t, err)
	defer st.close()

	user, err := st.users.GetUser(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "T", user.Name)
	assert.NoError(t, st.ping(context.Background()))
}

func TestOpenImagesAndGeocoder(t *testing.T) {
	images, err := openImages(context.Background(), config.Config{ImageDriver: "disk", PublicDir: t.TempDir(), PublicBaseURL: "/public"})
	require.NoError(t, err)
	assert.IsType(t, &imagestore.Disk{}, images)

	images, err = openImages(context.Background(), config.Config{ImageDriver: "none"})
	require.NoError(t, err)
	assert.Nil(t, images)

	geocoder, err := openGeocoder(config.Config{GeocoderDriver: "static"})
	require.NoError(t, err)
	assert.NotNil(t, geocoder)
}

func TestOpenRoleCacheDisabledWithoutAddress(t *testing.T) {
	roles, closeFn := openRoleCache(context.Background(), config.Config{})
	defer closeFn()
	assert.Nil(t, roles)
}
