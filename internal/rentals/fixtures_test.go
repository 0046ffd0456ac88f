package rentals_test

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"renthub/internal/geocode"
	"renthub/internal/models"
	"renthub/internal/rentals"
	"renthub/internal/repository"
)

const knownPostal = "N1G 2W1"

// clock hands out strictly increasing timestamps.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock {
	return &clock{now: time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type mockImages struct {
	mock.Mock
}

func (m *mockImages) Upload(ctx context.Context, filename string, r io.Reader, size int64) (string, error) {
	args := m.Called(ctx, filename, size)
	return args.String(0), args.Error(1)
}

func (m *mockImages) Delete(ctx context.Context, url string) error {
	return m.Called(ctx, url).Error(0)
}

type env struct {
	ctx       context.Context
	store     *repository.Memory
	images    *mockImages
	catalog   *rentals.Catalog
	workflow  *rentals.Workflow
	shortlist *rentals.Shortlist
	resolver  *rentals.SessionResolver
	landlord  rentals.Session
	other     rentals.Session
	tenant    rentals.Session
	tenant2   rentals.Session
}

func newEnv(t *testing.T) *env {
	t.Helper()
	return newEnvWithStore(t, nil)
}

// newEnvWithStore lets a test swap the property store, e.g. to inject failures.
func newEnvWithStore(t *testing.T, properties rentals.PropertyStore) *env {
	t.Helper()

	store := repository.NewMemory()
	if properties == nil {
		properties = store
	}
	store.PutUser(models.UserProfile{ID: "landlord-1", Name: "Lena Landlord", Email: "lena@example.com", Role: models.RoleLandlord})
	store.PutUser(models.UserProfile{ID: "landlord-2", Name: "Otto Owner", Email: "otto@example.com", Role: models.RoleLandlord})
	store.PutUser(models.UserProfile{ID: "tenant-1", Name: "Tara Tenant", Email: "tara@example.com", Role: models.RoleTenant})
	store.PutUser(models.UserProfile{ID: "tenant-2", Name: "Theo Tenant", Email: "theo@example.com", Role: models.RoleTenant})

	geocoder := geocode.NewStatic(map[string]geocode.Point{
		knownPostal: {Latitude: 43.5448, Longitude: -80.2482},
		"N2L 3G1":   {Latitude: 43.4723, Longitude: -80.5449},
	})
	images := &mockImages{}
	clk := newClock()

	catalog := rentals.NewCatalog(properties, geocoder, images)
	catalog.SetClock(clk.Now)
	workflow := rentals.NewWorkflow(properties, store, store)
	workflow.SetClock(clk.Now)
	shortlist := rentals.NewShortlist(properties, store)
	shortlist.SetClock(clk.Now)

	return &env{
		ctx:       context.Background(),
		store:     store,
		images:    images,
		catalog:   catalog,
		workflow:  workflow,
		shortlist: shortlist,
		resolver:  rentals.NewSessionResolver(store, nil),
		landlord:  rentals.Session{UserID: "landlord-1", Role: models.RoleLandlord},
		other:     rentals.Session{UserID: "landlord-2", Role: models.RoleLandlord},
		tenant:    rentals.Session{UserID: "tenant-1", Role: models.RoleTenant},
		tenant2:   rentals.Session{UserID: "tenant-2", Role: models.RoleTenant},
	}
}

func validInput() rentals.PropertyInput {
	return rentals.PropertyInput{
		Street:       "50 Stone Rd E",
		PostalCode:   knownPostal,
		Town:         "Guelph",
		Province:     "ON",
		PropertyType: "Apartment",
		Price:        1450,
		Description:  "Bright two bedroom",
		Amenities:    []string{"wifi", "Hydro"},
	}
}

func (e *env) createProperty(t *testing.T, owner rentals.Session) models.Property {
	t.Helper()
	p, err := e.catalog.Create(e.ctx, owner, validInput(), nil)
	require.NoError(t, err)
	return p
}

func imageUpload(name string, body string) *rentals.ImageUpload {
	return &rentals.ImageUpload{
		Filename: name,
		Size:     int64(len(body)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(body)), nil
		},
	}
}
