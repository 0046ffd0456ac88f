package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"renthub/internal/models"
)

func TestNormalizePropertyDocument_LegacyFields(t *testing.T) {
	created := primitive.NewDateTimeFromTime(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	raw := bson.M{
		"_id":       primitive.NewObjectID(),
		"uid":       "landlord-1",
		"address":   "12 King St",
		"price":     "$1,250",
		"amenities": "WiFi, gas",
		"createdAt": created,
	}

	p, err := normalizePropertyDocument(raw)
	require.NoError(t, err)

	assert.Equal(t, 1250.0, p.Price)
	assert.True(t, p.IsListed, "missing isListed should default to listed")
	assert.Equal(t, models.AmenityList{models.AmenityWiFi, models.AmenityGas}, p.Amenities)
	assert.Equal(t, created.Time().UTC(), p.UpdatedAt.UTC())
}

func TestNormalizePropertyDocument_ListedFlagVariants(t *testing.T) {
	cases := []struct {
		name  string
		value interface{}
		want  bool
	}{
		{"bool false", false, false},
		{"bool true", true, true},
		{"string false", "False", false},
		{"string true", "true", true},
		{"missing", nil, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := bson.M{"_id": primitive.NewObjectID(), "price": 900}
			if tc.value != nil {
				raw["isListed"] = tc.value
			}
			p, err := normalizePropertyDocument(raw)
			require.NoError(t, err)
			assert.Equal(t, tc.want, p.IsListed)
			assert.Equal(t, 900.0, p.Price)
			assert.NotNil(t, p.Amenities)
		})
	}
}

func TestToFloat(t *testing.T) {
	assert.Equal(t, 1200.0, toFloat("1200"))
	assert.Equal(t, 1200.5, toFloat(" $1,200.50 "))
	assert.Equal(t, 7.0, toFloat(int32(7)))
	assert.Equal(t, 7.0, toFloat(int64(7)))
	assert.Equal(t, 0.0, toFloat("call us"))
	assert.Equal(t, 0.0, toFloat(nil))
}

func TestNormalizeRequestDocument_HexPropertyID(t *testing.T) {
	propertyID := primitive.NewObjectID()
	raw := bson.M{
		"_id":        primitive.NewObjectID(),
		"tenantId":   "tenant-1",
		"propertyId": propertyID.Hex(),
		"status":     "Approved",
	}

	r, err := normalizeRequestDocument(raw)
	require.NoError(t, err)
	assert.Equal(t, propertyID, r.PropertyID)
	assert.Equal(t, models.StatusApproved, r.Status)
	assert.Nil(t, r.DecidedAt)
}

func TestNormalizeShortlistDocument_HexPropertyID(t *testing.T) {
	propertyID := primitive.NewObjectID()
	e, err := normalizeShortlistDocument(bson.M{
		"tenantId":   "tenant-1",
		"propertyId": propertyID.Hex(),
	})
	require.NoError(t, err)
	assert.Equal(t, propertyID, e.PropertyID)
	assert.Equal(t, "tenant-1", e.TenantID)
}

func TestPropertyRefsMatchesBothEncodings(t *testing.T) {
	id := primitive.NewObjectID()
	refs := propertyRefs(id)
	assert.Equal(t, []interface{}{id, id.Hex()}, refs["$in"])
}

func TestPatchSetOnlyIncludesProvidedFields(t *testing.T) {
	town := "Guelph"
	price := 1500.0
	set := patchSet(models.PropertyPatch{Town: &town, Price: &price})
	assert.Equal(t, bson.M{"town": "Guelph", "price": 1500.0}, set)
}
