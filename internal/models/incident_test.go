package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncident_UnmarshalNormalizesHalfOrigin(t *testing.T) {
	var inc Incident
	err := json.Unmarshal([]byte(`{"id":"a","title":"t","latitude":32,"longitude":44,"origin_latitude":35.0}`), &inc)
	require.NoError(t, err)

	assert.Nil(t, inc.OriginLatitude)
	assert.Nil(t, inc.OriginLongitude)
	assert.False(t, inc.HasOrigin())
}

func TestIncident_UnmarshalKeepsFullOrigin(t *testing.T) {
	var inc Incident
	err := json.Unmarshal([]byte(`{"id":"a","origin_latitude":35.0,"origin_longitude":45.0,"date":"2025-06-13T00:00:00Z"}`), &inc)
	require.NoError(t, err)

	lat, lng, ok := inc.Origin()
	require.True(t, ok)
	assert.Equal(t, 35.0, lat)
	assert.Equal(t, 45.0, lng)
	assert.Equal(t, 2025, inc.Date.Year())
}

func TestIncident_OriginPairInvariant(t *testing.T) {
	payload := `[
		{"id":"1","origin_latitude":1,"origin_longitude":2},
		{"id":"2","origin_latitude":null,"origin_longitude":2},
		{"id":"3","origin_longitude":7},
		{"id":"4"}
	]`
	var incidents []Incident
	require.NoError(t, json.Unmarshal([]byte(payload), &incidents))

	for _, inc := range incidents {
		assert.Equal(t, inc.OriginLatitude == nil, inc.OriginLongitude == nil, "incident %s", inc.ID)
	}
}

func TestIncident_IsSevereBoundary(t *testing.T) {
	assert.False(t, (&Incident{Killed: 29}).IsSevere())
	assert.True(t, (&Incident{Killed: 30}).IsSevere())
}

func TestIncident_HasValidTarget(t *testing.T) {
	assert.True(t, (&Incident{Latitude: 32, Longitude: 44}).HasValidTarget())
	assert.False(t, (&Incident{Latitude: math.NaN(), Longitude: 44}).HasValidTarget())
	assert.False(t, (&Incident{Latitude: 91, Longitude: 44}).HasValidTarget())
	assert.False(t, (&Incident{Latitude: 0, Longitude: math.Inf(1)}).HasValidTarget())
}
