package geofence

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

var oaxacaSite = GeoPoint{Latitude: 17.072036983980418, Longitude: -96.75978056140424}

func TestDistance_SamePointIsZero(t *testing.T) {
	points := []GeoPoint{
		{0, 0},
		oaxacaSite,
		{90, 180},
		{-90, -180},
		{-33.8688, 151.2093},
	}
	for _, p := range points {
		assert.Equal(t, 0.0, Distance(p, p), p.String())
	}
}

func TestDistance_IsSymmetric(t *testing.T) {
	pairs := [][2]GeoPoint{
		{oaxacaSite, {Latitude: 19.4326, Longitude: -99.1332}},
		{{0, 0}, {0, 179.9}},
		{{51.5074, -0.1278}, {40.7128, -74.0060}},
	}
	for _, p := range pairs {
		assert.InDelta(t, Distance(p[0], p[1]), Distance(p[1], p[0]), 1e-6)
	}
}

func TestDistance_HundredMetersAlongMeridian(t *testing.T) {
	// 100 m of arc expressed in degrees of latitude
	deltaDeg := 100 / EarthRadiusMeters * 180 / math.Pi
	north := GeoPoint{Latitude: oaxacaSite.Latitude + deltaDeg, Longitude: oaxacaSite.Longitude}

	assert.InDelta(t, 100.0, Distance(oaxacaSite, north), 1.0)
}

func TestDistance_GrowsWithSeparation(t *testing.T) {
	prev := 0.0
	for i := 1; i <= 5; i++ {
		p := GeoPoint{Latitude: oaxacaSite.Latitude + float64(i)*0.001, Longitude: oaxacaSite.Longitude}
		d := Distance(oaxacaSite, p)
		assert.Greater(t, d, prev)
		prev = d
	}
}

func TestDistance_DeviceNextToSite(t *testing.T) {
	device := GeoPoint{Latitude: 17.072037, Longitude: -96.759781}

	d := Distance(device, oaxacaSite)
	assert.InDelta(t, 0.1, d, 0.1)
	assert.True(t, IsWithinRange(d, 10, AssignedLocationMargin))
}

func TestIsWithinRange(t *testing.T) {
	tests := []struct {
		name     string
		distance float64
		radius   float64
		margin   float64
		want     bool
	}{
		{"boundary is inclusive", 110, 100, 1.1, true},
		{"fixed site inside margin", 109, 100, FixedSiteMargin, true},
		{"fixed site beyond margin", 111, 100, FixedSiteMargin, false},
		{"assigned location on the edge", 10, 10, AssignedLocationMargin, true},
		{"assigned location just past the edge", 10.0001, 10, AssignedLocationMargin, false},
		{"zero distance", 0, 1, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsWithinRange(tt.distance, tt.radius, tt.margin))
		})
	}
}

func TestGeoPoint_Validate(t *testing.T) {
	assert.NoError(t, GeoPoint{Latitude: 90, Longitude: -180}.Validate())
	assert.ErrorIs(t, GeoPoint{Latitude: 90.1}.Validate(), ErrInvalidLatitude)
	assert.ErrorIs(t, GeoPoint{Longitude: 180.5}.Validate(), ErrInvalidLongitude)
	assert.ErrorIs(t, GeoPoint{Latitude: math.NaN()}.Validate(), ErrInvalidLatitude)
}

func TestPolicies_AreIndependent(t *testing.T) {
	site := FixedSitePolicy(FixedSiteMargin)
	assigned := AssignedLocationPolicy(AssignedLocationMargin)
	target := Target{Center: oaxacaSite, RadiusMeters: FixedSiteRadius}

	deltaDeg := 105 / EarthRadiusMeters * 180 / math.Pi
	position := GeoPoint{Latitude: oaxacaSite.Latitude + deltaDeg, Longitude: oaxacaSite.Longitude}

	siteEval := site.Evaluate(position, target)
	assignedEval := assigned.Evaluate(position, target)

	assert.True(t, siteEval.WithinRange)
	assert.False(t, assignedEval.WithinRange)
	assert.InDelta(t, 110.0, siteEval.AllowedMeters, 1e-9)
	assert.Equal(t, "fixed_site", siteEval.Policy)
	assert.Equal(t, "assigned_location", assignedEval.Policy)
}

func TestPolicy_Validate(t *testing.T) {
	assert.NoError(t, FixedSitePolicy(1.1).Validate())
	assert.ErrorIs(t, AssignedLocationPolicy(0.9).Validate(), ErrInvalidMargin)
	assert.ErrorIs(t, Target{Center: oaxacaSite}.Validate(), ErrInvalidRadius)
}
