package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoint_JSONRoundTrip(t *testing.T) {
	p := Point{Lon: 13.51, Lat: 43.61}

	data, err := json.Marshal(p)
	assert.NoError(t, err)
	assert.JSONEq(t, `[13.51, 43.61]`, string(data))

	var decoded Point
	assert.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, p, decoded)
}

func TestPoint_UnmarshalRejectsObjects(t *testing.T) {
	var p Point
	err := json.Unmarshal([]byte(`{"lon": 13.5, "lat": 43.6}`), &p)
	assert.Error(t, err)
}

func TestPoint_InRange(t *testing.T) {
	assert.True(t, Point{Lon: 180, Lat: 90}.InRange())
	assert.True(t, Point{Lon: -180, Lat: -90}.InRange())
	assert.False(t, Point{Lon: 180.1, Lat: 0}.InRange())
	assert.False(t, Point{Lon: 0, Lat: -90.1}.InRange())
}

func TestNewRect_CanonicalizesCorners(t *testing.T) {
	// Corners given in any order produce the same rectangle.
	a := Point{Lon: 13.0, Lat: 44.0}
	b := Point{Lon: 12.0, Lat: 43.0}

	r := NewRect(a, b)
	assert.Equal(t, Rect{MinLon: 12.0, MinLat: 43.0, MaxLon: 13.0, MaxLat: 44.0}, r)
	assert.Equal(t, r, NewRect(b, a))
}

func TestRect_Contains(t *testing.T) {
	r := Rect{MinLon: 10, MinLat: 40, MaxLon: 12, MaxLat: 42}

	assert.True(t, r.Contains(Point{Lon: 11, Lat: 41}))
	// Bounds are inclusive.
	assert.True(t, r.Contains(Point{Lon: 10, Lat: 40}))
	assert.True(t, r.Contains(Point{Lon: 12, Lat: 42}))
	assert.False(t, r.Contains(Point{Lon: 12.001, Lat: 41}))
	assert.False(t, r.Contains(Point{Lon: 11, Lat: 39.999}))
}

func TestRect_Intersects(t *testing.T) {
	base := Rect{MinLon: 10, MinLat: 40, MaxLon: 12, MaxLat: 42}

	testCases := []struct {
		name     string
		other    Rect
		expected bool
	}{
		{"overlapping area", Rect{MinLon: 11, MinLat: 41, MaxLon: 13, MaxLat: 43}, true},
		{"contained", Rect{MinLon: 10.5, MinLat: 40.5, MaxLon: 11.5, MaxLat: 41.5}, true},
		{"shared edge", Rect{MinLon: 12, MinLat: 40, MaxLon: 14, MaxLat: 42}, true},
		{"disjoint lon", Rect{MinLon: 12.1, MinLat: 40, MaxLon: 14, MaxLat: 42}, false},
		{"disjoint lat", Rect{MinLon: 10, MinLat: 42.1, MaxLon: 12, MaxLat: 44}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, base.Intersects(tc.other))
			assert.Equal(t, tc.expected, tc.other.Intersects(base))
		})
	}
}

func TestRoute_Validate(t *testing.T) {
	valid := Route{
		{Lon: 13.0, Lat: 43.0},
		{Lon: 13.1, Lat: 43.0},
		{Lon: 13.1, Lat: 43.1},
		{Lon: 13.0, Lat: 43.0},
	}
	assert.NoError(t, valid.Validate())

	testCases := []struct {
		name  string
		route Route
	}{
		{"too short", Route{{Lon: 13, Lat: 43}, {Lon: 13, Lat: 43}}},
		{"not closed", Route{{Lon: 13, Lat: 43}, {Lon: 13.1, Lat: 43}, {Lon: 13.1, Lat: 43.1}}},
		{"zero-length segment", Route{{Lon: 13, Lat: 43}, {Lon: 13, Lat: 43}, {Lon: 13.1, Lat: 43}, {Lon: 13, Lat: 43}}},
		{"out of range", Route{{Lon: 181, Lat: 43}, {Lon: 13.1, Lat: 43}, {Lon: 181, Lat: 43}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.route.Validate())
		})
	}
}
