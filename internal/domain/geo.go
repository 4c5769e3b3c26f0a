package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Point is a geographic coordinate. On the wire it is a [lon, lat] pair,
// matching the route arrays accepted by the API.
type Point struct {
	Lon float64
	Lat float64
}

func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.Lon, p.Lat})
}

func (p *Point) UnmarshalJSON(data []byte) error {
	var pair [2]float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	p.Lon, p.Lat = pair[0], pair[1]
	return nil
}

// InRange reports whether the coordinate is a plausible lon/lat pair.
func (p Point) InRange() bool {
	return p.Lon >= -180 && p.Lon <= 180 && p.Lat >= -90 && p.Lat <= 90
}

// Rect is an axis-aligned bounding rectangle in canonical form:
// MinLon <= MaxLon and MinLat <= MaxLat.
type Rect struct {
	MinLon float64 `json:"min_lon"`
	MinLat float64 `json:"min_lat"`
	MaxLon float64 `json:"max_lon"`
	MaxLat float64 `json:"max_lat"`
}

// NewRect builds a canonical rectangle from two opposite corners, in any order.
func NewRect(a, b Point) Rect {
	r := Rect{MinLon: a.Lon, MaxLon: b.Lon, MinLat: a.Lat, MaxLat: b.Lat}
	if r.MinLon > r.MaxLon {
		r.MinLon, r.MaxLon = r.MaxLon, r.MinLon
	}
	if r.MinLat > r.MaxLat {
		r.MinLat, r.MaxLat = r.MaxLat, r.MinLat
	}
	return r
}

// Contains reports whether p lies inside the rectangle, bounds inclusive.
func (r Rect) Contains(p Point) bool {
	return p.Lon >= r.MinLon && p.Lon <= r.MaxLon &&
		p.Lat >= r.MinLat && p.Lat <= r.MaxLat
}

// Intersects reports whether the two rectangles share any area or edge.
func (r Rect) Intersects(o Rect) bool {
	return r.MinLon <= o.MaxLon && r.MaxLon >= o.MinLon &&
		r.MinLat <= o.MaxLat && r.MaxLat >= o.MinLat
}

// Route is the flight path as an ordered, closed polyline of geographic points.
type Route []Point

// Validate enforces the route shape: at least three points, first equals last,
// no zero-length consecutive segment, all coordinates in lon/lat range.
func (rt Route) Validate() error {
	if len(rt) < 3 {
		return errors.New("route needs at least 3 points")
	}
	if rt[0] != rt[len(rt)-1] {
		return errors.New("route must be closed: first and last point must match")
	}
	for i, p := range rt {
		if !p.InRange() {
			return fmt.Errorf("route point %d out of lon/lat range", i)
		}
		if i > 0 && p == rt[i-1] {
			return fmt.Errorf("route has a zero-length segment at point %d", i)
		}
	}
	return nil
}
