package geo

import (
	"errors"
	"math"

	"github.com/oxcstats/soldierstats/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/wroge/wgs84"
)

// Base locations are archived as EPSG:3857 WKB on every backend, since
// SQLite has no spatial types of its own.

// ErrInvalidCoordinates is returned for NaN or infinite degrees.
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// maxMercatorLatitude is the latitude at which Web Mercator is cut off.
const maxMercatorLatitude = 85.05112878

var toWebMercator = wgs84.EPSG().Transform(4326, 3857)

// PositionFromRadians converts a globe position as written by the engine
// (radians, longitude in [0, 2π)) into degrees with longitude in [-180, 180).
func PositionFromRadians(lon, lat float64) core.Position {
	lonDeg := math.Mod(lon*180/math.Pi+180, 360)
	if lonDeg < 0 {
		lonDeg += 360
	}
	return core.Position{
		Longitude: lonDeg - 180,
		Latitude:  lat * 180 / math.Pi,
	}
}

// PointFromPosition projects a position in degrees to a Web Mercator point.
// Latitudes past the projection limit are clamped to it.
func PointFromPosition(pos core.Position) (geom.Point, error) {
	for _, v := range [...]float64{pos.Longitude, pos.Latitude} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return geom.NewEmptyPoint(geom.DimXY), ErrInvalidCoordinates
		}
	}
	lat := math.Max(-maxMercatorLatitude, math.Min(maxMercatorLatitude, pos.Latitude))
	x, y, _ := toWebMercator(pos.Longitude, lat, 0)
	return geom.NewPoint(geom.Coordinates{XY: geom.XY{X: x, Y: y}}), nil
}
