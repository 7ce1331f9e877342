// Package geom converts between Cartesian and spherical (geographic)
// coordinate representations.
//
// All angles are in degrees. Latitude runs from -90 (south pole) to 90
// (north pole); longitude is kept in the half-open range (-180, 180].
// Cartesian points use [r3.Vec] with Z as the polar axis, so a point on the
// positive Z axis has latitude 90.
package geom

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrLatitudeRange is returned by [CheckLat] when a latitude falls outside
// [-90, 90]. Out-of-range latitudes are treated as hard input errors and are
// never silently clamped.
var ErrLatitudeRange = errors.New("latitude out of range [-90, 90]")

// ErrLongitudeRange is returned by [CheckLon] for NaN or infinite
// longitudes. Any finite longitude can be wrapped into range by
// [NormalizeLon]; a non-finite one is a hard input error.
var ErrLongitudeRange = errors.New("longitude must be finite")

const degPerRad = 180 / math.Pi

// CartesianToSpherical converts a Cartesian point to (radius, lat, lon).
// The radius is the Euclidean norm of p. For the origin (radius 0) both
// angles are 0 rather than NaN. Longitude is atan2(y, x), which naturally
// falls in (-180, 180].
func CartesianToSpherical(p r3.Vec) (radius, lat, lon float64) {
	radius = r3.Norm(p)
	if radius > 0 {
		lat = 90 - math.Acos(p.Z/radius)*degPerRad
	}
	lon = math.Atan2(p.Y, p.X) * degPerRad
	return radius, lat, lon
}

// SphericalToCartesian converts (radius, lat, lon) in degrees to a Cartesian
// point. It is the inverse of [CartesianToSpherical] up to floating-point
// tolerance for radius >= 0, lat in [-90, 90], and lon in (-180, 180]
// (longitude is undefined at the poles).
func SphericalToCartesian(radius, lat, lon float64) r3.Vec {
	latRad := lat / degPerRad
	lonRad := lon / degPerRad
	return r3.Vec{
		X: radius * math.Cos(lonRad) * math.Cos(latRad),
		Y: radius * math.Sin(lonRad) * math.Cos(latRad),
		Z: radius * math.Sin(latRad),
	}
}

// NormalizeLon wraps a longitude into (-180, 180]. Values already in the
// closed range [-180, 180] are returned unchanged, so both boundary inputs
// -180 and 180 are stable. Non-finite inputs come back as NaN; callers
// reject those with [CheckLon] before normalizing.
func NormalizeLon(lon float64) float64 {
	if lon >= -180 && lon <= 180 {
		return lon
	}
	lon = math.Mod(lon, 360)
	if lon > 180 {
		lon -= 360
	} else if lon < -180 {
		lon += 360
	}
	return lon
}

// CheckLat validates that lat lies in [-90, 90].
// Returns an error wrapping [ErrLatitudeRange] otherwise. NaN is rejected.
func CheckLat(lat float64) error {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return fmt.Errorf("%w: got %v", ErrLatitudeRange, lat)
	}
	return nil
}

// CheckLon validates that lon is a finite number.
// Returns an error wrapping [ErrLongitudeRange] for NaN or infinities.
func CheckLon(lon float64) error {
	if math.IsNaN(lon) || math.IsInf(lon, 0) {
		return fmt.Errorf("%w: got %v", ErrLongitudeRange, lon)
	}
	return nil
}
