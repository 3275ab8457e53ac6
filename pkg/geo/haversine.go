// Package geo holds the small amount of spherical geometry needed to turn
// OSM coordinates into arc lengths and to snap query points to nodes.
package geo

import "math"

const earthRadiusMeters = 6_371_000.0

const degToRad = math.Pi / 180

// Haversine returns the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * degToRad
	dLon := (lon2 - lon1) * degToRad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*degToRad)*math.Cos(lat2*degToRad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// EquirectangularDist approximates Haversine for short distances. It is
// used to rank snapping candidates, not to compute arc lengths.
func EquirectangularDist(lat1, lon1, lat2, lon2 float64) float64 {
	x := (lon2 - lon1) * math.Cos((lat1+lat2)/2*degToRad) * degToRad
	y := (lat2 - lat1) * degToRad
	return math.Sqrt(x*x+y*y) * earthRadiusMeters
}

// Box returns a lat/lon rectangle that contains every point within radius
// meters of (lat, lon). Near the poles the longitude span is clamped to the
// full circle.
func Box(lat, lon, radius float64) (minLat, minLon, maxLat, maxLon float64) {
	dLat := radius / earthRadiusMeters / degToRad
	cos := math.Cos(lat * degToRad)
	dLon := 180.0
	if cos > 1e-9 {
		dLon = min(dLat/cos, 180)
	}
	return lat - dLat, lon - dLon, lat + dLat, lon + dLon
}

// TravelTimeMillis converts a length in millimeters driven at speed km/h to
// milliseconds, rounding up so that no arc is free.
func TravelTimeMillis(lengthMM uint32, speedKMH float64) uint32 {
	if speedKMH <= 0 {
		speedKMH = 1
	}
	// mm / (km/h) = mm / (1e6 mm / 3.6e6 ms) = 3.6 ms per mm per km/h.
	ms := math.Ceil(float64(lengthMM) * 3.6 / speedKMH)
	return max(uint32(ms), 1)
}
