// Package geo computes great-circle distances between coordinate pairs.
//
// Two renditions of the same spherical math live here: Distance, the
// pure Go haversine used for display and tests, and SQLDistanceExpr,
// the spherical-law-of-cosines expression the candidate query pushes
// down to the database so distance filtering and ordering happen in
// SQL. Both round to 2 decimals and agree within rounding tolerance.
package geo

import (
	"math"
)

// EarthRadiusKm is the mean Earth radius used by both renditions.
const EarthRadiusKm = 6371.0

// Coordinate is a latitude/longitude pair in degrees.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// Distance returns the great-circle distance between a and b in
// kilometers, rounded to 2 decimal places. Pure and total: any pair of
// coordinates yields a value, Distance(x, x) == 0.
func Distance(a, b Coordinate) float64 {
	lat1 := radians(a.Latitude)
	lon1 := radians(a.Longitude)
	lat2 := radians(b.Latitude)
	lon2 := radians(b.Longitude)

	dlat := lat2 - lat1
	dlon := lon2 - lon1

	h := math.Pow(math.Sin(dlat/2), 2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dlon/2), 2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return Round2(EarthRadiusKm * c)
}

// SQLDistanceExpr is the distance between the locations table row and a
// bound requester coordinate, as a SQL scalar expression. Placeholders
// bind (lat, lon, lat) in that order; use SQLDistanceArgs.
//
// GREATEST/LEAST clamp the cosine argument into [-1, 1]: floating point
// noise on near-identical or near-antipodal pairs can push it out of
// the ACOS domain, where MySQL yields NULL instead of a distance.
const SQLDistanceExpr = "ROUND(6371.0 * ACOS(GREATEST(-1.0, LEAST(1.0, " +
	"COS(RADIANS(?)) * COS(RADIANS(locations.latitude)) * " +
	"COS(RADIANS(locations.longitude) - RADIANS(?)) + " +
	"SIN(RADIANS(?)) * SIN(RADIANS(locations.latitude))))), 2)"

// SQLDistanceArgs returns the bind arguments matching SQLDistanceExpr.
func SQLDistanceArgs(from Coordinate) []interface{} {
	return []interface{}{from.Latitude, from.Longitude, from.Latitude}
}

// Round2 rounds to 2 decimal places, the numeric contract for every
// distance this system filters on or returns.
func Round2(km float64) float64 {
	return math.Round(km*100) / 100
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
