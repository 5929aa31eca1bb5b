package qibla

import "math"

// InitialBearing returns the initial great-circle bearing in degrees from
// one coordinate toward another, in [0, 360) clockwise from north.
func InitialBearing(from, to Position) float64 {
	lat1 := radians(from.Latitude)
	lon1 := radians(from.Longitude)
	lat2 := radians(to.Latitude)
	lon2 := radians(to.Longitude)

	dLon := lon2 - lon1

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)

	deg := degrees(math.Atan2(y, x))
	if deg < 0 {
		deg += 360
	}
	return deg
}

// Normalize wraps an angle into [0, 360).
func Normalize(angle float64) float64 {
	a := math.Mod(angle, 360)
	if a < 0 {
		a += 360
	}
	return a
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func degrees(rad float64) float64 { return rad * 180 / math.Pi }
