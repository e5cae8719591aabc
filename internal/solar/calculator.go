// Package solar implements the single-harmonic solar model used to decide
// where on Earth each prayer's call is currently happening.
package solar

import (
	"math"
	"time"

	"github.com/Nixie-Tech-LLC/minaret/internal/model"
)

const (
	fajrAltitude    = -18.0
	dhuhrAltitude   = 0.0
	maghribAltitude = -0.83
	ishaAltitude    = -17.0

	// Asr is undefined when latitude and declination are this far apart.
	asrMaxSeparation = 80.0
	// Asr is undefined when its target altitude drops below this.
	asrMinAltitude = 1.0

	maxDeclination = 23.45
)

func rad(deg float64) float64 { return deg * math.Pi / 180 }
func deg(rad float64) float64 { return rad * 180 / math.Pi }

// yearAngle is 360/365*(dayOfYear-81) in radians; it drives both the
// declination and the equation of time.
func yearAngle(t time.Time) float64 {
	return rad(360.0 / 365.0 * float64(t.YearDay()-81))
}

// Declination approximates the solar declination in degrees for the UTC
// date of t.
func Declination(t time.Time) float64 {
	return maxDeclination * math.Sin(yearAngle(t.UTC()))
}

// EquationOfTime returns the two-term correction in minutes for the UTC
// date of t.
func EquationOfTime(t time.Time) float64 {
	a := yearAngle(t.UTC())
	return 9.87*math.Sin(2*a) - 7.53*math.Cos(a)
}

// TargetAltitude returns the solar altitude in degrees that marks the
// start of prayer at latitude lat given declination decl. The second
// return is false when the altitude cannot be defined.
func TargetAltitude(p model.Prayer, lat, decl float64) (float64, bool) {
	switch p {
	case model.Fajr:
		return fajrAltitude, true
	case model.Dhuhr:
		return dhuhrAltitude, true
	case model.Maghrib:
		return maghribAltitude, true
	case model.Isha:
		return ishaAltitude, true
	case model.Asr:
		diff := math.Abs(lat - decl)
		if diff > asrMaxSeparation {
			return 0, false
		}
		shadow := 1 + math.Tan(rad(diff))
		if shadow == 0 || !finite(shadow) {
			return 0, false
		}
		alt := deg(math.Atan(1 / shadow))
		if alt < asrMinAltitude || !finite(alt) {
			return 0, false
		}
		return alt, true
	}
	return 0, false
}

// HourAngle solves the spherical hour-angle equation for altitude alt and
// returns H in degrees. It is undefined when the sun never reaches alt.
func HourAngle(lat, decl, alt float64) (float64, bool) {
	den := math.Cos(rad(lat)) * math.Cos(rad(decl))
	if den == 0 {
		return 0, false
	}
	cosH := (math.Sin(rad(alt)) - math.Sin(rad(lat))*math.Sin(rad(decl))) / den
	if !finite(cosH) || cosH > 1 || cosH < -1 {
		return 0, false
	}
	return deg(math.Acos(cosH)), true
}

// noonOffset is the signed offset in hours from solar noon.
func noonOffset(p model.Prayer, h float64) float64 {
	switch p {
	case model.Fajr:
		return -h / 15
	case model.Dhuhr:
		return 0
	default:
		return h / 15
	}
}

// EventLongitude returns the longitude in [-180,180) where, at instant t,
// the sun satisfies prayer p's altitude condition for latitude lat.
func EventLongitude(lat float64, p model.Prayer, t time.Time) Longitude {
	t = t.UTC()
	decl := Declination(t)

	alt, ok := TargetAltitude(p, lat, decl)
	if !ok {
		return Undefined
	}
	h, ok := HourAngle(lat, decl, alt)
	if !ok {
		return Undefined
	}

	eot := EquationOfTime(t)
	hours := float64(t.Hour()) + float64(t.Minute())/60 + float64(t.Second())/3600
	lon := (hours + eot/60 - 12 - noonOffset(p, h)) * -15
	if !finite(lon) {
		return Undefined
	}
	return Defined(NormalizeLongitude(lon))
}

// WindowAt computes the event window for latitude lat between t and
// t minus d.
func WindowAt(lat float64, p model.Prayer, t time.Time, d time.Duration) Window {
	return Window{
		Now: EventLongitude(lat, p, t),
		Ago: EventLongitude(lat, p, t.Add(-d)),
	}
}

// NormalizeLongitude maps any longitude into [-180,180).
func NormalizeLongitude(lon float64) float64 {
	m := math.Mod(lon+180, 360)
	if m < 0 {
		m += 360
	}
	if m >= 360 {
		m = 0
	}
	return m - 180
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
