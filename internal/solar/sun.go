package solar

import (
	"time"

	"github.com/nathan-osman/go-sunrise"
)

// SunTimes returns sunrise and sunset in UTC for the UTC date of t at the
// given coordinate. ok is false during polar day or night.
func SunTimes(lat, lon float64, t time.Time) (rise, set time.Time, ok bool) {
	t = t.UTC()
	rise, set = sunrise.SunriseSunset(lat, lon, t.Year(), t.Month(), t.Day())
	if rise.IsZero() || set.IsZero() {
		return time.Time{}, time.Time{}, false
	}
	return rise.UTC(), set.UTC(), true
}
