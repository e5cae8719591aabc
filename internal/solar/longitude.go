package solar

import (
	"encoding/json"
	"strconv"
)

// Longitude is an event longitude that may be undefined, e.g. when the
// sun never reaches a prayer's altitude at a latitude on a given date.
type Longitude struct {
	Deg   float64
	Valid bool
}

// Undefined is the absent longitude.
var Undefined = Longitude{}

func Defined(deg float64) Longitude {
	return Longitude{Deg: deg, Valid: true}
}

func (l Longitude) String() string {
	if !l.Valid {
		return "undefined"
	}
	return strconv.FormatFloat(l.Deg, 'f', 4, 64)
}

// MarshalJSON renders an undefined longitude as null.
func (l Longitude) MarshalJSON() ([]byte, error) {
	if !l.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(l.Deg)
}

// Window is the band swept by an event longitude between "now" and
// "now minus the adhan duration".
type Window struct {
	Now Longitude `json:"now"`
	Ago Longitude `json:"ago"`
}

// Defined reports whether both bounds could be computed.
func (w Window) Defined() bool {
	return w.Now.Valid && w.Ago.Valid
}

// Contains reports whether lon lies inside the window.
func (w Window) Contains(lon float64) bool {
	return InBand(lon, w.Now, w.Ago)
}
