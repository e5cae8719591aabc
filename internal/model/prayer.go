package model

import (
	"fmt"
	"strings"
)

// Prayer identifies one of the five daily prayers.
type Prayer int

const (
	Fajr Prayer = iota
	Dhuhr
	Asr
	Maghrib
	Isha
)

// PrayerCount is the number of prayers.
const PrayerCount = int(Isha) + 1

// Prayers lists every prayer in declared order. Scans evaluate prayers in
// this order and the first match wins.
var Prayers = []Prayer{Fajr, Dhuhr, Asr, Maghrib, Isha}

var prayerNames = [...]string{"Fajr", "Dhuhr", "Asr", "Maghrib", "Isha"}

var prayerColors = [...]string{"#ff8fa3", "#f7b801", "#f18701", "#f35b04", "#3d348b"}

func (p Prayer) Valid() bool {
	return p >= Fajr && p <= Isha
}

func (p Prayer) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Prayer(%d)", int(p))
	}
	return prayerNames[p]
}

// Color is the display color used by the map front-end.
func (p Prayer) Color() string {
	if !p.Valid() {
		return ""
	}
	return prayerColors[p]
}

func (p Prayer) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid prayer %d", int(p))
	}
	return []byte(prayerNames[p]), nil
}

func (p *Prayer) UnmarshalText(text []byte) error {
	parsed, err := ParsePrayer(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePrayer matches a prayer name case-insensitively.
func ParsePrayer(name string) (Prayer, error) {
	for i, n := range prayerNames {
		if strings.EqualFold(strings.TrimSpace(name), n) {
			return Prayer(i), nil
		}
	}
	return 0, fmt.Errorf("unknown prayer %q", name)
}

// PrayerInfo is the presentation record for a prayer.
type PrayerInfo struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}
