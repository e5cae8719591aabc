package model

// DefaultMosqueName is used for rows with no name.
const DefaultMosqueName = "Mosque"

// Mosque is a single geolocated point from the dataset.
type Mosque struct {
	Name string  `db:"name" json:"name"`
	Lat  float64 `db:"lat"  json:"lat"`
	Lon  float64 `db:"lon"  json:"lon"`
}

// ValidCoordinates reports whether the latitude is in [-90,90] and the
// longitude in [-180,180].
func (m Mosque) ValidCoordinates() bool {
	return ValidLatLon(m.Lat, m.Lon)
}

func ValidLatLon(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// Activation is the per-request classification of a mosque.
type Activation struct {
	Mosque Mosque
	Active bool
	Prayer *Prayer
}
