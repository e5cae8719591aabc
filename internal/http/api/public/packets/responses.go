package packets

import (
	"time"

	"github.com/Nixie-Tech-LLC/minaret/internal/model"
	"github.com/Nixie-Tech-LLC/minaret/internal/solar"
)

// RESPONSES FOR /api/get_adhans

// MosqueResponse uses short keys to keep large responses small.
type MosqueResponse struct {
	Name   string        `json:"n"`
	Lat    float64       `json:"lt"`
	Lon    float64       `json:"ln"`
	Active bool          `json:"a"`
	Prayer *model.Prayer `json:"p"`
}

func NewMosqueResponse(a model.Activation) MosqueResponse {
	return MosqueResponse{
		Name:   a.Mosque.Name,
		Lat:    a.Mosque.Lat,
		Lon:    a.Mosque.Lon,
		Active: a.Active,
		Prayer: a.Prayer,
	}
}

// RESPONSES FOR /api/stats
type StatsResponse struct {
	Total   int                               `json:"total"`
	Prayers map[model.Prayer]model.PrayerStat `json:"prayers"`
}

// RESPONSES FOR /api/prayers
type PrayersResponse struct {
	Prayers       []model.PrayerInfo `json:"prayers"`
	AdhanDuration int                `json:"adhan_duration_minutes"`
}

// RESPONSES FOR /api/sun
type SunResponse struct {
	Lat     float64        `json:"lat"`
	Lon     float64        `json:"lon"`
	At      time.Time      `json:"at"`
	Sunrise *time.Time     `json:"sunrise"`
	Sunset  *time.Time     `json:"sunset"`
	Prayers []PrayerWindow `json:"prayers"`
	Active  *model.Prayer  `json:"active"`
}

type PrayerWindow struct {
	Name   model.Prayer `json:"name"`
	Color  string       `json:"color"`
	Window solar.Window `json:"window"`
	Inside bool         `json:"inside"`
}

// RESPONSES FOR /healthz
type HealthResponse struct {
	Status   string    `json:"status"`
	Mosques  int       `json:"mosques"`
	Source   string    `json:"source"`
	LoadedAt time.Time `json:"loaded_at"`
	Uptime   string    `json:"uptime"`
}
