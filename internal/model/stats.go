package model

import "time"

// PrayerStat aggregates how many mosques are currently calling a prayer.
// Target is the [lat, lon] of the first matching mosque in dataset order.
type PrayerStat struct {
	Count  int         `json:"count"`
	Target *[2]float64 `json:"target"`
}

// StatsSnapshot is a dataset-wide aggregate. GeneratedAt is the wall-clock
// time the snapshot was computed; ComputedFor is the minute-truncated
// instant the windows were evaluated at.
type StatsSnapshot struct {
	Total       int                   `json:"total"`
	Prayers     map[Prayer]PrayerStat `json:"prayers"`
	GeneratedAt time.Time             `json:"generated_at"`
	ComputedFor time.Time             `json:"computed_for"`
}

// NewStatsSnapshot returns a snapshot with a zeroed entry for every prayer.
func NewStatsSnapshot(total int) StatsSnapshot {
	s := StatsSnapshot{
		Total:   total,
		Prayers: make(map[Prayer]PrayerStat, len(Prayers)),
	}
	for _, p := range Prayers {
		s.Prayers[p] = PrayerStat{}
	}
	return s
}

// Fresh reports whether the snapshot is younger than ttl at now. A
// snapshot generated after now (a peer with a clock running ahead) is
// never fresh.
func (s StatsSnapshot) Fresh(now time.Time, ttl time.Duration) bool {
	if s.GeneratedAt.IsZero() {
		return false
	}
	age := now.Sub(s.GeneratedAt)
	return age >= 0 && age < ttl
}
