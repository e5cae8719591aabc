// Package scan classifies mosques as currently calling a prayer or not.
package scan

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/minaret/internal/model"
	"github.com/Nixie-Tech-LLC/minaret/internal/solar"
)

const (
	DefaultAdhanDuration = 5 * time.Minute
	DefaultInactiveCap   = 3000

	// ctx is polled once per this many mosques.
	cancelCheckInterval = 1024
)

type Config struct {
	AdhanDuration time.Duration
	InactiveCap   int
}

func DefaultConfig() Config {
	return Config{AdhanDuration: DefaultAdhanDuration, InactiveCap: DefaultInactiveCap}
}

// Scanner is stateless apart from its sampler and may be shared.
type Scanner struct {
	cfg     Config
	sampler Sampler
}

// Result holds the ordered activations, active first, and counters
// describing how they were produced.
type Result struct {
	Activations []model.Activation
	Active      int
	// Inactive counts inactive mosques before sampling.
	Inactive int
	Skipped  int
	Sampled  bool
}

func New(cfg Config, sampler Sampler) *Scanner {
	if sampler == nil {
		sampler = RandomSampler{}
	}
	if cfg.AdhanDuration <= 0 {
		cfg.AdhanDuration = DefaultAdhanDuration
	}
	if cfg.InactiveCap < 0 {
		cfg.InactiveCap = 0
	}
	return &Scanner{cfg: cfg, sampler: sampler}
}

func (s *Scanner) Config() Config {
	return s.cfg
}

// Scan filters mosques by bbox (nil means all), classifies each against
// the prayer windows at now, and returns active mosques followed by at
// most InactiveCap inactive ones. Mosques with out-of-range coordinates
// are skipped.
func (s *Scanner) Scan(ctx context.Context, mosques []model.Mosque, bbox *model.BBox, now time.Time) (Result, error) {
	now = now.UTC()

	var (
		active   []model.Activation
		inactive []model.Activation
		skipped  int
	)
	for i, m := range mosques {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
		}
		if bbox != nil && !bbox.Contains(m.Lat, m.Lon) {
			continue
		}
		if !m.ValidCoordinates() {
			skipped++
			continue
		}

		if p, ok := solar.ActivePrayer(m.Lat, m.Lon, now, s.cfg.AdhanDuration, model.Prayers); ok {
			active = append(active, model.Activation{Mosque: m, Active: true, Prayer: &p})
		} else {
			inactive = append(inactive, model.Activation{Mosque: m})
		}
	}

	res := Result{Active: len(active), Inactive: len(inactive), Skipped: skipped}
	if len(inactive) > s.cfg.InactiveCap {
		inactive = s.sampler.Take(inactive, s.cfg.InactiveCap)
		res.Sampled = true
	}

	res.Activations = make([]model.Activation, 0, len(active)+len(inactive))
	res.Activations = append(res.Activations, active...)
	res.Activations = append(res.Activations, inactive...)

	if skipped > 0 {
		log.Debug().Int("skipped", skipped).Msg("skipped mosques with invalid coordinates")
	}
	log.Debug().
		Int("returned", len(res.Activations)).
		Int("active", res.Active).
		Int("inactive", res.Inactive).
		Bool("sampled", res.Sampled).
		Msg("scan complete")

	return res, nil
}
