// Package stats computes the dataset-wide count of mosques calling each
// prayer, behind a single-slot TTL cache.
package stats

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/Nixie-Tech-LLC/minaret/internal/model"
	"github.com/Nixie-Tech-LLC/minaret/internal/solar"
)

const (
	DefaultTTL               = 30 * time.Second
	DefaultReferenceLatitude = 30.0
	DefaultAdhanDuration     = 5 * time.Minute

	flightKey           = "stats"
	cancelCheckInterval = 1024
)

// ErrEmptyDataset is returned instead of caching a snapshot of nothing.
var ErrEmptyDataset = errors.New("dataset is empty")

// IsTransient reports whether err should be retried on the next request
// rather than treated as a permanent failure.
func IsTransient(err error) bool {
	return errors.Is(err, ErrEmptyDataset) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

type Config struct {
	AdhanDuration     time.Duration
	TTL               time.Duration
	ReferenceLatitude float64
	// Workers bounds the number of goroutines counting dataset chunks.
	Workers int
}

func DefaultConfig() Config {
	return Config{
		AdhanDuration:     DefaultAdhanDuration,
		TTL:               DefaultTTL,
		ReferenceLatitude: DefaultReferenceLatitude,
		Workers:           runtime.GOMAXPROCS(0),
	}
}

// SnapshotStore shares snapshots between replicas.
type SnapshotStore interface {
	LoadSnapshot(ctx context.Context) (model.StatsSnapshot, bool, error)
	SaveSnapshot(ctx context.Context, snap model.StatsSnapshot, ttl time.Duration) error
}

// Publisher is notified of every freshly computed snapshot.
type Publisher interface {
	PublishSnapshot(ctx context.Context, snap model.StatsSnapshot) error
}

type Option func(*Aggregator)

func WithStore(s SnapshotStore) Option {
	return func(a *Aggregator) { a.store = s }
}

func WithPublisher(p Publisher) Option {
	return func(a *Aggregator) { a.publisher = p }
}

// Aggregator owns the cached snapshot. Concurrent callers that miss the
// cache share a single recomputation.
type Aggregator struct {
	cfg       Config
	store     SnapshotStore
	publisher Publisher

	mu   sync.RWMutex
	snap *model.StatsSnapshot

	group singleflight.Group
}

func New(cfg Config, opts ...Option) *Aggregator {
	if cfg.AdhanDuration <= 0 {
		cfg.AdhanDuration = DefaultAdhanDuration
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	a := &Aggregator{cfg: cfg}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Get returns the cached snapshot while it is younger than the TTL at now,
// and otherwise recomputes it over mosques. A failed or cancelled
// recomputation leaves the cache untouched.
func (a *Aggregator) Get(ctx context.Context, mosques []model.Mosque, now time.Time) (model.StatsSnapshot, error) {
	now = now.UTC()
	if snap, ok := a.cached(now); ok {
		log.Debug().Time("generated_at", snap.GeneratedAt).Msg("returning cached stats")
		return snap, nil
	}

	for {
		ch := a.group.DoChan(flightKey, func() (any, error) {
			return a.refresh(ctx, mosques, now)
		})

		select {
		case <-ctx.Done():
			return model.StatsSnapshot{}, ctx.Err()
		case res := <-ch:
			if res.Err != nil {
				// The caller that led the flight went away; ours is still
				// live so start a new flight.
				if res.Shared && ctx.Err() == nil && isContextErr(res.Err) {
					continue
				}
				return model.StatsSnapshot{}, res.Err
			}
			return res.Val.(model.StatsSnapshot), nil
		}
	}
}

func (a *Aggregator) cached(now time.Time) (model.StatsSnapshot, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.snap == nil || !a.snap.Fresh(now, a.cfg.TTL) {
		return model.StatsSnapshot{}, false
	}
	return *a.snap, true
}

func (a *Aggregator) set(snap model.StatsSnapshot) {
	a.mu.Lock()
	a.snap = &snap
	a.mu.Unlock()
}

func (a *Aggregator) refresh(ctx context.Context, mosques []model.Mosque, now time.Time) (model.StatsSnapshot, error) {
	// A flight that finished just before this one started may already
	// have filled the slot.
	if snap, ok := a.cached(now); ok {
		return snap, nil
	}

	if a.store != nil {
		snap, ok, err := a.store.LoadSnapshot(ctx)
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("failed to load shared stats snapshot")
		case ok && snap.GeneratedAt.After(now):
			log.Warn().
				Time("generated_at", snap.GeneratedAt).
				Time("now", now).
				Msg("ignoring shared stats snapshot from the future")
		case ok && snap.Fresh(now, a.cfg.TTL):
			a.set(snap)
			log.Debug().Time("generated_at", snap.GeneratedAt).Msg("using shared stats snapshot")
			return snap, nil
		}
	}

	start := time.Now()
	snap, err := a.Compute(ctx, mosques, now)
	if err != nil {
		return model.StatsSnapshot{}, err
	}
	a.set(snap)

	counts := zerolog.Dict()
	for _, p := range model.Prayers {
		counts.Int(p.String(), snap.Prayers[p].Count)
	}
	log.Info().
		Int("mosques", snap.Total).
		Dur("elapsed", time.Since(start)).
		Dict("counts", counts).
		Msg("stats calculated")

	if a.store != nil {
		if err := a.store.SaveSnapshot(ctx, snap, a.cfg.TTL); err != nil {
			log.Warn().Err(err).Msg("failed to save shared stats snapshot")
		}
	}
	if a.publisher != nil {
		if err := a.publisher.PublishSnapshot(ctx, snap); err != nil {
			log.Warn().Err(err).Msg("failed to publish stats snapshot")
		}
	}
	return snap, nil
}

// Compute builds a snapshot without touching the cache. Windows are
// evaluated at now truncated to the minute so recomputations within one
// minute agree.
//
// A prayer whose window is undefined at the reference latitude is skipped
// for the whole dataset, even though mosques at other latitudes might have
// a defined window.
func (a *Aggregator) Compute(ctx context.Context, mosques []model.Mosque, now time.Time) (model.StatsSnapshot, error) {
	if len(mosques) == 0 {
		return model.StatsSnapshot{}, ErrEmptyDataset
	}

	now = now.UTC()
	minute := now.Truncate(time.Minute)

	candidates := make([]model.Prayer, 0, len(model.Prayers))
	for _, p := range model.Prayers {
		if solar.WindowAt(a.cfg.ReferenceLatitude, p, minute, a.cfg.AdhanDuration).Defined() {
			candidates = append(candidates, p)
		} else {
			log.Debug().Str("prayer", p.String()).Msg("window undefined at reference latitude, skipping")
		}
	}

	snap := model.NewStatsSnapshot(len(mosques))
	snap.GeneratedAt = now
	snap.ComputedFor = minute

	if len(candidates) > 0 {
		tallies, err := a.count(ctx, mosques, minute, candidates)
		if err != nil {
			return model.StatsSnapshot{}, err
		}
		for _, t := range tallies {
			for _, p := range model.Prayers {
				stat := snap.Prayers[p]
				stat.Count += t.counts[p]
				if stat.Target == nil && t.targets[p] != nil {
					stat.Target = t.targets[p]
				}
				snap.Prayers[p] = stat
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return model.StatsSnapshot{}, err
	}
	return snap, nil
}

type tally struct {
	counts  [model.PrayerCount]int
	targets [model.PrayerCount]*[2]float64
}

// count splits mosques into contiguous chunks and tallies each one on its
// own goroutine. Tallies are returned in chunk order so the first target
// found in dataset order wins when merged.
func (a *Aggregator) count(ctx context.Context, mosques []model.Mosque, at time.Time, prayers []model.Prayer) ([]tally, error) {
	workers := min(a.cfg.Workers, len(mosques))
	size := (len(mosques) + workers - 1) / workers
	tallies := make([]tally, workers)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		lo := i * size
		hi := min(lo+size, len(mosques))
		if lo >= hi {
			continue
		}
		g.Go(func() error {
			t := &tallies[i]
			for j, m := range mosques[lo:hi] {
				if j%cancelCheckInterval == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				if !m.ValidCoordinates() {
					continue
				}
				p, ok := solar.ActivePrayer(m.Lat, m.Lon, at, a.cfg.AdhanDuration, prayers)
				if !ok {
					continue
				}
				t.counts[p]++
				if t.targets[p] == nil {
					t.targets[p] = &[2]float64{m.Lat, m.Lon}
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tallies, nil
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
