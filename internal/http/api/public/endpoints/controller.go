package endpoints

import (
	"time"

	"github.com/Nixie-Tech-LLC/minaret/internal/dataset"
	"github.com/Nixie-Tech-LLC/minaret/internal/scan"
	"github.com/Nixie-Tech-LLC/minaret/internal/stats"
)

// PublicController serves the read-only map endpoints.
type PublicController struct {
	dataset    *dataset.Dataset
	scanner    *scan.Scanner
	aggregator *stats.Aggregator
	now        func() time.Time
	startedAt  time.Time
}

type Option func(*PublicController)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(p *PublicController) { p.now = now }
}

func NewPublicController(ds *dataset.Dataset, scanner *scan.Scanner, agg *stats.Aggregator, opts ...Option) *PublicController {
	p := &PublicController{
		dataset:    ds,
		scanner:    scanner,
		aggregator: agg,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.startedAt = p.now()
	return p
}
