package scan

import (
	"math/rand/v2"
	"sync"

	"github.com/Nixie-Tech-LLC/minaret/internal/model"
)

// Sampler reduces items to at most n entries. Implementations must
// return items unchanged when len(items) <= n.
type Sampler interface {
	Take(items []model.Activation, n int) []model.Activation
}

// RandomSampler draws a uniform sample without replacement from the
// global source. Results differ between calls.
type RandomSampler struct{}

func (RandomSampler) Take(items []model.Activation, n int) []model.Activation {
	return take(items, n, rand.IntN)
}

// SeededSampler draws from its own source, so a fixed seed and call
// sequence gives reproducible samples. Safe for concurrent use.
type SeededSampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewSeededSampler(seed uint64) *SeededSampler {
	return &SeededSampler{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *SeededSampler) Take(items []model.Activation, n int) []model.Activation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return take(items, n, s.rng.IntN)
}

// take runs a partial Fisher-Yates shuffle over a copy of the indices.
func take(items []model.Activation, n int, intN func(int) int) []model.Activation {
	if n < 0 {
		n = 0
	}
	if len(items) <= n {
		return items
	}
	idx := make([]int, len(items))
	for i := range idx {
		idx[i] = i
	}
	out := make([]model.Activation, n)
	for i := 0; i < n; i++ {
		j := i + intN(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
		out[i] = items[idx[i]]
	}
	return out
}
