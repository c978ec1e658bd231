// Package rarity picks display names for ephemeral rooms from
// weight-banded pools, lottery style.
package rarity

import (
	"math/rand"
	"sync"
	"time"

	"github.com/voixlab/portier/internal/config"
)

type tier struct {
	weight float64
	names  []string
}

// Selector partitions [0, 100) into cumulative bands, one per tier in
// fixed common, rare, epic, legendary order. Reordering the tiers would
// change the effective odds, so the order is baked in here.
type Selector struct {
	tiers []tier

	// rand.Rand is not safe for concurrent callers, and presence
	// handlers for different users run in parallel.
	mu  sync.Mutex
	rng *rand.Rand
}

func NewSelector(cfg *config.Config) *Selector {
	return &Selector{
		tiers: []tier{
			{weight: cfg.Common.Weight, names: cfg.Common.Names},
			{weight: cfg.Rare.Weight, names: cfg.Rare.Names},
			{weight: cfg.Epic.Weight, names: cfg.Epic.Names},
			{weight: cfg.Legendary.Weight, names: cfg.Legendary.Names},
		},
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Pick draws one name. The second return is false when the draw lands
// past the cumulative weight total or the matched pool is empty; the
// caller decides what the fallback name is.
func (s *Selector) Pick() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pick(s.rng.Float64()*100, s.rng.Intn)
}

func (s *Selector) pick(roll float64, choose func(n int) int) (string, bool) {
	cumulative := 0.0
	for _, t := range s.tiers {
		cumulative += t.weight
		if roll < cumulative {
			if len(t.names) == 0 {
				return "", false
			}
			return t.names[choose(len(t.names))], true
		}
	}
	return "", false
}
