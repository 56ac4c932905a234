// Package fraud provides the risk-scoring oracle consulted for
// high-value transfers.
package fraud

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/iho/vaultbank/internal/domain"
)

// Oracle scores transfer attempts. Scores are drawn from a seeded
// random source, which is a stand-in for a real scoring service; the
// authorizer treats the oracle as opaque either way.
type Oracle struct {
	mu      sync.Mutex
	rng     *rand.Rand
	latency time.Duration
}

// Option configures an Oracle.
type Option func(*Oracle)

// WithSeed makes the oracle deterministic. Used by tests and demos.
func WithSeed(seed int64) Option {
	return func(o *Oracle) {
		o.rng = rand.New(rand.NewSource(seed))
	}
}

// WithLatency adds a fixed delay to every assessment, simulating a
// remote scoring call.
func WithLatency(d time.Duration) Option {
	return func(o *Oracle) {
		o.latency = d
	}
}

// NewOracle creates a new scoring oracle.
func NewOracle(opts ...Option) *Oracle {
	o := &Oracle{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Assess returns a risk assessment for the given evidence and amount.
// The context deadline is honored when latency is configured.
func (o *Oracle) Assess(ctx context.Context, _ domain.VerificationEvidence, _ int64) (domain.RiskAssessment, error) {
	if o.latency > 0 {
		timer := time.NewTimer(o.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return domain.RiskAssessment{}, ctx.Err()
		case <-timer.C:
		}
	}

	o.mu.Lock()
	score := o.rng.Float64() * 100
	o.mu.Unlock()

	return domain.RiskAssessment{
		Score: score,
		Level: domain.RiskLevelForScore(score),
	}, nil
}
