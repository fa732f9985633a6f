package gateway

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/sethvargo/go-retry"
)

// Backoff computes the wait before each retry: Unit * Base^(i+1) for failed
// attempt i, plus a uniform jitter in [0, MaxJitter). Max caps the total wait
// when non-zero.
type Backoff struct {
	Base      float64
	Unit      time.Duration
	MaxJitter time.Duration
	Max       time.Duration
}

// DefaultBackoff waits 3s, 9s, 27s, ... plus up to 2s of jitter.
func DefaultBackoff() Backoff {
	return Backoff{
		Base:      3,
		Unit:      time.Second,
		MaxJitter: 2 * time.Second,
	}
}

// Delay returns the jitter-free wait after failed attempt i (zero-based).
func (b Backoff) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	d := float64(b.Unit) * math.Pow(b.Base, float64(attempt+1))
	if d >= math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(d)
}

// Jitter returns a random duration in [0, MaxJitter) drawn from rnd, which
// must return values in [0, 1).
func (b Backoff) Jitter(rnd func() float64) time.Duration {
	if b.MaxJitter <= 0 {
		return 0
	}
	return time.Duration(rnd() * float64(b.MaxJitter))
}

// sequence returns a go-retry backoff yielding Delay(0)+jitter,
// Delay(1)+jitter, ... capped at Max. It never stops on its own; the executor
// bounds it with retry.WithMaxRetries.
func (b Backoff) sequence(rnd func() float64) retry.Backoff {
	if rnd == nil {
		rnd = rand.Float64
	}

	attempt := 0
	var next retry.Backoff = retry.BackoffFunc(func() (time.Duration, bool) {
		d := b.Delay(attempt) + b.Jitter(rnd)
		if d < 0 {
			d = time.Duration(math.MaxInt64)
		}
		attempt++
		return d, false
	})

	if b.Max > 0 {
		next = retry.WithCappedDuration(b.Max, next)
	}
	return next
}
