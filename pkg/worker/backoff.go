package worker

import (
	"math"
	"math/rand"
	"time"
)

//nolint:gosec
var randFloat = rand.New(rand.NewSource(time.Now().UnixNano())).Float64

// BackoffStrategy returns the delay before the given retry attempt.
type BackoffStrategy interface {
	Backoff(attempt int) time.Duration
}

type BackoffFunc func(attempt int) time.Duration

func (f BackoffFunc) Backoff(attempt int) time.Duration { return f(attempt) }

type ConstBackoff struct {
	Delay time.Duration
}

func (c ConstBackoff) Backoff(int) time.Duration { return c.Delay }

// ExponentialBackoff grows InitialDelay by Multiplier per attempt, capped at
// MaxDelay, plus up to Jitter of the delay at random.
type ExponentialBackoff struct {
	Multiplier   float64
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Jitter       float64
}

func (b *ExponentialBackoff) Backoff(attempt int) time.Duration {
	d := time.Duration(float64(b.InitialDelay) * math.Pow(b.Multiplier, float64(attempt-1)))
	if b.MaxDelay > 0 && d > b.MaxDelay {
		d = b.MaxDelay
	}
	if b.Jitter > 0 {
		d += time.Duration(randFloat() * b.Jitter * float64(d))
	}
	return d
}

var DefaultExponentialBackoff = &ExponentialBackoff{
	Multiplier:   1.6,
	InitialDelay: time.Second,
	MaxDelay:     15 * time.Minute,
	Jitter:       0.2,
}
