package services

import (
	"math"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/Tomas-vilte/ghwait/internal/config"
)

// NewBackoff builds the polling schedule: the delay starts at InitialInterval,
// grows by Multiplier, is capped at MaxInterval, randomized by JitterPercent
// and the whole wait stops after MaxElapsed. The elapsed clock starts when
// NewBackoff is called.
func NewBackoff(cfg config.BackoffConfig) retry.Backoff {
	var b retry.Backoff = multiplierBackoff(cfg.InitialInterval.Duration, cfg.Multiplier)
	b = retry.WithCappedDuration(cfg.MaxInterval.Duration, b)
	if cfg.JitterPercent > 0 {
		b = retry.WithJitterPercent(cfg.JitterPercent, b)
	}
	return retry.WithMaxDuration(cfg.MaxElapsed.Duration, b)
}

func multiplierBackoff(initial time.Duration, multiplier float64) retry.Backoff {
	next := float64(initial)
	return retry.BackoffFunc(func() (time.Duration, bool) {
		cur := next
		if grown := next * multiplier; grown < math.MaxInt64 {
			next = grown
		}
		return time.Duration(cur), false
	})
}
