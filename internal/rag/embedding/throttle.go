package embedding

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Throttle is the process-wide pacing gate for the external embedding API.
// One instance is shared by every embedder and every concurrent request so
// outbound calls can never burst past the provider's rate limit.
type Throttle struct {
	limiter *rate.Limiter
}

func NewThrottle(minInterval time.Duration) *Throttle {
	return &Throttle{
		limiter: rate.NewLimiter(rate.Every(minInterval), 1),
	}
}

// Wait blocks until the next call slot is available or ctx is cancelled.
func (t *Throttle) Wait(ctx context.Context) error {
	return t.limiter.Wait(ctx)
}
