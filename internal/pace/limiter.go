package pace

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer blocks until the next paced operation may start.
type Pacer interface {
	Wait(ctx context.Context) error
}

// Interval keeps consecutive operations at least the configured interval
// apart. The first Wait returns immediately.
type Interval struct {
	lim *rate.Limiter
}

func NewInterval(every time.Duration) *Interval {
	if every <= 0 {
		return &Interval{lim: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Interval{lim: rate.NewLimiter(rate.Every(every), 1)}
}

func (p *Interval) Wait(ctx context.Context) error {
	return p.lim.Wait(ctx)
}

// None never waits.
type None struct{}

func (None) Wait(context.Context) error { return nil }
