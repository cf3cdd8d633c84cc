package framework

import (
	"context"
	"time"
)

// Named is an abstraction for things with a name.
type Named interface {
	Name() string
}

// Runnable defines a generic interface for background runners.
type Runnable interface {
	Run(context.Context) error
}

// RunFunc is the func form of Runnable.
type RunFunc func(context.Context) error

// Run implements Runnable.
func (f RunFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// Periodic calls Func every Interval until the context is canceled.
// An error returned by Func stops the Periodic unless IgnoreErrors is set,
// in which case it's passed to OnError.
type Periodic struct {
	Interval     time.Duration
	Func         func(context.Context) error
	IgnoreErrors bool
	OnError      func(error)
}

// Run implements Runnable.
func (p *Periodic) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if err := p.Func(ctx); err != nil {
			if !p.IgnoreErrors {
				return err
			}
			if p.OnError != nil {
				p.OnError(err)
			}
		}
	}
}
