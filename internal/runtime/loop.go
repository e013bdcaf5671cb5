package runtime

import (
	"context"
	"time"
)

// Loop is a Clock backed by a ticker goroutine. Everything that touches the
// session must go through Do so it runs between ticks on that goroutine.
type Loop struct {
	interval time.Duration
	cmds     chan func()
	done     chan struct{}
	tick     func()
}

func NewLoop(interval time.Duration) *Loop {
	if interval <= 0 {
		interval = time.Second / 60
	}
	return &Loop{
		interval: interval,
		cmds:     make(chan func()),
		done:     make(chan struct{}),
	}
}

// Start and Stop only swap the tick function. Called from Do or before Run,
// they never race with a tick in flight.
func (l *Loop) Start(tick func()) { l.tick = tick }
func (l *Loop) Stop()             { l.tick = nil }

// Run drives ticks and commands until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.cmds:
			fn()
		case <-ticker.C:
			if l.tick != nil {
				l.tick()
			}
		}
	}
}

// Do runs fn on the loop goroutine and waits for it to return. A call made
// before Run blocks until Run starts; once Run has returned, Do fails with
// ErrLoopStopped. Do must not be called from a tick, a sink or another Do
// function, since those already run on the loop goroutine and would wait on
// themselves.
func (l *Loop) Do(fn func()) error {
	finished := make(chan struct{})
	select {
	case l.cmds <- func() {
		defer close(finished)
		fn()
	}:
	case <-l.done:
		return ErrLoopStopped
	}
	<-finished
	return nil
}
