package checkout

import (
	"context"
	"sync"
	"time"

	"petshop/internal/logging"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// Receipt describes a completed checkout.
type Receipt struct {
	OrderID     string
	Total       decimal.Decimal
	Lines       int
	Units       int
	CompletedAt time.Time
}

// Finalizer runs checkout completion after a fixed delay. Completions are
// keyed (by session id): while one is pending, scheduling the same key
// joins it instead of starting a second one.
type Finalizer struct {
	delay time.Duration
	group singleflight.Group

	mu      sync.Mutex
	pending map[string]bool
}

// NewFinalizer creates a finalizer with the given delay.
func NewFinalizer(delay time.Duration) *Finalizer {
	if delay < 0 {
		delay = 0
	}
	return &Finalizer{
		delay:   delay,
		pending: make(map[string]bool),
	}
}

// Delay returns the configured delay.
func (f *Finalizer) Delay() time.Duration {
	return f.delay
}

// IsPending reports whether a completion for key is scheduled.
func (f *Finalizer) IsPending(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending[key]
}

// Schedule arranges for complete to run once the delay elapses. The
// completion is not tied to any caller context and always runs.
func (f *Finalizer) Schedule(key string, complete func() (Receipt, error)) *Pending {
	f.mu.Lock()
	joined := f.pending[key]
	f.pending[key] = true
	f.mu.Unlock()

	if joined {
		logging.CheckoutWarn("checkout %s already pending, joining", key)
	}

	ch := f.group.DoChan(key, func() (interface{}, error) {
		defer func() {
			f.mu.Lock()
			delete(f.pending, key)
			f.mu.Unlock()
		}()

		timer := time.NewTimer(f.delay)
		<-timer.C

		return complete()
	})

	p := &Pending{joined: joined, done: make(chan struct{})}
	go p.collect(ch)
	return p
}

// Pending is a handle on a scheduled completion.
type Pending struct {
	joined  bool
	done    chan struct{}
	receipt Receipt
	err     error
}

// Joined reports whether this handle attached to an already-pending
// completion (a repeated confirm).
func (p *Pending) Joined() bool {
	return p.joined
}

// Done is closed once the completion has run.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the completion has run or ctx is done. Abandoning the
// wait does not cancel the completion.
func (p *Pending) Wait(ctx context.Context) (Receipt, error) {
	select {
	case <-p.done:
		return p.receipt, p.err
	case <-ctx.Done():
		return Receipt{}, ctx.Err()
	}
}

func (p *Pending) collect(ch <-chan singleflight.Result) {
	res := <-ch
	if res.Err != nil {
		p.err = res.Err
	} else if r, ok := res.Val.(Receipt); ok {
		p.receipt = r
	}
	close(p.done)
}
