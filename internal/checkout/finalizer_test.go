package checkout

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestFinalizerRunsAfterDelay(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := NewFinalizer(50 * time.Millisecond)
	start := time.Now()

	p := f.Schedule("s1", func() (Receipt, error) {
		return Receipt{OrderID: "o1", Total: decimal.NewFromInt(10)}, nil
	})
	assert.True(t, f.IsPending("s1"))
	assert.False(t, p.Joined())

	r, err := p.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "o1", r.OrderID)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	assert.False(t, f.IsPending("s1"))
}

func TestFinalizerJoinsPendingCompletion(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := NewFinalizer(100 * time.Millisecond)
	var runs atomic.Int32
	complete := func() (Receipt, error) {
		n := runs.Add(1)
		return Receipt{Lines: int(n)}, nil
	}

	first := f.Schedule("s1", complete)
	second := f.Schedule("s1", complete)
	assert.False(t, first.Joined())
	assert.True(t, second.Joined())

	r1, err := first.Wait(context.Background())
	require.NoError(t, err)
	r2, err := second.Wait(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(1), runs.Load())
	assert.Equal(t, r1, r2)
}

func TestFinalizerKeysAreIndependent(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := NewFinalizer(10 * time.Millisecond)
	var runs atomic.Int32
	complete := func() (Receipt, error) {
		runs.Add(1)
		return Receipt{}, nil
	}

	var wg sync.WaitGroup
	for _, key := range []string{"a", "b", "c"} {
		p := f.Schedule(key, complete)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = p.Wait(context.Background())
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(3), runs.Load())
}

func TestFinalizerPropagatesError(t *testing.T) {
	defer goleak.VerifyNone(t)

	boom := errors.New("boom")
	p := NewFinalizer(0).Schedule("s", func() (Receipt, error) { return Receipt{}, boom })

	_, err := p.Wait(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestAbandonedWaitStillCompletes(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := NewFinalizer(50 * time.Millisecond)
	ran := make(chan struct{})
	p := f.Schedule("s", func() (Receipt, error) {
		close(ran)
		return Receipt{}, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("completion did not run")
	}
	<-p.Done()
}

func TestNegativeDelayClamped(t *testing.T) {
	assert.Equal(t, time.Duration(0), NewFinalizer(-time.Second).Delay())
}
