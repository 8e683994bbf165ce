package notify

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSeverityOf(t *testing.T) {
	assert.Equal(t, SeveritySuccess, SeverityOf(Added))
	assert.Equal(t, SeverityInfo, SeverityOf(Merged))
	assert.Equal(t, SeverityWarning, SeverityOf(Removed))
	assert.Equal(t, SeverityError, SeverityOf(InsufficientStock))
	assert.Equal(t, SeverityWarning, SeverityOf(FormIncomplete))
	assert.Equal(t, SeveritySuccess, SeverityOf(CheckoutCompleted))
	assert.Equal(t, SeverityInfo, SeverityOf(FavoriteRemoved))
}

func TestNewFormatsMessage(t *testing.T) {
	e := New(Added, 7, "%s added to cart", "Syrup")
	assert.Equal(t, "Syrup added to cart", e.Message)
	assert.Equal(t, 7, e.ProductID)
	assert.Equal(t, SeveritySuccess, e.Severity)
	assert.False(t, e.At.IsZero())
}

func TestRecorderLimit(t *testing.T) {
	r := NewRecorder(2)
	r.Notify(New(Added, 1, "a"))
	r.Notify(New(Merged, 1, "b"))
	r.Notify(New(Removed, 1, "c"))

	assert.Equal(t, []Kind{Merged, Removed}, r.Kinds())
	last, ok := r.Last()
	require.True(t, ok)
	assert.Equal(t, "c", last.Message)

	r.Reset()
	_, ok = r.Last()
	assert.False(t, ok)
}

func TestRecorderConcurrent(t *testing.T) {
	r := NewRecorder(0)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.Notify(New(Updated, i, "u"))
		}(i)
	}
	wg.Wait()
	assert.Len(t, r.Events(), 50)
}

func TestMultiFansOut(t *testing.T) {
	a, b := NewRecorder(0), NewRecorder(0)
	Multi(a, nil, b).Notify(New(FavoriteAdded, 2, "fav"))
	assert.Equal(t, []Kind{FavoriteAdded}, a.Kinds())
	assert.Equal(t, []Kind{FavoriteAdded}, b.Kinds())

	Discard.Notify(New(Added, 1, "ignored"))
}

func TestZapSinkLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s := NewZapSink(zap.New(core))

	s.Notify(New(InsufficientStock, 1, "no stock"))
	s.Notify(New(Removed, 1, "removed"))
	s.Notify(New(CheckoutCompleted, 0, "done"))

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, int64(1), entries[0].ContextMap()["product_id"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.InfoLevel, entries[2].Level)
	_, hasProduct := entries[2].ContextMap()["product_id"]
	assert.False(t, hasProduct)

	NewZapSink(nil).Notify(New(Added, 1, "nop"))
}
