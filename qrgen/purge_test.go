package qrgen

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakePurger struct {
	calls chan time.Time
}

func (f *fakePurger) PurgeOlderThan(cutoff time.Time) (int64, error) {
	f.calls <- cutoff
	return 1, nil
}

func TestStartPurgeLoopPurgesImmediately(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := &fakePurger{calls: make(chan time.Time, 1)}
	StartPurgeLoop(ctx, p, 24*time.Hour, testLogger())

	select {
	case cutoff := <-p.calls:
		// The cutoff should sit roughly retention in the past.
		assert.WithinDuration(t, time.Now().Add(-24*time.Hour), cutoff, time.Minute)
	case <-time.After(2 * time.Second):
		t.Fatal("purge loop did not run an initial sweep")
	}
}

func TestStartPurgeLoopDisabledByZeroRetention(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := &fakePurger{calls: make(chan time.Time, 1)}
	StartPurgeLoop(ctx, p, 0, testLogger())

	select {
	case <-p.calls:
		t.Fatal("purge loop ran with zero retention")
	case <-time.After(100 * time.Millisecond):
	}
}
