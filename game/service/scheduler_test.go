package service

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestScheduler_FiresOnce(t *testing.T) {
	sc := newScheduler()
	defer sc.stop()

	fired := make(chan uint64, 2)
	if !sc.schedule("abcd", timerSkip, time.Millisecond, func(gen uint64) { fired <- gen }) {
		t.Fatal("Expected timer to be armed")
	}
	if sc.schedule("abcd", timerSkip, time.Millisecond, func(gen uint64) { fired <- gen }) {
		t.Error("Expected second timer of the same kind to be refused")
	}
	if !sc.pending("abcd", timerSkip) {
		t.Error("Expected timer to be pending")
	}

	select {
	case gen := <-fired:
		if !sc.claim("abcd", timerSkip, gen) {
			t.Error("Expected first claim to succeed")
		}
		if sc.claim("abcd", timerSkip, gen) {
			t.Error("Expected second claim to fail")
		}
	case <-time.After(time.Second):
		t.Fatal("Timer did not fire")
	}
	if sc.pending("abcd", timerSkip) {
		t.Error("Expected claimed timer to be gone")
	}
}

func TestScheduler_CancelledTimerCannotClaim(t *testing.T) {
	sc := newScheduler()
	defer sc.stop()

	var acted atomic.Bool
	fire := func(gen uint64) {
		if sc.claim("abcd", timerAutoRoll, gen) {
			acted.Store(true)
		}
	}

	sc.schedule("abcd", timerAutoRoll, 20*time.Millisecond, fire)
	sc.cancel("abcd", timerAutoRoll)
	time.Sleep(50 * time.Millisecond)
	if acted.Load() {
		t.Error("Expected cancelled timer not to act")
	}

	// A stale generation loses against a re-armed timer of the same kind
	sc.schedule("abcd", timerAutoRoll, time.Hour, fire)
	if sc.claim("abcd", timerAutoRoll, 1) {
		t.Error("Expected stale generation to be refused")
	}
}

func TestScheduler_CancelSessionAndStop(t *testing.T) {
	sc := newScheduler()
	noop := func(uint64) {}

	sc.schedule("aaaa", timerForfeit, time.Hour, noop)
	sc.schedule("aaaa", timerAnimation, time.Hour, noop)
	sc.schedule("bbbb", timerSkip, time.Hour, noop)

	sc.cancelSession("aaaa")
	if sc.pending("aaaa", timerForfeit) || sc.pending("aaaa", timerAnimation) {
		t.Error("Expected session timers cancelled")
	}
	if !sc.pending("bbbb", timerSkip) {
		t.Error("Expected other sessions untouched")
	}

	sc.stop()
	if sc.pending("bbbb", timerSkip) {
		t.Error("Expected stop to cancel everything")
	}
	if sc.schedule("bbbb", timerSkip, time.Millisecond, noop) {
		t.Error("Expected stopped scheduler to refuse timers")
	}
}
