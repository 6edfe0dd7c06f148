package service

import (
	"sync"
	"time"
)

// timerKind names one of the delayed transitions a session can have pending
type timerKind string

const (
	timerForfeit   timerKind = "forfeit"
	timerSkip      timerKind = "skip"
	timerAutoMove  timerKind = "auto_move"
	timerAutoRoll  timerKind = "auto_roll"
	timerAnimation timerKind = "animation"
)

var allTimerKinds = []timerKind{timerForfeit, timerSkip, timerAutoMove, timerAutoRoll, timerAnimation}

type timerEntry struct {
	timer *time.Timer
	gen   uint64
}

// scheduler keeps at most one timer per session and kind. Each timer carries
// a generation; a callback must claim its generation before acting, so a
// timer that was cancelled after it fired never acts.
type scheduler struct {
	mu      sync.Mutex
	gen     uint64
	timers  map[string]map[timerKind]*timerEntry
	stopped bool
}

func newScheduler() *scheduler {
	return &scheduler{timers: make(map[string]map[timerKind]*timerEntry)}
}

// schedule arms a timer unless one of the same kind is already pending.
// It reports whether a new timer was armed.
func (sc *scheduler) schedule(sessionID string, kind timerKind, d time.Duration, fire func(gen uint64)) bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.stopped {
		return false
	}
	kinds := sc.timers[sessionID]
	if kinds == nil {
		kinds = make(map[timerKind]*timerEntry)
		sc.timers[sessionID] = kinds
	}
	if _, ok := kinds[kind]; ok {
		return false
	}

	sc.gen++
	gen := sc.gen
	kinds[kind] = &timerEntry{
		gen:   gen,
		timer: time.AfterFunc(d, func() { fire(gen) }),
	}
	return true
}

func (sc *scheduler) pending(sessionID string, kind timerKind) bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	_, ok := sc.timers[sessionID][kind]
	return ok
}

// claim removes the entry if it still belongs to gen
func (sc *scheduler) claim(sessionID string, kind timerKind, gen uint64) bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	entry, ok := sc.timers[sessionID][kind]
	if !ok || entry.gen != gen {
		return false
	}
	delete(sc.timers[sessionID], kind)
	return true
}

func (sc *scheduler) cancel(sessionID string, kind timerKind) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if entry, ok := sc.timers[sessionID][kind]; ok {
		entry.timer.Stop()
		delete(sc.timers[sessionID], kind)
	}
}

func (sc *scheduler) cancelSession(sessionID string) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	for _, entry := range sc.timers[sessionID] {
		entry.timer.Stop()
	}
	delete(sc.timers, sessionID)
}

// stop cancels everything and refuses new timers
func (sc *scheduler) stop() {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	for _, kinds := range sc.timers {
		for _, entry := range kinds {
			entry.timer.Stop()
		}
	}
	sc.timers = make(map[string]map[timerKind]*timerEntry)
	sc.stopped = true
}
