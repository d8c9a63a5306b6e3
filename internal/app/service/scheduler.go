package service

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Scheduler runs fire-and-forget deferred tasks (grace-period sweeps,
// delayed message deletes). There is no cancellation: callbacks must be
// idempotent and treat "target already gone" as a normal outcome. A fake
// clock goes in for tests.
type Scheduler struct {
	clock clockwork.Clock
}

func NewScheduler(clock clockwork.Clock) *Scheduler {
	return &Scheduler{clock: clock}
}

func (s *Scheduler) After(d time.Duration, fn func()) {
	go func() {
		<-s.clock.After(d)
		fn()
	}()
}
