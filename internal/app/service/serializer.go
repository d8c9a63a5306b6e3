package service

import "sync"

// Serializer gives reaction handlers a total order: one mutation runs to
// completion, platform calls included, before the next one enters. Users
// mashing reactions break the party state without this.
//
// Admin commands do NOT pass through here; that matches the original design
// and leaves a documented race between reconfiguration and in-flight
// reactions on the same channel (see DESIGN.md).
type Serializer struct {
	mu sync.Mutex
}

func NewSerializer() *Serializer { return &Serializer{} }

func (s *Serializer) Do(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}
