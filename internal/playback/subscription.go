package playback

// Subscriptions collects event-source detach functions for the lifetime of
// one session, so tearing the session down never depends on callers pairing
// every add with a remove by hand.
type Subscriptions struct {
	detach []func()
	closed bool
}

// Add registers a detach function to run on Close. A nil detach is ignored.
func (s *Subscriptions) Add(detach func()) {
	if detach == nil || s.closed {
		return
	}
	s.detach = append(s.detach, detach)
}

// Close detaches everything in reverse registration order. Closing twice is
// a no-op.
func (s *Subscriptions) Close() {
	if s.closed {
		return
	}
	s.closed = true
	for i := len(s.detach) - 1; i >= 0; i-- {
		s.detach[i]()
	}
	s.detach = nil
}
