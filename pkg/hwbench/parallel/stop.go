package parallel

import "sync/atomic"

// StopToken is the cooperative cancellation flag shared with time-boxed workers.
// The coordinator owns it and raises it once; workers only read it.
type StopToken struct {
	flag atomic.Bool
}

// Stop raises the token. Later calls have no effect.
func (s *StopToken) Stop() {
	s.flag.Store(true)
}

// Stopped reports whether the token has been raised.
func (s *StopToken) Stopped() bool {
	return s.flag.Load()
}
