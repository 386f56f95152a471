package identity

import "time"

var DummyPasswordHash = dummyPasswordHash

func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}
