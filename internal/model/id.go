package model

import (
	"strconv"
	"sync"
	"time"
)

// IDSource issues record identifiers of the form "<entity>-<unix-millis>".
// Two ids requested within the same millisecond get consecutive values, so
// issued ids are unique and increasing for the lifetime of the source.
type IDSource struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

// NewIDSource returns an IDSource backed by the given clock.
// A nil clock means time.Now.
func NewIDSource(now func() time.Time) *IDSource {
	if now == nil {
		now = time.Now
	}
	return &IDSource{now: now}
}

// Next returns a fresh id for the given entity prefix (e.g. "goal").
func (s *IDSource) Next(entity string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ms := s.now().UnixMilli()
	if ms <= s.last {
		ms = s.last + 1
	}
	s.last = ms
	return entity + "-" + strconv.FormatInt(ms, 10)
}
