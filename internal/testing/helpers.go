package testing

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/imamik/forkfleet/internal/provisioning"
)

// TestContext returns a context with a reasonable timeout for tests.
func TestContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// StatusUpdate is one captured StatusSink call.
type StatusUpdate struct {
	Service string
	Status  provisioning.StatusKind
	Detail  string
}

// RecordingSink captures every status update. Safe for concurrent use.
type RecordingSink struct {
	mu      sync.Mutex
	updates []StatusUpdate
}

// NewRecordingSink creates an empty recording sink.
func NewRecordingSink() *RecordingSink {
	return &RecordingSink{}
}

// Update implements provisioning.StatusSink.
func (s *RecordingSink) Update(service string, status provisioning.StatusKind, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, StatusUpdate{Service: service, Status: status, Detail: detail})
}

// Updates returns a copy of all captured updates in delivery order.
func (s *RecordingSink) Updates() []StatusUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]StatusUpdate, len(s.updates))
	copy(out, s.updates)
	return out
}

// ForService returns the captured updates for one service, in order.
func (s *RecordingSink) ForService(service string) []StatusUpdate {
	var out []StatusUpdate
	for _, u := range s.Updates() {
		if u.Service == service {
			out = append(out, u)
		}
	}
	return out
}

// Last returns the most recent update for a service.
func (s *RecordingSink) Last(service string) (StatusUpdate, bool) {
	updates := s.ForService(service)
	if len(updates) == 0 {
		return StatusUpdate{}, false
	}
	return updates[len(updates)-1], true
}
