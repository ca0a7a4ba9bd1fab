package provisioning

import (
	"github.com/go-logr/logr"
)

// NullSink discards all updates.
type NullSink struct{}

// Update implements StatusSink.
func (NullSink) Update(string, StatusKind, string) {}

// MultiSink delivers every update to each wrapped sink, in order.
// It is as concurrency-safe as its slowest member; the sinks themselves
// must tolerate concurrent invocation.
type MultiSink struct {
	sinks []StatusSink
}

// NewMultiSink combines sinks into one. Nil members are dropped.
func NewMultiSink(sinks ...StatusSink) *MultiSink {
	m := &MultiSink{}
	for _, s := range sinks {
		if s != nil {
			m.sinks = append(m.sinks, s)
		}
	}
	return m
}

// Update implements StatusSink.
func (m *MultiSink) Update(service string, status StatusKind, detail string) {
	for _, s := range m.sinks {
		s.Update(service, status, detail)
	}
}

// LogrSink logs every update through a logr.Logger. Used for plain output
// mode where no live dashboard is attached.
type LogrSink struct {
	logger logr.Logger
}

// NewLogrSink creates a sink over the given logger.
func NewLogrSink(logger logr.Logger) *LogrSink {
	return &LogrSink{logger: logger}
}

// Update implements StatusSink.
func (s *LogrSink) Update(service string, status StatusKind, detail string) {
	s.logger.Info(detail, "service", service, "status", string(status))
}
