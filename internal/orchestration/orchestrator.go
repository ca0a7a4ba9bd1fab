package orchestration

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/imamik/forkfleet/internal/provisioning"
)

// Params configures an Orchestrator.
type Params struct {
	Hosting     provisioning.HostingClient
	Workspace   provisioning.Workspace
	Branch      string
	TemplateRef string

	// Upstreams maps each known service to its upstream repository URL.
	// Services missing from the catalog fail with an unknown-service error.
	Upstreams map[string]string

	Timeouts provisioning.Timeouts
	Sink     provisioning.StatusSink
	Logger   logr.Logger
}

// Orchestrator runs provisioning jobs for a fleet of services.
type Orchestrator struct {
	hosting     provisioning.HostingClient
	workspace   provisioning.Workspace
	branch      string
	templateRef string
	upstreams   map[string]string
	timeouts    provisioning.Timeouts
	sink        provisioning.StatusSink
	logger      logr.Logger
}

// New creates an orchestrator. A nil sink discards status updates and zero
// timeouts fall back to the defaults.
func New(p Params) *Orchestrator {
	if p.Sink == nil {
		p.Sink = provisioning.NullSink{}
	}
	if p.Logger.GetSink() == nil {
		p.Logger = logr.Discard()
	}
	if p.Timeouts == (provisioning.Timeouts{}) {
		p.Timeouts = provisioning.DefaultTimeouts()
	}
	return &Orchestrator{
		hosting:     p.Hosting,
		workspace:   p.Workspace,
		branch:      p.Branch,
		templateRef: p.TemplateRef,
		upstreams:   p.Upstreams,
		timeouts:    p.Timeouts,
		sink:        p.Sink,
		logger:      p.Logger,
	}
}

// Run holds the outcome of one fleet provisioning pass.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time

	// Results maps each requested service to its terminal result.
	Results map[string]provisioning.Result
}

// AllOK reports whether every service ended in success or skip.
func (r *Run) AllOK() bool {
	for _, res := range r.Results {
		if !res.OK() {
			return false
		}
	}
	return true
}

// Services returns the provisioned service names in sorted order.
func (r *Run) Services() []string {
	names := make([]string, 0, len(r.Results))
	for name := range r.Results {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Failed returns the error results, sorted by service name.
func (r *Run) Failed() []provisioning.Result {
	var failed []provisioning.Result
	for _, name := range r.Services() {
		if res := r.Results[name]; !res.OK() {
			failed = append(failed, res)
		}
	}
	return failed
}

// Duration returns the wall-clock time of the pass.
func (r *Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// ProvisionAll provisions every service concurrently and waits for all of
// them to finish. Duplicate names are provisioned once. The returned Run
// contains a result for each service even when some fail or panic.
func (o *Orchestrator) ProvisionAll(ctx context.Context, services []string) *Run {
	services = dedupe(services)
	run := &Run{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		Results:   make(map[string]provisioning.Result, len(services)),
	}
	o.logger.Info("starting fleet provisioning", "run", run.ID, "services", len(services))

	sink := &safeSink{next: o.sink}
	resultChan := make(chan provisioning.Result, len(services))
	for _, service := range services {
		go func() {
			resultChan <- o.provisionOne(ctx, service, sink)
		}()
	}

	for range len(services) {
		res := <-resultChan
		run.Results[res.Service] = res
	}

	run.FinishedAt = time.Now()
	recordRunMetric(run.AllOK(), run.Duration().Seconds())
	o.logger.Info("fleet provisioning finished",
		"run", run.ID, "ok", run.AllOK(), "failed", len(run.Failed()), "duration", run.Duration().String())
	return run
}

// provisionOne runs a single job and converts panics into error results so
// one misbehaving service cannot take down the whole pass.
func (o *Orchestrator) provisionOne(ctx context.Context, service string, sink provisioning.StatusSink) (result provisioning.Result) {
	start := time.Now()
	jobsInFlight.Inc()
	defer jobsInFlight.Dec()
	defer func() {
		if rec := recover(); rec != nil {
			o.logger.Error(fmt.Errorf("%v", rec), "provisioning panicked", "service", service)
			result = provisioning.Result{
				Service: service,
				Status:  provisioning.StatusError,
				Message: fmt.Sprintf("Exception: %v", rec),
			}
			sink.Update(service, provisioning.StatusError, result.Message)
		}
		recordJobMetric(service, string(result.Status), time.Since(start).Seconds())
	}()

	job := provisioning.NewJob(provisioning.JobParams{
		Service:     service,
		Branch:      o.branch,
		TemplateRef: o.templateRef,
		Upstream:    o.upstreams[service],
		Hosting:     o.hosting,
		Workspace:   o.workspace,
		Sink:        sink,
		Timeouts:    o.timeouts,
		Logger:      o.logger,
	})
	return job.Run(ctx)
}

// safeSink serializes updates from concurrently running jobs so the wrapped
// sink never observes overlapping calls.
type safeSink struct {
	mu   sync.Mutex
	next provisioning.StatusSink
}

func (s *safeSink) Update(service string, status provisioning.StatusKind, detail string) {
	recordStatusUpdateMetric(status)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next.Update(service, status, detail)
}

func dedupe(services []string) []string {
	seen := make(map[string]struct{}, len(services))
	out := make([]string, 0, len(services))
	for _, s := range services {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
