// Package benchmarks provides timing estimates for repository
// provisioning stages.
package benchmarks

import (
	"strings"
	"time"

	"github.com/imamik/forkfleet/internal/provisioning"
)

// DefaultTimings are median stage durations from observed fleet runs.
// Workflow waits usually finish well before their polling budgets.
var DefaultTimings = map[provisioning.State]time.Duration{
	provisioning.StateCheckingExistence:            2 * time.Second,
	provisioning.StateSyncingKnownRepo:             10 * time.Second, // skip path, outside the creation sequence
	provisioning.StateCreatingFromTemplate:         5 * time.Second,
	provisioning.StateWaitingForInitWorkflow:       time.Minute,
	provisioning.StateAnnotatingIssue:              3 * time.Second,
	provisioning.StateWaitingForCompletionWorkflow: 2 * time.Minute,
	provisioning.StateSyncingLocal:                 15 * time.Second,
}

// StageOrder is the creation-path stage sequence.
var StageOrder = []provisioning.State{
	provisioning.StateCheckingExistence,
	provisioning.StateCreatingFromTemplate,
	provisioning.StateWaitingForInitWorkflow,
	provisioning.StateAnnotatingIssue,
	provisioning.StateWaitingForCompletionWorkflow,
	provisioning.StateSyncingLocal,
}

// Scale clamps keep a single noisy stage from blowing up or zeroing the
// whole ETA.
const (
	minScale = 0.6
	maxScale = 3.0
)

// StageRecord captures when a service entered and left one stage.
type StageRecord struct {
	Stage     provisioning.State
	StartedAt time.Time
	EndedAt   *time.Time
}

// duration returns how long the recorded stage actually took, zero while
// it is still open.
func (r StageRecord) duration() time.Duration {
	if r.EndedAt == nil {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}

// stagePosition returns the index of stage on the creation path, or -1
// for stages outside it.
func stagePosition(stage provisioning.State) int {
	for i, s := range StageOrder {
		if s == stage {
			return i
		}
	}
	return -1
}

// EstimateRemaining predicts how long one service still needs, given its
// current stage, the time spent in it, and its closed stage records.
func EstimateRemaining(current provisioning.State, stageElapsed time.Duration, history []StageRecord) time.Duration {
	return EstimateRemainingWithScale(current, stageElapsed, history, PerformanceScale(current, stageElapsed, history))
}

// EstimateRemainingWithScale predicts remaining time with a caller-chosen
// speed factor applied to every expected duration.
func EstimateRemainingWithScale(
	current provisioning.State,
	stageElapsed time.Duration,
	history []StageRecord,
	scale float64,
) time.Duration {
	pos := stagePosition(current)
	if pos < 0 {
		return 0
	}

	closed := make(map[provisioning.State]bool, len(history))
	for _, rec := range history {
		if rec.EndedAt != nil {
			closed[rec.Stage] = true
		}
	}

	var remaining time.Duration

	// The running stage contributes whatever its scaled benchmark still
	// leaves open.
	if scaled := scaleDuration(DefaultTimings[current], scale); scaled > stageElapsed {
		remaining += scaled - stageElapsed
	}

	// Stages ahead contribute their full scaled benchmark unless a
	// record shows they already ran.
	for _, stage := range StageOrder[pos+1:] {
		if closed[stage] {
			continue
		}
		remaining += scaleDuration(DefaultTimings[stage], scale)
	}

	return remaining
}

// PerformanceScale compares observed stage durations against the
// benchmarks and returns a speed factor for the remaining estimates. A
// service running 50% slower than the medians yields 1.5.
func PerformanceScale(current provisioning.State, stageElapsed time.Duration, history []StageRecord) float64 {
	var expected, actual time.Duration

	for _, rec := range history {
		benchmark, ok := DefaultTimings[rec.Stage]
		if !ok || rec.EndedAt == nil {
			continue
		}
		expected += benchmark
		actual += rec.duration()
	}

	// An overrunning current stage is folded in right away so the ETA
	// adapts before the stage closes.
	if benchmark, ok := DefaultTimings[current]; ok && stageElapsed > benchmark {
		expected += benchmark
		actual += stageElapsed
	}

	if expected == 0 || actual == 0 {
		return 1.0
	}
	return clampScale(float64(actual) / float64(expected))
}

// TotalEstimate is the expected wall time of the full creation path.
func TotalEstimate() time.Duration {
	var total time.Duration
	for _, stage := range StageOrder {
		total += DefaultTimings[stage]
	}
	return total
}

func scaleDuration(d time.Duration, scale float64) time.Duration {
	return time.Duration(float64(d) * scale)
}

func clampScale(scale float64) float64 {
	return min(max(scale, minScale), maxScale)
}

// StageForDetail maps a status detail line back onto its lifecycle stage.
// Status sinks only carry detail text, so observers that want ETAs recover
// the stage from the wording.
func StageForDetail(detail string) (provisioning.State, bool) {
	lower := strings.ToLower(detail)
	switch {
	case strings.Contains(lower, "checking if repository exists"):
		return provisioning.StateCheckingExistence, true
	case strings.Contains(lower, "repository exists"):
		return provisioning.StateSyncingKnownRepo, true
	case strings.Contains(lower, "creating repository"):
		return provisioning.StateCreatingFromTemplate, true
	case strings.Contains(lower, strings.ToLower(provisioning.InitWorkflowName)):
		return provisioning.StateWaitingForInitWorkflow, true
	case strings.Contains(lower, "commenting on initialization issue"):
		return provisioning.StateAnnotatingIssue, true
	case strings.Contains(lower, strings.ToLower(provisioning.CompletionWorkflowName)):
		return provisioning.StateWaitingForCompletionWorkflow, true
	case strings.Contains(lower, "cloning repository locally"):
		return provisioning.StateSyncingLocal, true
	}
	return "", false
}
