package config

import (
	"os"
	"strconv"
	"time"

	"github.com/imamik/forkfleet/internal/provisioning"
	"github.com/imamik/forkfleet/internal/util/retry"
)

// Timeouts holds the configurable timing knobs. Every value has an
// environment override so slow GitHub runners can be accommodated
// without touching the config file.
type Timeouts struct {
	PollInterval       time.Duration // interval between workflow run polls
	InitWorkflow       time.Duration // budget for the repository init workflow
	CompletionWorkflow time.Duration // budget for the init completion workflow
	RetryMaxAttempts   int           // maximum number of API retry attempts
	RetryInitialDelay  time.Duration // initial delay between API retries
}

// LoadTimeouts reads the timing knobs from the environment. Unset or
// unparsable variables keep their defaults.
//
// Environment variables:
//   - FORKFLEET_POLL_INTERVAL (default: 10s)
//   - FORKFLEET_TIMEOUT_INIT_WORKFLOW (default: 5m)
//   - FORKFLEET_TIMEOUT_COMPLETION_WORKFLOW (default: 10m)
//   - FORKFLEET_RETRY_MAX_ATTEMPTS (default: 2)
//   - FORKFLEET_RETRY_INITIAL_DELAY (default: 2s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		PollInterval:       envOr("FORKFLEET_POLL_INTERVAL", time.ParseDuration, 10*time.Second),
		InitWorkflow:       envOr("FORKFLEET_TIMEOUT_INIT_WORKFLOW", time.ParseDuration, 5*time.Minute),
		CompletionWorkflow: envOr("FORKFLEET_TIMEOUT_COMPLETION_WORKFLOW", time.ParseDuration, 10*time.Minute),
		RetryMaxAttempts:   envOr("FORKFLEET_RETRY_MAX_ATTEMPTS", strconv.Atoi, 2),
		RetryInitialDelay:  envOr("FORKFLEET_RETRY_INITIAL_DELAY", time.ParseDuration, 2*time.Second),
	}
}

// Provisioning converts the timeouts into the per-job budget set.
func (t *Timeouts) Provisioning() provisioning.Timeouts {
	return provisioning.Timeouts{
		PollInterval:       t.PollInterval,
		InitWorkflow:       t.InitWorkflow,
		CompletionWorkflow: t.CompletionWorkflow,
	}
}

// RetryOptions converts the retry settings into backoff options for the
// hosting client.
func (t *Timeouts) RetryOptions() []retry.Option {
	return []retry.Option{
		retry.WithMaxRetries(t.RetryMaxAttempts),
		retry.WithInitialDelay(t.RetryInitialDelay),
	}
}

// envOr reads an environment override, keeping the fallback when the
// variable is unset or does not parse.
func envOr[T any](name string, parse func(string) (T, error), fallback T) T {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := parse(raw)
	if err != nil {
		return fallback
	}
	return v
}
