package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/forkfleet/internal/config"
	"github.com/imamik/forkfleet/internal/provisioning"
	"github.com/imamik/forkfleet/internal/util/retry"
)

func TestCollectStatus(t *testing.T) {
	hosting := &fakeHosting{existing: map[string]bool{"partition": true}}
	ws := &fakeWorkspace{local: map[string]bool{"partition": true, "legal": true}}

	states, err := collectStatus(context.Background(), hosting, ws, []string{"partition", "legal"})
	require.NoError(t, err)
	require.Len(t, states, 2)

	assert.Equal(t, "partition", states[0].Service)
	assert.True(t, states[0].Exists)
	assert.True(t, states[0].LocalCopy)
	assert.Equal(t, "https://github.com/osdu-forks/partition", states[0].RepoURL)

	assert.Equal(t, "legal", states[1].Service)
	assert.False(t, states[1].Exists)
	assert.True(t, states[1].LocalCopy)
	assert.Empty(t, states[1].RepoURL)
}

func TestCollectStatus_ProbeError(t *testing.T) {
	hosting := &fakeHosting{existsErr: errors.New("api down")}
	ws := &fakeWorkspace{}

	_, err := collectStatus(context.Background(), hosting, ws, []string{"partition"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "partition")
	assert.Contains(t, err.Error(), "api down")
}

func TestStatus_JSON(t *testing.T) {
	saveAndRestoreFactories(t)

	loadConfigFile = func(_ string) (*config.Config, error) { return testConfig(), nil }
	newHostingClient = func(_, _ string, _ logr.Logger, _ ...retry.Option) provisioning.HostingClient {
		return &fakeHosting{existing: map[string]bool{"partition": true, "legal": true}}
	}

	var err error
	out := captureOutput(func() {
		err = Status(context.Background(), "fleet.yaml", true)
	})
	require.NoError(t, err)

	var states []ServiceState
	require.NoError(t, json.Unmarshal([]byte(out), &states))
	require.Len(t, states, 2)
	assert.Equal(t, "partition", states[0].Service)
	assert.True(t, states[0].Exists)
	assert.Equal(t, "legal", states[1].Service)
}

func TestStatus_Table(t *testing.T) {
	saveAndRestoreFactories(t)

	loadConfigFile = func(_ string) (*config.Config, error) { return testConfig(), nil }
	newHostingClient = func(_, _ string, _ logr.Logger, _ ...retry.Option) provisioning.HostingClient {
		return &fakeHosting{existing: map[string]bool{"partition": true}}
	}

	var err error
	out := captureOutput(func() {
		err = Status(context.Background(), "fleet.yaml", false)
	})
	require.NoError(t, err)

	assert.Contains(t, out, "forkfleet: osdu-forks")
	assert.Contains(t, out, "partition")
	assert.Contains(t, out, "not created")
	assert.Contains(t, out, "1 of 2 repositories exist")
}

func TestStatus_ProbeErrorSurfaces(t *testing.T) {
	saveAndRestoreFactories(t)

	loadConfigFile = func(_ string) (*config.Config, error) { return testConfig(), nil }
	newHostingClient = func(_, _ string, _ logr.Logger, _ ...retry.Option) provisioning.HostingClient {
		return &fakeHosting{existsErr: errors.New("401 bad credentials")}
	}

	err := Status(context.Background(), "fleet.yaml", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status check failed")
}
