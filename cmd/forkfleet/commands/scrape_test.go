package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScrape(t *testing.T) {
	cmd := Scrape()

	require.NotNil(t, cmd)
	assert.Equal(t, "scrape [transcript]", cmd.Use)
	assert.Equal(t, "Extract fleet status from an agent transcript", cmd.Short)
}

func TestScrape_AcceptsAtMostOneArg(t *testing.T) {
	cmd := Scrape()
	require.NotNil(t, cmd.Args)

	assert.NoError(t, cmd.Args(cmd, nil))
	assert.NoError(t, cmd.Args(cmd, []string{"agent.log"}))
	assert.Error(t, cmd.Args(cmd, []string{"a.log", "b.log"}))
}

func TestScrape_RunE(t *testing.T) {
	cmd := Scrape()
	assert.NotNil(t, cmd.RunE, "Scrape command should have RunE function")
}
