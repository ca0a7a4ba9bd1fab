package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWizardResultToConfig(t *testing.T) {
	result := &WizardResult{
		Organization: "osdu-forks",
		Template:     "osdu-forks/service-template",
		CloneRoot:    "repos",
		Services:     []string{"partition", "search"},
		Archive:      true,
	}

	cfg := result.ToConfig()

	assert.Equal(t, "osdu-forks", cfg.Organization)
	assert.Equal(t, DefaultBranchName, cfg.DefaultBranch)
	require.Len(t, cfg.Services, 2)
	assert.Equal(t, "partition", cfg.Services[0].Name)
	assert.Equal(t, "https://community.opengroup.org/osdu/platform/system/partition", cfg.Services[0].Upstream)
	assert.Equal(t, "https://community.opengroup.org/osdu/platform/system/search-service", cfg.Services[1].Upstream)
	assert.NotNil(t, cfg.Archive)
}

func TestWizardResultToConfigWithoutArchive(t *testing.T) {
	result := &WizardResult{
		Organization: "osdu-forks",
		Template:     "osdu-forks/service-template",
		CloneRoot:    "repos",
		Services:     []string{"legal"},
	}

	cfg := result.ToConfig()
	assert.Nil(t, cfg.Archive)
}

func TestServiceOptions(t *testing.T) {
	opts := serviceOptions()
	assert.Len(t, opts, len(DefaultServices()))
}

func TestValidateOrganization(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "osdu-forks", false},
		{"valid with digits", "org42", false},
		{"empty", "", true},
		{"leading hyphen", "-org", true},
		{"trailing hyphen", "org-", true},
		{"invalid characters", "my org", true},
		{"too long", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateOrganization(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateTemplateRef(t *testing.T) {
	assert.NoError(t, validateTemplateRef("azure/osdu-spi"))
	assert.Error(t, validateTemplateRef("osdu-spi"))
	assert.Error(t, validateTemplateRef("/osdu-spi"))
	assert.Error(t, validateTemplateRef("azure/"))
}
