package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile_Valid(t *testing.T) {
	path := writeTempConfig(t, `
organization: osdu-forks
template: osdu-forks/service-template
github_token: file-token
default_branch: develop
clone_root: /tmp/fleet
report_dir: /tmp/reports
services:
  - name: partition
    upstream: https://community.opengroup.org/osdu/platform/system/partition
archive:
  endpoint: https://minio.internal:9000
  region: eu-central
  bucket: forkfleet-reports
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "osdu-forks", cfg.Organization)
	assert.Equal(t, "osdu-forks/service-template", cfg.Template)
	assert.Equal(t, "file-token", cfg.Token)
	assert.Equal(t, "develop", cfg.DefaultBranch)
	assert.Equal(t, "/tmp/fleet", cfg.CloneRoot)
	assert.Equal(t, "/tmp/reports", cfg.ReportDir)
	require.Len(t, cfg.Services, 1)
	assert.Equal(t, "partition", cfg.Services[0].Name)
	require.NotNil(t, cfg.Archive)
	assert.Equal(t, "forkfleet-reports", cfg.Archive.Bucket)
}

func TestLoadFile_AppliesDefaults(t *testing.T) {
	path := writeTempConfig(t, "organization: osdu-forks\n")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultTemplate, cfg.Template)
	assert.Equal(t, DefaultBranchName, cfg.DefaultBranch)
	assert.Equal(t, DefaultCloneRoot, cfg.CloneRoot)
	assert.Equal(t, DefaultReportDir, cfg.ReportDir)
	assert.Len(t, cfg.Services, 10)
	assert.Nil(t, cfg.Archive)
}

func TestLoadFile_TokenFromEnv(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "env-token")
	path := writeTempConfig(t, "organization: osdu-forks\n")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Token)
}

func TestLoadFile_FileTokenWinsOverEnv(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "env-token")
	path := writeTempConfig(t, "organization: osdu-forks\ngithub_token: file-token\n")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "file-token", cfg.Token)
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadFile_MalformedYAML(t *testing.T) {
	path := writeTempConfig(t, "organization: [unclosed\n")

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal yaml")
}

func TestLoadFile_RejectsUnknownKeys(t *testing.T) {
	path := writeTempConfig(t, "organization: osdu-forks\nservcies:\n  - name: partition\n")

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode config")
	assert.Contains(t, err.Error(), "servcies")
}

func TestLoadFile_ValidationFailure(t *testing.T) {
	path := writeTempConfig(t, "organization: osdu-forks\ntemplate: no-owner\n")

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")
}

func TestFindConfigFile_PrefersYamlSpelling(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile("forkfleet.yml", []byte("organization: a\n"), 0o600))
	require.NoError(t, os.WriteFile(DefaultFileName, []byte("organization: a\n"), 0o600))

	path, err := FindConfigFile()
	require.NoError(t, err)
	assert.Equal(t, DefaultFileName, path)
}

func TestFindConfigFile_AcceptsYmlSpelling(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile("forkfleet.yml", []byte("organization: a\n"), 0o600))

	path, err := FindConfigFile()
	require.NoError(t, err)
	assert.Equal(t, "forkfleet.yml", path)
}

func TestFindConfigFile_Missing(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := FindConfigFile()
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteFile_RoundTrip(t *testing.T) {
	cfg := validTestConfig()
	path := filepath.Join(t.TempDir(), DefaultFileName)

	require.NoError(t, cfg.WriteFile(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Organization, loaded.Organization)
	assert.Equal(t, cfg.Services, loaded.Services)
}
