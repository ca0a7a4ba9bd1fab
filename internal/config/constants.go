package config

// DefaultFileName is the config file the CLI looks for in the working directory.
const DefaultFileName = "forkfleet.yaml"

// Defaults applied when the configuration file omits a field.
const (
	DefaultOrganization = "azure"
	DefaultTemplate     = "azure/osdu-spi"
	DefaultBranchName   = "main"
	DefaultCloneRoot    = "repos"
	DefaultReportDir    = ".forkfleet/reports"
)

// DefaultServices returns the standard OSDU fleet catalog. Each service is
// forked into the organization and tracks the listed upstream repository.
func DefaultServices() []ServiceSpec {
	return []ServiceSpec{
		{Name: "partition", Upstream: "https://community.opengroup.org/osdu/platform/system/partition"},
		{Name: "entitlements", Upstream: "https://community.opengroup.org/osdu/platform/security-and-compliance/entitlements"},
		{Name: "legal", Upstream: "https://community.opengroup.org/osdu/platform/security-and-compliance/legal"},
		{Name: "schema", Upstream: "https://community.opengroup.org/osdu/platform/system/schema-service"},
		{Name: "file", Upstream: "https://community.opengroup.org/osdu/platform/system/file"},
		{Name: "storage", Upstream: "https://community.opengroup.org/osdu/platform/system/storage"},
		{Name: "indexer", Upstream: "https://community.opengroup.org/osdu/platform/system/indexer-service"},
		{Name: "indexer-queue", Upstream: "https://community.opengroup.org/osdu/platform/system/indexer-queue"},
		{Name: "search", Upstream: "https://community.opengroup.org/osdu/platform/system/search-service"},
		{Name: "workflow", Upstream: "https://community.opengroup.org/osdu/platform/data-flow/ingestion/ingestion-workflow"},
	}
}
