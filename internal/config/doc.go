// Package config defines the fleet configuration model for the forkfleet CLI.
//
// The [Config] struct is the canonical description of a fleet: the GitHub
// organization that holds the fork repositories, the template repository
// that seeds new forks, the service catalog with upstream URLs, and the
// optional report archive settings. Configuration is loaded from a YAML
// file; credentials and timeouts come from environment variables.
package config
