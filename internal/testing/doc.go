// Package testing provides shared test utilities for unit and integration tests.
//
// This package centralizes common testing patterns to avoid duplication
// across test files:
//   - MockHostingClient / MockWorkspace: testify mocks for the provisioning contracts
//   - RecordingSink: a concurrency-safe StatusSink that captures every update
//   - Builders for workflow run snapshots and common mock scenarios
//
// Usage:
//
//	hosting := testing.NewMockHostingClient()
//	hosting.On("Exists", mock.Anything, "partition").Return(true, nil)
//
//	sink := testing.NewRecordingSink()
package testing
