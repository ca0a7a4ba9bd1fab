// Package s3 provides a client for S3-compatible object storage.
//
// It handles bucket creation and report archiving for fleet provisioning
// runs. Reports are uploaded as JSON objects so that provisioning history
// survives the machines the CLI runs on.
package s3
