package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/imamik/forkfleet/internal/config"
	"github.com/imamik/forkfleet/internal/platform/s3"
	"github.com/imamik/forkfleet/internal/report"
)

// reportArchive is the subset of the S3 client the handlers use.
type reportArchive interface {
	EnsureBucket(ctx context.Context, bucketName string) error
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	UploadReport(ctx context.Context, bucketName, key string, report []byte) error
	ListReports(ctx context.Context, bucketName, prefix string) ([]string, error)
}

// Factory function variables for report - can be replaced in tests.
var (
	// newArchiveClient creates the S3 archive client.
	newArchiveClient = func(archive *config.ArchiveConfig) (reportArchive, error) {
		return s3.NewClient(archive.Endpoint, archive.Region, archive.AccessKey, archive.SecretKey)
	}

	// loadLatestReport loads the newest run report from the report directory.
	loadLatestReport = report.LoadLatest
)

// Report shows the most recent fleet run report. With upload the report is
// also pushed to the configured archive; with listRemote the archived keys
// are listed instead.
func Report(ctx context.Context, configPath string, upload, listRemote bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	if listRemote {
		return listArchivedReports(ctx, cfg)
	}

	rep, err := loadLatestReport(cfg.ReportDir)
	if err != nil {
		return fmt.Errorf("no run report found in %s: run 'forkfleet fork' first (%w)", cfg.ReportDir, err)
	}

	printReport(rep)

	if upload {
		return uploadReport(ctx, cfg, rep)
	}
	return nil
}

// listArchivedReports lists the report keys in the archive bucket.
func listArchivedReports(ctx context.Context, cfg *config.Config) error {
	client, bucket, err := archiveClient(cfg)
	if err != nil {
		return err
	}

	keys, err := client.ListReports(ctx, bucket, report.ArchivePrefix)
	if err != nil {
		return fmt.Errorf("failed to list archived reports: %w", err)
	}

	if len(keys) == 0 {
		fmt.Println("No archived reports yet.")
		return nil
	}

	for _, key := range keys {
		fmt.Println(key)
	}
	return nil
}

// uploadReport pushes the report to the archive, creating the bucket when
// it does not exist yet.
func uploadReport(ctx context.Context, cfg *config.Config, rep *report.RunReport) error {
	client, bucket, err := archiveClient(cfg)
	if err != nil {
		return err
	}

	if err := client.EnsureBucket(ctx, bucket); err != nil {
		return fmt.Errorf("failed to ensure archive bucket: %w", err)
	}

	data, err := rep.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	key := rep.ArchiveKey()
	if err := client.UploadReport(ctx, bucket, key, data); err != nil {
		return fmt.Errorf("failed to upload report: %w", err)
	}

	fmt.Printf("\nReport archived to s3://%s/%s\n", bucket, key)
	return nil
}

// archiveClient builds the archive client from the config, failing when no
// archive section is configured.
func archiveClient(cfg *config.Config) (reportArchive, string, error) {
	if cfg.Archive == nil {
		return nil, "", fmt.Errorf("no archive configured: add an archive section to the config")
	}

	client, err := newArchiveClient(cfg.Archive)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create archive client: %w", err)
	}
	return client, cfg.Archive.Bucket, nil
}

// printReport renders a run report as an aligned table.
func printReport(rep *report.RunReport) {
	printHeader(fmt.Sprintf("run %s", rep.RunID))

	fmt.Printf("  Organization: %s\n", rep.Organization)
	fmt.Printf("  Branch:       %s\n", rep.Branch)
	fmt.Printf("  Started:      %s\n", rep.StartedAt.Format(time.RFC3339))
	fmt.Printf("  Duration:     %s\n", rep.FinishedAt.Sub(rep.StartedAt).Round(time.Second))
	fmt.Println()

	for _, res := range rep.Results {
		printRow(res.Service, res.OK(), res.Message)
	}

	fmt.Println()
	if rep.AllOK {
		fmt.Println("  All services succeeded.")
		return
	}
	fmt.Printf("  %d services failed.\n", len(rep.Failed()))
}
