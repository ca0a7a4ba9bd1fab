package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

const reportContentType = "application/json"

// Client talks to the S3-compatible report archive.
type Client struct {
	api    *s3.Client
	region string
}

// NewClient builds an archive client for the given endpoint. Credentials
// are taken from the arguments only, never from the ambient AWS
// environment, so a forkfleet config fully describes its archive.
func NewClient(endpoint, region, accessKey, secretKey string) (*Client, error) {
	if endpoint == "" {
		return nil, errors.New("archive endpoint is required")
	}
	if region == "" {
		return nil, errors.New("archive region is required")
	}

	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	api := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true // MinIO and friends route by path, not by virtual host
	})

	return &Client{api: api, region: region}, nil
}

// EnsureBucket creates the archive bucket. A bucket that already exists
// under our ownership is not an error.
func (c *Client) EnsureBucket(ctx context.Context, bucket string) error {
	_, err := c.api.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(bucket),
	})
	switch {
	case err == nil:
		return nil
	case hasErrorCode(err, "BucketAlreadyOwnedByYou", "BucketAlreadyExists"):
		return nil
	default:
		return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
	}
}

// BucketExists reports whether the archive bucket exists and is reachable
// with the configured credentials.
func (c *Client) BucketExists(ctx context.Context, bucket string) (bool, error) {
	_, err := c.api.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucket),
	})
	switch {
	case err == nil:
		return true, nil
	case hasErrorCode(err, "NotFound", "NoSuchBucket", "404"):
		return false, nil
	default:
		return false, fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
}

// UploadReport stores a serialized run report under the given key.
func (c *Client) UploadReport(ctx context.Context, bucket, key string, report []byte) error {
	_, err := c.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(report),
		ContentType: aws.String(reportContentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload report %s to bucket %s: %w", key, bucket, err)
	}
	return nil
}

// ListReports returns all archived report keys under prefix, walking
// every result page.
func (c *Client) ListReports(ctx context.Context, bucket, prefix string) ([]string, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
	}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}

	var keys []string
	pager := s3.NewListObjectsV2Paginator(c.api, input)
	for pager.HasMorePages() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list reports in bucket %s: %w", bucket, err)
		}
		for _, obj := range page.Contents {
			if key := aws.ToString(obj.Key); key != "" {
				keys = append(keys, key)
			}
		}
	}
	return keys, nil
}

// hasErrorCode reports whether err carries one of the given S3 error
// codes. HEAD responses have no error body, for those the SDK synthesizes
// the HTTP status as the code, which is why callers also pass "404".
func hasErrorCode(err error, codes ...string) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	for _, code := range codes {
		if apiErr.ErrorCode() == code {
			return true
		}
	}
	return false
}
