package bulk

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Source fetches the raw historical bulk file. The path is either a local
// file path or an s3://bucket/key URI; the content is re-fetched on every
// refresh, never cached.
type Source struct {
	path   string
	region string
}

func NewSource(path, region string) *Source {
	return &Source{path: path, region: region}
}

func (s *Source) Fetch(ctx context.Context) (string, error) {
	if strings.HasPrefix(s.path, "s3://") {
		return s.fetchS3(ctx)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("failed to read bulk file %s: %w", s.path, err)
	}
	return string(data), nil
}

func (s *Source) fetchS3(ctx context.Context) (string, error) {
	trimmed := strings.TrimPrefix(s.path, "s3://")
	bucket, key, ok := strings.Cut(trimmed, "/")
	if !ok || bucket == "" || key == "" {
		return "", fmt.Errorf("invalid s3 bulk file URI: %s", s.path)
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(s.region))
	if err != nil {
		return "", fmt.Errorf("unable to load SDK config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", fmt.Errorf("unable to fetch bulk file from S3: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return "", fmt.Errorf("unable to read S3 object body: %w", err)
	}
	return string(data), nil
}
