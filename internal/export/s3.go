// internal/export/s3.go
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/benchwrap/benchwrap/internal/core"
)

// S3Config holds S3 connection configuration
type S3Config struct {
	Bucket    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Prefix    string
}

// S3Exporter implements Exporter for S3-compatible backends, writing the
// same document keys LocalFS uses as object keys.
type S3Exporter struct {
	client *s3.Client
	bucket string
	prefix string
	seq    map[string]int
}

// NewS3 creates a new S3 exporter
func NewS3(cfg S3Config) (*S3Exporter, error) {
	opts := s3.Options{
		Region:      cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
	}

	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true // Required for MinIO and most S3-compatible services
	}

	client := s3.New(opts)

	return &S3Exporter{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.TrimSuffix(cfg.Prefix, "/"),
		seq:    make(map[string]int),
	}, nil
}

func (s *S3Exporter) key(r core.Result) string {
	dir := fmt.Sprintf("%s/%s/%s", r.Run.UUID, r.Benchmark, r.Label)
	if s.prefix != "" {
		dir = s.prefix + "/" + dir
	}
	n := s.seq[dir]
	s.seq[dir] = n + 1
	return fmt.Sprintf("%s/doc-%d.json", dir, n)
}

func (s *S3Exporter) Export(ctx context.Context, results []core.Result) error {
	for _, r := range results {
		data, err := json.Marshal(r.ToDocument())
		if err != nil {
			return core.WrapError(core.ErrExportFailed, err)
		}

		_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(s.key(r)),
			Body:   bytes.NewReader(data),
		})
		if err != nil {
			return core.WrapError(core.ErrExportFailed, err)
		}
	}
	return nil
}

func (s *S3Exporter) Close() error { return nil }
