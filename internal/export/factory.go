// internal/export/factory.go
package export

import (
	"fmt"

	"github.com/benchwrap/benchwrap/internal/config"
)

// New creates an exporter based on configuration.
func New(cfg config.ExportConfig) (Exporter, error) {
	switch cfg.Type {
	case "localfs":
		return NewLocalFS(cfg.Path)
	case "s3":
		return NewS3(S3Config{
			Bucket:    cfg.S3.Bucket,
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Prefix:    cfg.S3.Prefix,
		})
	case "http":
		return NewHTTP(cfg.HTTP.URL, cfg.HTTP.Headers)
	default:
		return nil, fmt.Errorf("unknown export type: %s", cfg.Type)
	}
}
