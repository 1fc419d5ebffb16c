package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jtindex/jtindex/internal/artifact"
	"github.com/jtindex/jtindex/pkg/config"
)

// loadConfig resolves the effective configuration: an explicit --config
// path wins, otherwise the nearest jti.yaml, otherwise defaults.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err == nil {
			path = config.FindConfigFile(wd)
		}
	}
	if path == "" {
		return config.DefaultConfig(), nil
	}
	return config.Load(path)
}

// storageFromConfig builds the artifact storage backend the config names.
func storageFromConfig(ctx context.Context, cfg config.StorageConfig) (artifact.StorageClient, error) {
	switch cfg.Backend {
	case "", "local":
		return artifact.NewLocalStorage(firstNonEmpty(cfg.BaseDir, "outputs/artifacts")), nil
	case "s3":
		return artifact.NewS3Storage(ctx, artifact.S3Config{
			Bucket:    cfg.Bucket,
			Region:    cfg.Region,
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
		})
	case "gcs":
		return artifact.NewGCSStorage(ctx, cfg.Bucket)
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
