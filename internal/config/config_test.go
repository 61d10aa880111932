package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// Point at a directory with no config file so only defaults apply.
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	require.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	require.Equal(t, int64(32*1024*1024), cfg.Server.MaxUploadSize)
	require.Equal(t, BackendFilesystem, cfg.Storage.Backend)
	require.Equal(t, "./data/images", cfg.Storage.DataDir)
	require.Equal(t, "info", cfg.Logging.Level)
	require.True(t, cfg.Metrics.Enabled)
	require.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photofeed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
storage:
  backend: s3
  s3:
    bucket: feed-images
    endpoint: http://localhost:9000
logging:
  level: debug
  format: console
`), 0o644))

	t.Setenv("PHOTOFEED_SERVER_PORT", "9191")
	t.Setenv("PHOTOFEED_STORAGE_S3_REGION", "eu-west-1")

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, 9191, cfg.Server.Port)
	require.Equal(t, BackendS3, cfg.Storage.Backend)
	require.Equal(t, "feed-images", cfg.Storage.S3.Bucket)
	require.Equal(t, "http://localhost:9000", cfg.Storage.S3.Endpoint)
	require.Equal(t, "eu-west-1", cfg.Storage.S3.Region)
	require.True(t, cfg.Storage.S3.UsePathStyle)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.Equal(t, "console", cfg.Logging.Format)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func validConfig() Config {
	return Config{
		Server:  ServerConfig{Host: "127.0.0.1", Port: 8080, MaxUploadSize: 1024},
		Storage: StorageConfig{Backend: BackendFilesystem, DataDir: "/tmp/images"},
		Logging: LoggingConfig{Level: "info"},
		Metrics: MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"upload size", func(c *Config) { c.Server.MaxUploadSize = 0 }, "max_upload_size"},
		{"no data dir", func(c *Config) { c.Storage.DataDir = "" }, "data_dir"},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "ftp" }, "storage.backend"},
		{"s3 without bucket", func(c *Config) {
			c.Storage.Backend = BackendS3
			c.Storage.S3.Region = "us-east-1"
		}, "bucket"},
		{"s3 without region", func(c *Config) {
			c.Storage.Backend = BackendS3
			c.Storage.S3.Bucket = "b"
		}, "region"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"log level case-insensitive", func(c *Config) { c.Logging.Level = "WARN" }, ""},
		{"metrics path", func(c *Config) { c.Metrics.Path = "metrics" }, "metrics.path"},
		{"metrics disabled ignores path", func(c *Config) {
			c.Metrics.Enabled = false
			c.Metrics.Path = ""
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}
