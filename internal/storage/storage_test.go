package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/config"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "missing endpoint", cfg: Config{AccessKey: "a", SecretKey: "s", Bucket: "b"}, wantErr: "sevalla endpoint must be provided"},
		{name: "missing credentials", cfg: Config{Provider: "minio", Endpoint: "localhost:9000", Bucket: "b"}, wantErr: "minio credentials must be provided"},
		{name: "missing bucket", cfg: Config{Provider: "minio", Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s"}, wantErr: "minio bucket must be provided"},
		{name: "unknown provider", cfg: Config{Provider: "ftp"}, wantErr: `unknown storage provider "ftp"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestNew_Minio(t *testing.T) {
	s, err := New(Config{
		Provider:  "minio",
		Endpoint:  "http://localhost:9000/",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Bucket:    "dgm",
	})
	require.NoError(t, err)

	client, ok := s.(*MinioClient)
	require.True(t, ok)
	assert.Equal(t, "dgm", client.bucket)
	assert.Equal(t, "localhost:9000", client.client.EndpointURL().Host)
	assert.Equal(t, "http", client.client.EndpointURL().Scheme)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "text/csv", contentType("exports/financial_report_rina.csv"))
	assert.Equal(t, "application/octet-stream", contentType("notes.txt"))
}

func TestWriteFile_CreatesDirectories(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "nested", "book.xlsx")
	require.NoError(t, writeFile(dest, []byte("data")))

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "data", string(got))
}

func TestConfigFrom(t *testing.T) {
	cfg := ConfigFrom(config.StorageConfig{
		Provider:     "minio",
		Endpoint:     "localhost:9000",
		Bucket:       "dgm",
		UseSSL:       true,
		ExportPrefix: "exports",
	})
	assert.Equal(t, Config{Provider: "minio", Endpoint: "localhost:9000", Bucket: "dgm", UseSSL: true}, cfg)
}
