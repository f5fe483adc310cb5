package blobstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/filesmanager/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SelectsBackend(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.FolderPath = filepath.Join(t.TempDir(), "blobs")

	tests := []struct {
		backend string
		want    any
	}{
		{config.BlobBackendLocal, &LocalStore{}},
		{config.BlobBackendS3, &S3Store{}},
		{config.BlobBackendMinio, &MinioStore{}},
	}
	for _, tc := range tests {
		t.Run(tc.backend, func(t *testing.T) {
			cfg.BlobBackend = tc.backend
			s, err := Open(ctx, cfg)
			require.NoError(t, err)
			assert.IsType(t, tc.want, s)
		})
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	cfg := &config.Config{BlobBackend: "tape"}
	_, err := Open(context.Background(), cfg)
	assert.ErrorContains(t, err, "tape")
}
