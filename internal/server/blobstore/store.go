// Package blobstore persists raw file content under generated unique names.
//
// Three backends share one contract: LocalStore (a directory on disk),
// S3Store (aws-sdk-go-v2) and MinioStore (minio-go). Paths returned by Write
// are opaque to callers and only ever handed back to the same store.
//
// A resized variant of the content at path P for width w lives at P_w, see
// VariantPath. Variants are written with Put, which overwrites.
package blobstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Store is the content capability used by the catalog and the thumbnail worker.
type Store interface {
	// Write persists data under a new unique name and returns its path.
	Write(ctx context.Context, data []byte) (string, error)
	// Read returns the content at path or common.ErrorNotFound.
	Read(ctx context.Context, path string) ([]byte, error)
	// Put writes data at path, replacing any previous content.
	Put(ctx context.Context, path string, data []byte) error
}

// VariantPath returns where the width-w variant of the content at path lives.
func VariantPath(path string, width int) string {
	return fmt.Sprintf("%s_%d", path, width)
}

var newName = func() string {
	return uuid.NewString()
}
