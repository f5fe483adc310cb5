package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// NewMinioClient builds a MinIO client for the endpoint given as a URL, e.g.
// "http://127.0.0.1:9000/". The scheme selects TLS.
func NewMinioClient(o S3Options) (*minio.Client, error) {
	u, err := url.Parse(o.BaseEndpoint)
	if err != nil {
		return nil, fmt.Errorf("minio endpoint: %w", err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("minio endpoint: missing host in %q", o.BaseEndpoint)
	}

	return minio.New(u.Host, &minio.Options{
		Creds:  credentials.NewStaticV4(o.AccessKey, o.SecretKey, ""),
		Secure: u.Scheme == "https",
		Region: o.Region,
	})
}

// MinioStore keeps blobs in a MinIO (or any S3-compatible) bucket. Paths are
// object keys.
type MinioStore struct {
	client *minio.Client
	bucket string
	prefix string
}

func NewMinioStore(client *minio.Client, bucket, rootPrefix string) *MinioStore {
	return &MinioStore{client: client, bucket: bucket, prefix: strings.Trim(rootPrefix, "/")}
}

func (s *MinioStore) Write(ctx context.Context, data []byte) (string, error) {
	key := path.Join(s.prefix, newName())

	// If-None-Match makes a repeated key fail instead of replacing the object.
	opts := minio.PutObjectOptions{ContentType: "application/octet-stream"}
	opts.SetMatchETagExcept("*")
	if err := s.put(ctx, key, data, opts); err != nil {
		return "", err
	}
	return key, nil
}

func (s *MinioStore) Read(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.mapErr("minio get", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, s.mapErr("minio read", err)
	}
	return data, nil
}

func (s *MinioStore) Put(ctx context.Context, key string, data []byte) error {
	return s.put(ctx, key, data, minio.PutObjectOptions{ContentType: "application/octet-stream"})
}

func (s *MinioStore) put(ctx context.Context, key string, data []byte, opts minio.PutObjectOptions) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), opts)
	if err != nil {
		return fmt.Errorf("minio put: %w", err)
	}
	return nil
}

func (s *MinioStore) mapErr(op string, err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NotFound":
		return common.ErrorNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
