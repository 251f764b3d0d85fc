package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // file:// driver
	_ "gocloud.dev/blob/gcsblob"  // gs:// driver
	_ "gocloud.dev/blob/s3blob"   // s3:// driver
)

// BucketUploader mirrors produced export artifacts into object storage. The
// local file stays authoritative; the upload is a copy, not a move.
type BucketUploader struct {
	bucket *blob.Bucket
	url    string
}

// NewBucketUploader opens a bucket by URL (s3://, gs:// or file://).
func NewBucketUploader(ctx context.Context, bucketURL string) (*BucketUploader, error) {
	if bucketURL == "" {
		return nil, errors.New("export: empty bucket url")
	}
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, fmt.Errorf("export: open bucket %s: %w", bucketURL, err)
	}
	return &BucketUploader{bucket: bucket, url: bucketURL}, nil
}

// URL returns the configured bucket URL.
func (u *BucketUploader) URL() string { return u.url }

// UploadFile copies a local artifact into the bucket under its base name.
func (u *BucketUploader) UploadFile(ctx context.Context, localPath string) error {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return fmt.Errorf("export: read %s: %w", localPath, err)
	}
	key := filepath.Base(localPath)
	w, err := u.bucket.NewWriter(ctx, key, nil)
	if err != nil {
		return fmt.Errorf("export: create writer for %s: %w", key, err)
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("export: upload %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("export: finish upload %s: %w", key, err)
	}
	return nil
}

// Close releases the bucket handle.
func (u *BucketUploader) Close() error {
	if u == nil || u.bucket == nil {
		return nil
	}
	return u.bucket.Close()
}
