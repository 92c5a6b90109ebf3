package deploy

import (
	"context"
	"fmt"
	"io"
	"os"

	"cloud.google.com/go/storage"
)

// BucketUploader implementa Uploader sobre un bucket de Cloud Storage.
type BucketUploader struct {
	bucket *storage.BucketHandle
	name   string
}

func NewBucketUploader(client *storage.Client, bucket string) *BucketUploader {
	return &BucketUploader{bucket: client.Bucket(bucket), name: bucket}
}

// Upload escribe el archivo local en el objeto. Close() confirma la subida:
// su error también es error de upload.
func (u *BucketUploader) Upload(ctx context.Context, object, localPath string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("deploy: open %s: %w", localPath, err)
	}
	defer f.Close()

	w := u.bucket.Object(object).NewWriter(ctx)
	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return fmt.Errorf("deploy: write gs://%s/%s: %w", u.name, object, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("deploy: close gs://%s/%s: %w", u.name, object, err)
	}
	return nil
}
