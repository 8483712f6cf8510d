package storage

import (
	"context"
	"io"

	"cloud.google.com/go/storage"

	"github.com/bluestock/ipo-api/pkg/helpers"
)

// GCSDocuments stores IPO prospectus files in a Cloud Storage bucket.
type GCSDocuments struct {
	Client *storage.Client
	Bucket string
}

func NewGCSDocuments(client *storage.Client, bucket string) *GCSDocuments {
	return &GCSDocuments{Client: client, Bucket: bucket}
}

func (d *GCSDocuments) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	return helpers.UploadObject(ctx, d.Client, d.Bucket, objectPath, contentType, r)
}
