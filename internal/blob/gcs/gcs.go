package gcs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	gstorage "cloud.google.com/go/storage"
	goption "google.golang.org/api/option"

	"movimenti/internal/blob"
)

// Client is the Cloud Storage adapter for receipt images.
type Client struct {
	bucket     *gstorage.BucketHandle
	bucketName string
}

var _ blob.Store = (*Client)(nil)

// NewFromEnv creates a Cloud Storage client using environment variables.
// Required: GCS_BUCKET
// Optional: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS for auth (ADC when none set).
func NewFromEnv(ctx context.Context) (*Client, error) {
	bucketName := strings.TrimSpace(os.Getenv("GCS_BUCKET"))
	if bucketName == "" {
		return nil, errors.New("missing GCS_BUCKET")
	}

	var opts []goption.ClientOption
	if inline := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")); inline != "" {
		opts = append(opts, goption.WithCredentialsJSON([]byte(inline)))
	} else {
		file := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
		if file == "" {
			file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
		}
		if file != "" {
			opts = append(opts, goption.WithCredentialsFile(file))
		}
	}

	cli, err := gstorage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return &Client{bucket: cli.Bucket(bucketName), bucketName: bucketName}, nil
}

func (c *Client) Upload(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	objectName := blob.Folder + name
	obj := c.bucket.Object(objectName)

	w := obj.NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write object %s: %w", objectName, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close object %s: %w", objectName, err)
	}

	if err := obj.ACL().Set(ctx, gstorage.AllUsers, gstorage.RoleReader); err != nil {
		return "", fmt.Errorf("make object %s public: %w", objectName, err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", c.bucketName, objectName), nil
}

func (c *Client) Delete(ctx context.Context, objectName string) error {
	if err := c.bucket.Object(objectName).Delete(ctx); err != nil {
		return fmt.Errorf("delete object %s: %w", objectName, err)
	}
	return nil
}
