package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/angelmondragon/biowe-backend/pkg/logger"
	"google.golang.org/api/option"
)

const (
	pingTimeout      = 5 * time.Second
	defaultPublicURL = "https://storage.googleapis.com"
	publicReadACL    = "publicRead"
	cacheControl     = "public, max-age=31536000"
)

type Client struct {
	client        *storage.Client
	defaultBucket string
	publicBaseURL string
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// NewClient opens a storage client for bucket and verifies the bucket is reachable.
func NewClient(ctx context.Context, bucket, publicBaseURL string, logg *logger.Logger, opts ...option.ClientOption) (*Client, error) {
	if strings.TrimSpace(bucket) == "" {
		return nil, errors.New("gcs bucket name is required")
	}

	sc, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}

	client := &Client{
		client:        sc,
		defaultBucket: bucket,
		publicBaseURL: publicBaseURL,
	}

	if err := client.Ping(ctx); err != nil {
		_ = sc.Close()
		return nil, fmt.Errorf("gcs health check failed: %w", err)
	}

	if logg != nil {
		logg.Info(logg.WithField(ctx, "bucket", bucket), "gcs client initialized")
	}

	return client, nil
}

func (c *Client) DefaultBucket() string {
	if c == nil {
		return ""
	}
	return c.defaultBucket
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.client == nil {
		return errors.New("gcs client not initialized")
	}
	if c.defaultBucket == "" {
		return errors.New("gcs bucket not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if _, err := c.client.Bucket(c.defaultBucket).Attrs(ctx); err != nil {
		return fmt.Errorf("bucket attrs %q: %w", c.defaultBucket, err)
	}
	return nil
}

// Upload writes body to object as a publicly readable file and returns its public URL.
func (c *Client) Upload(ctx context.Context, object, contentType string, body io.Reader) (string, error) {
	if c == nil || c.client == nil {
		return "", errors.New("gcs client not initialized")
	}
	if strings.TrimSpace(object) == "" {
		return "", errors.New("object name is required")
	}

	w := c.client.Bucket(c.defaultBucket).Object(object).NewWriter(ctx)
	w.ContentType = contentType
	w.PredefinedACL = publicReadACL
	w.CacheControl = cacheControl

	if _, err := io.Copy(w, body); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("writing object %q: %w", object, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalizing object %q: %w", object, err)
	}
	return PublicURL(c.publicBaseURL, c.defaultBucket, object), nil
}

// PublicURL builds <base>/<bucket>/<object>, escaping each path segment.
func PublicURL(base, bucket, object string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		base = defaultPublicURL
	}
	segments := strings.Split(object, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return fmt.Sprintf("%s/%s/%s", base, url.PathEscape(bucket), strings.Join(segments, "/"))
}
