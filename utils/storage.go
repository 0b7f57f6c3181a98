package utils

import (
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// ImageStore uploads product imagery and returns public URLs. Two backends
// exist: the original GCS bucket and the R2 bucket we are migrating to.
// STORAGE_DRIVER selects one at startup ("gcs" or "r2").
type ImageStore interface {
	UploadImages(ctx context.Context, prefix string, files []*multipart.FileHeader) ([]string, error)
	DeleteObjects(ctx context.Context, objectNames []string) error
	ObjectNameFromURL(raw string) (string, error)
}

// NewImageStore builds the configured backend. A missing STORAGE_DRIVER
// defaults to R2.
func NewImageStore(ctx context.Context) (ImageStore, error) {
	switch strings.ToLower(os.Getenv("STORAGE_DRIVER")) {
	case "gcs":
		return newGCSStore(ctx)
	default:
		return newR2Store(ctx)
	}
}

func objectName(prefix, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".bin"
	}
	return fmt.Sprintf("%s/%d-%s%s", prefix, time.Now().UTC().Unix(), uuid.New().String(), ext)
}

func contentTypeFor(fh *multipart.FileHeader) string {
	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = mime.TypeByExtension(strings.ToLower(filepath.Ext(fh.Filename)))
	}
	if ct == "" {
		ct = "application/octet-stream"
	}
	return ct
}

func validateImageBatch(files []*multipart.FileHeader) error {
	if len(files) < 1 || len(files) > 4 {
		return fmt.Errorf("images must be 1 to 4")
	}
	return nil
}

func copyAndClose(w io.WriteCloser, r io.ReadCloser) (int64, error) {
	n, err := io.Copy(w, r)
	_ = r.Close()
	if err != nil {
		_ = w.Close()
		return n, fmt.Errorf("upload copy: %w", err)
	}
	if err := w.Close(); err != nil {
		return n, fmt.Errorf("upload close: %w", err)
	}
	return n, nil
}

// --- GCS backend ---

type gcsStore struct {
	client *storage.Client
	bucket string
}

func newGCSStore(ctx context.Context) (*gcsStore, error) {
	bucket := os.Getenv("GCS_BUCKET")
	credentialsPath := os.Getenv("CREDENTIALS_FILE_LOCATION")
	if bucket == "" {
		return nil, fmt.Errorf("missing GCS_BUCKET env var")
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	client, err := storage.NewClient(ctx, option.WithAuthCredentialsFile(option.ServiceAccount, filepath.Join(wd, credentialsPath)))
	if err != nil {
		return nil, err
	}
	return &gcsStore{client: client, bucket: bucket}, nil
}

func (g *gcsStore) UploadImages(ctx context.Context, prefix string, files []*multipart.FileHeader) ([]string, error) {
	if err := validateImageBatch(files); err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(files))
	for _, fh := range files {
		name := objectName(prefix, fh.Filename)

		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open file: %w", err)
		}

		w := g.client.Bucket(g.bucket).Object(name).NewWriter(ctx)
		w.ContentType = contentTypeFor(fh)
		if _, err := copyAndClose(w, f); err != nil {
			return nil, err
		}

		urls = append(urls, fmt.Sprintf("https://storage.googleapis.com/%s/%s", g.bucket, name))
	}
	return urls, nil
}

func (g *gcsStore) DeleteObjects(ctx context.Context, objectNames []string) error {
	var firstErr error
	for _, obj := range objectNames {
		if obj == "" {
			continue
		}
		err := g.client.Bucket(g.bucket).Object(obj).Delete(ctx)
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("delete %s: %w", obj, err)
		}
	}
	return firstErr
}

func (g *gcsStore) ObjectNameFromURL(raw string) (string, error) {
	prefix := fmt.Sprintf("https://storage.googleapis.com/%s/", g.bucket)
	if !strings.HasPrefix(raw, prefix) {
		return "", fmt.Errorf("not a gcs public url for bucket %s", g.bucket)
	}
	name := strings.TrimPrefix(raw, prefix)
	if name == "" {
		return "", fmt.Errorf("missing object path")
	}
	return name, nil
}

// --- R2 backend (S3 API) ---

type r2Store struct {
	client *s3.Client
	bucket string
	domain string // public domain, custom or r2.dev
}

func newR2Store(ctx context.Context) (*r2Store, error) {
	bucket := os.Getenv("R2_BUCKET")
	accessKey := os.Getenv("R2_ACCESS_KEY_ID")
	secretKey := os.Getenv("R2_SECRET_ACCESS_KEY")
	endpoint := os.Getenv("R2_ENDPOINT") // https://<account-id>.r2.cloudflarestorage.com

	if bucket == "" || accessKey == "" || secretKey == "" || endpoint == "" {
		return nil, fmt.Errorf("missing R2 env vars (R2_BUCKET, R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY, R2_ENDPOINT)")
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("r2 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true // required for R2
	})

	domain := strings.TrimRight(os.Getenv("R2_PUBLIC_DOMAIN"), "/")
	return &r2Store{client: client, bucket: bucket, domain: domain}, nil
}

func (r *r2Store) publicURL(name string) string {
	return fmt.Sprintf("%s/%s/%s", r.domain, r.bucket, name)
}

func (r *r2Store) UploadImages(ctx context.Context, prefix string, files []*multipart.FileHeader) ([]string, error) {
	if err := validateImageBatch(files); err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(files))
	for _, fh := range files {
		name := objectName(prefix, fh.Filename)

		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open file: %w", err)
		}

		_, err = r.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(r.bucket),
			Key:         aws.String(name),
			Body:        f,
			ContentType: aws.String(contentTypeFor(fh)),
		})
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("upload %s: %w", fh.Filename, err)
		}

		urls = append(urls, r.publicURL(name))
	}
	return urls, nil
}

func (r *r2Store) DeleteObjects(ctx context.Context, objectNames []string) error {
	var firstErr error
	for _, obj := range objectNames {
		if obj == "" {
			continue
		}
		_, err := r.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(r.bucket),
			Key:    aws.String(obj),
		})
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("delete %s: %w", obj, err)
		}
	}
	return firstErr
}

func (r *r2Store) ObjectNameFromURL(raw string) (string, error) {
	if r.domain != "" && strings.HasPrefix(raw, r.domain+"/"+r.bucket+"/") {
		return strings.TrimPrefix(raw, r.domain+"/"+r.bucket+"/"), nil
	}

	// r2.dev style: https://<bucket>.<account>.r2.dev/<object>
	for _, prefix := range []string{"https://", "http://"} {
		if strings.HasPrefix(raw, prefix) {
			withoutScheme := strings.TrimPrefix(raw, prefix)
			slash := strings.Index(withoutScheme, "/")
			if slash == -1 {
				return "", fmt.Errorf("no object path in url")
			}
			return withoutScheme[slash+1:], nil
		}
	}

	return "", fmt.Errorf("not a recognised public url")
}
