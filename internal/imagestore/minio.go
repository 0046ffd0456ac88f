package imagestore

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// objectClient is the part of *minio.Client the store uses.
type objectClient interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

// Minio stores images in an S3-compatible bucket.
type Minio struct {
	client  objectClient
	bucket  string
	baseURL string
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	// PublicURL is the externally reachable bucket URL. Defaults to the
	// endpoint.
	PublicURL string
}

func NewMinio(cfg MinioConfig) (*Minio, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}
	return &Minio{client: client, bucket: cfg.Bucket, baseURL: bucketURL(cfg)}, nil
}

func bucketURL(cfg MinioConfig) string {
	if public := strings.TrimRight(cfg.PublicURL, "/"); public != "" {
		return public
	}
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
}

// EnsureBucket creates the bucket when it does not exist yet.
func (m *Minio) EnsureBucket(ctx context.Context) error {
	found, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if !found {
		log.Println("[UPLOAD] [INFO] creating bucket:", m.bucket)
		return m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{})
	}
	return nil
}

func (m *Minio) Upload(ctx context.Context, filename string, r io.Reader, size int64) (string, error) {
	if err := Validate(filename, size); err != nil {
		return "", err
	}

	name := uploadsPrefix + objectName(filename)
	_, err := m.client.PutObject(ctx, m.bucket, name, r, size, minio.PutObjectOptions{
		ContentType: contentType(name),
	})
	if err != nil {
		log.Printf("[UPLOAD] [ERROR] put object %s failed: %v", name, err)
		return "", err
	}

	return m.baseURL + "/" + name, nil
}

func (m *Minio) Delete(ctx context.Context, url string) error {
	name, ok := m.objectFromURL(url)
	if !ok {
		return nil
	}
	return m.client.RemoveObject(ctx, m.bucket, name, minio.RemoveObjectOptions{})
}

// objectFromURL maps a URL returned by Upload back to its object name.
func (m *Minio) objectFromURL(url string) (string, bool) {
	name := strings.TrimPrefix(url, m.baseURL+"/")
	if name == url || !strings.HasPrefix(name, uploadsPrefix) || strings.Contains(name, "..") {
		return "", false
	}
	return name, true
}
