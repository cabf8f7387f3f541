// Package blobstore provides read access to the S3-compatible bucket that
// holds the uploaded pictures. Carousel and photostock both consume it.
package blobstore

import (
	"context"
	"errors"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/mxkvch/valentine/internal/config"
)

// ErrObjectNotFound is returned when a requested key does not exist in the
// bucket.
var ErrObjectNotFound = errors.New("object not found")

// Object is a fetched blob together with its stored content type.
type Object struct {
	Data        []byte
	ContentType string
}

// Store lists and fetches objects from a single bucket.
type Store interface {
	ListKeys(ctx context.Context, prefix string) ([]string, error)
	Get(ctx context.Context, key string) (Object, error)
	Ping(ctx context.Context) error
}

type minioStore struct {
	client *minio.Client
	bucket string
}

// NewMinioStore connects to the configured S3-compatible endpoint. It does not
// create the bucket: pictures are uploaded out of band, so a missing bucket is
// a deployment error surfaced by Ping.
func NewMinioStore(cfg config.S3) (Store, error) {
	lookup := minio.BucketLookupDNS
	if cfg.ForcePathStyle {
		lookup = minio.BucketLookupPath
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:       cfg.UseSSL,
		Region:       cfg.Region,
		BucketLookup: lookup,
	})
	if err != nil {
		return nil, err
	}

	return &minioStore{client: client, bucket: cfg.Bucket}, nil
}

func (s *minioStore) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	keys := []string{}
	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			return nil, object.Err
		}
		keys = append(keys, object.Key)
	}
	return keys, nil
}

func (s *minioStore) Get(ctx context.Context, key string) (Object, error) {
	reader, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return Object{}, mapNotFound(err)
	}
	defer reader.Close()

	info, err := reader.Stat()
	if err != nil {
		return Object{}, mapNotFound(err)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return Object{}, mapNotFound(err)
	}

	return Object{Data: data, ContentType: info.ContentType}, nil
}

func (s *minioStore) Ping(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !exists {
		return errors.New("bucket does not exist: " + s.bucket)
	}
	return nil
}

func mapNotFound(err error) error {
	response := minio.ToErrorResponse(err)
	if response.Code == "NoSuchKey" || response.Code == "NoSuchBucket" {
		return ErrObjectNotFound
	}
	return err
}
