package storage // import "github.com/storyhouse/storyhouse/storage"

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"

	"github.com/storyhouse/storyhouse/config"
)

// MinIOStore talks to any S3 compatible endpoint (MinIO, R2, S3).
type MinIOStore struct {
	client *minio.Client
	bucket string
}

var _ ObjectStore = (*MinIOStore)(nil)

func NewMinIOStore(opts *config.Options) (*MinIOStore, error) {
	client, err := minio.New(opts.StorageEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.StorageAccessKey, opts.StorageSecretKey, ""),
		Secure: opts.StorageUseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create minio client")
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, opts.StorageBucket)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check bucket")
	}
	if !exists {
		if err := client.MakeBucket(ctx, opts.StorageBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, errors.Wrap(err, "failed to create bucket")
		}
	}

	return &MinIOStore{client: client, bucket: opts.StorageBucket}, nil
}

func (s *MinIOStore) Get(ctx context.Context, key string) (*Object, error) {
	object, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get object %s", key)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		// The SDK defers missing-key errors until the first read.
		if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" {
			return nil, errors.Wrapf(ErrObjectNotFound, "key %s", key)
		}
		return nil, errors.Wrapf(err, "failed to read object %s", key)
	}

	stat, err := object.Stat()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to stat object %s", key)
	}

	return &Object{
		Data:        data,
		ContentType: stat.ContentType,
		Metadata:    stat.UserMetadata,
	}, nil
}

func (s *MinIOStore) Put(ctx context.Context, key string, data []byte, contentType string, metadata map[string]string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: metadata,
	})
	if err != nil {
		return "", errors.Wrapf(err, "failed to put object %s", key)
	}
	return fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, key), nil
}

func (s *MinIOStore) Copy(ctx context.Context, srcKey, dstKey string) error {
	_, err := s.client.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: s.bucket, Object: dstKey},
		minio.CopySrcOptions{Bucket: s.bucket, Object: srcKey},
	)
	if err != nil {
		return errors.Wrapf(err, "failed to copy %s to %s", srcKey, dstKey)
	}
	return nil
}

func (s *MinIOStore) Delete(ctx context.Context, key string) error {
	// RemoveObject on a missing key already succeeds, which is the
	// idempotency the callers rely on.
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return errors.Wrapf(err, "failed to delete object %s", key)
	}
	return nil
}

func (s *MinIOStore) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			return nil, errors.Wrapf(object.Err, "failed to list prefix %s", prefix)
		}
		keys = append(keys, object.Key)
	}
	return keys, nil
}
