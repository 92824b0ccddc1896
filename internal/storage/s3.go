package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/ecoquest/community/internal/config"
	"github.com/ecoquest/community/internal/store"
)

// NewS3Client builds an S3 client for the configured object store. A custom
// endpoint switches to path-style addressing for MinIO and similar services.
func NewS3Client(ctx context.Context, cfg config.ObjectStoreConfig) (*s3.Client, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("s3 storage: bucket is required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	endpoint := strings.TrimSpace(cfg.Endpoint)
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// S3MediaStore uploads post and story media to a bucket.
type S3MediaStore struct {
	uploader *manager.Uploader
	bucket   string
	prefix   string
	baseURL  string
}

// NewS3MediaStore configures a multipart uploader for media objects.
func NewS3MediaStore(client *s3.Client, cfg config.ObjectStoreConfig) *S3MediaStore {
	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = 5 * 1024 * 1024
		u.LeavePartsOnError = false
	})

	return &S3MediaStore{
		uploader: uploader,
		bucket:   cfg.Bucket,
		prefix:   strings.Trim(cfg.MediaPrefix, "/"),
		baseURL:  strings.TrimSuffix(cfg.PublicBaseURL, "/"),
	}
}

// Save uploads the content as a public object and returns its location.
func (s *S3MediaStore) Save(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	key := strings.TrimLeft(path.Join(s.prefix, name), "/")
	if key == "" || key == s.prefix {
		return "", fmt.Errorf("s3 storage: empty key")
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   manager.ReadSeekCloser(r),
		ACL:    s3types.ObjectCannedACLPublicRead,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return "", fmt.Errorf("s3 storage upload %s: %w", key, err)
	}

	if s.baseURL == "" {
		return key, nil
	}
	return fmt.Sprintf("%s/%s", s.baseURL, key), nil
}

// ObjectAPI is the subset of the S3 client used for records.
type ObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3RecordStore keeps each community record as a JSON object under a prefix.
type S3RecordStore struct {
	api    ObjectAPI
	bucket string
	prefix string
}

// NewS3RecordStore stores records in bucket under prefix.
func NewS3RecordStore(api ObjectAPI, bucket, prefix string) *S3RecordStore {
	return &S3RecordStore{api: api, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// Get downloads the record object.
func (s *S3RecordStore) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		var missing *s3types.NoSuchKey
		if errors.As(err, &missing) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("s3 get record %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 read record %s: %w", key, err)
	}
	return data, nil
}

// Put uploads the record object, replacing any previous version.
func (s *S3RecordStore) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.objectKey(key)),
		Body:        bytes.NewReader(value),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("s3 put record %s: %w", key, err)
	}
	return nil
}

func (s *S3RecordStore) objectKey(key string) string {
	return path.Join(s.prefix, key+".json")
}

var _ store.Backend = (*S3RecordStore)(nil)
