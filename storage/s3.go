package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

const s3ExpiresMetaKey = "expires-at"

// S3Store implements KVStore using S3. One object per key; the expiry hint
// lives in object metadata and is enforced on read, S3 has no native TTL.
type S3Store struct {
	bucket string
	prefix string
	client *s3.Client
}

// NewS3Store creates a new S3 storage backend.
func NewS3Store(bucket, prefix string) (*S3Store, error) {
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket name must not be empty")
	}
	cfg, err := config.LoadDefaultConfig(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &S3Store{bucket: bucket, prefix: prefix, client: s3.NewFromConfig(cfg)}, nil
}

// objectKey percent-escapes the key so arbitrary key strings stay one
// object per key under the configured prefix.
func (s *S3Store) objectKey(key string) string {
	escaped := url.PathEscape(key)
	if s.prefix == "" {
		return escaped
	}
	return strings.TrimSuffix(s.prefix, "/") + "/" + escaped
}

func (s *S3Store) Get(key string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		if isS3NotFound(err) {
			return "", ErrKeyNotFound
		}
		return "", err
	}
	defer func() { _ = out.Body.Close() }()

	if metaExpired(out.Metadata, time.Now()) {
		return "", ErrKeyNotFound
	}
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *S3Store) Put(key, value string) error {
	return s.PutWithTTL(key, value, 0)
}

func (s *S3Store) PutWithTTL(key, value string, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.objectKey(key)),
		Body:        bytes.NewReader([]byte(value)),
		ContentType: aws.String("application/json"),
	}
	if ttl > 0 {
		input.Metadata = map[string]string{
			s3ExpiresMetaKey: time.Now().Add(ttl).UTC().Format(time.RFC3339),
		}
	}
	_, err := s.client.PutObject(ctx, input)
	return err
}

func (s *S3Store) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	return err
}

func (s *S3Store) List() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	listPrefix := ""
	if s.prefix != "" {
		listPrefix = strings.TrimSuffix(s.prefix, "/") + "/"
	}
	now := time.Now()
	var keys []string
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(listPrefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), listPrefix)
			key, err := url.PathUnescape(name)
			if err != nil {
				continue
			}
			head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
				Bucket: aws.String(s.bucket),
				Key:    obj.Key,
			})
			if err != nil {
				continue
			}
			if metaExpired(head.Metadata, now) {
				continue
			}
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (s *S3Store) Exists(key string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		if isS3NotFound(err) {
			return false, nil
		}
		return false, err
	}
	if metaExpired(head.Metadata, time.Now()) {
		return false, nil
	}
	return true, nil
}

func (s *S3Store) Close() error {
	return nil
}

// isS3NotFound reports whether err is an S3 missing-object error.
func isS3NotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "NoSuchKey" || code == "NotFound"
	}
	return false
}

// metaExpired checks the expires-at object metadata against now.
func metaExpired(meta map[string]string, now time.Time) bool {
	raw, ok := meta[s3ExpiresMetaKey]
	if !ok {
		return false
	}
	deadline, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return false
	}
	return now.After(deadline)
}
