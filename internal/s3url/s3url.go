// Package s3url turns s3://bucket/key upload targets into presigned HTTP PUT URLs so that uploads to S3 can go
// through the same HTTP path (and carry the same Digest header) as uploads to any other server.
package s3url

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Is reports whether raw names an S3 object rather than a plain HTTP(S) URL.
func Is(raw string) bool {
	return strings.HasPrefix(raw, "s3://")
}

// Parse splits an s3://bucket/key URI into bucket and key.
//
// A key ending in "/" (including the empty key from s3://bucket) denotes a key prefix; the caller is expected to
// append a file name before presigning.
func Parse(raw string) (bucket, key string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("parse s3 url error: %w", err)
	}

	if u.Scheme != "s3" || u.Host == "" {
		return "", "", fmt.Errorf(`malformed s3 url "%s": expected s3://bucket/key`, raw)
	}

	return u.Host, strings.TrimPrefix(u.Path, "/"), nil
}

// Presign resolves an s3://bucket/key URI into a presigned PUT URL valid for the given duration.
//
// Credentials and region come from the usual AWS configuration sources (environment, shared config, etc.).
func Presign(ctx context.Context, raw string, expires time.Duration) (string, error) {
	bucket, key, err := Parse(raw)
	if err != nil {
		return "", err
	}
	if key == "" || strings.HasSuffix(key, "/") {
		return "", fmt.Errorf(`malformed s3 url "%s": key must not be empty`, raw)
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return "", fmt.Errorf("load default config error: %w", err)
	}

	out, err := s3.NewPresignClient(s3.NewFromConfig(cfg)).PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", fmt.Errorf("presign put object error: %w", err)
	}

	return out.URL, nil
}
