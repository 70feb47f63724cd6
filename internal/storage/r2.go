// Package storage keeps uploaded files in Cloudflare R2 through its S3 API.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/muhammadolammi/maarg/internal/config"
)

const Provider = "r2"

var ErrDisabled = errors.New("object storage is not configured")

// ObjectAPI is the part of the S3 client the store needs.
type ObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type R2 struct {
	client    ObjectAPI
	bucket    string
	publicURL string
}

// NewR2 builds an S3 client pointed at the account's R2 endpoint.
func NewR2(ctx context.Context, cfg config.R2Config) (*R2, error) {
	if !cfg.Enabled() {
		return nil, ErrDisabled
	}
	awsConfig, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("error creating aws config: %w", err)
	}
	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID))
	})
	return NewWithClient(client, cfg.Bucket, cfg.PublicURL), nil
}

func NewWithClient(client ObjectAPI, bucket, publicURL string) *R2 {
	return &R2{client: client, bucket: bucket, publicURL: strings.TrimRight(publicURL, "/")}
}

func (r *R2) Upload(ctx context.Context, key, contentType string, data []byte) error {
	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(r.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return fmt.Errorf("failed to put object: %w", err)
	}
	return nil
}

func (r *R2) Download(ctx context.Context, key string) ([]byte, error) {
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer out.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, out.Body); err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}
	return buf.Bytes(), nil
}

// URL returns the public address of key, or "" when no public domain is set.
func (r *R2) URL(key string) string {
	if r.publicURL == "" || key == "" {
		return ""
	}
	return r.publicURL + "/" + key
}

// DocumentKey names a new upload: documents/<user>/<uuid><ext>.
func DocumentKey(userID, filename string) string {
	return objectKey("documents", userID, filename)
}

func PhotoKey(userID, filename string) string {
	return objectKey("photos", userID, filename)
}

func objectKey(prefix, userID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return path.Join(prefix, userID, uuid.NewString()+ext)
}
