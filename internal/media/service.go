// Copyright (c) 2026 Academix. All rights reserved.
// Author: duc.lehoang.dev@gmail.com

/*
Package media issues presigned S3 upload URLs for course and article assets.

# Architecture

The API never proxies file bytes. Clients request a presigned PUT URL, upload
directly to object storage, and reference the resulting object key when saving
catalog entries. Only the URL issuance passes through this service.
*/
package media

import (
	stdctx "context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/lehoangduc/academix/internal/platform/apperr"
	"github.com/lehoangduc/academix/internal/platform/config"
	"github.com/lehoangduc/academix/pkg/uuid"
)

// UploadURLTTL bounds how long an issued upload URL stays usable.
const UploadURLTTL = 15 * time.Minute

// allowedContentTypes is the upload allow-list. Anything else is rejected
// before a URL is signed.
var allowedContentTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/png":       {},
	"image/webp":      {},
	"video/mp4":       {},
	"application/pdf": {},
}

// Upload is the issued grant returned to the client.
type Upload struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Service issues presigned upload URLs against the configured bucket.
type Service struct {
	bucket    string
	presigner presignPutter
	now       func() time.Time
}

// presignPutter is the minimal surface of [s3.PresignClient] the service uses.
type presignPutter interface {
	PresignPutObject(ctx stdctx.Context, input *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4PresignedRequest, error)
}

/*
NewService builds the presign client from application config.

Description: Static credentials plus an optional custom endpoint, so the same
code path serves AWS S3 in production and MinIO in development.

Parameters:
  - cfg: *config.Config

Returns:
  - *Service: Ready to issue upload URLs
  - error: apperr.Configuration when the AWS config cannot be assembled
*/
func NewService(cfg *config.Config) (*Service, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(stdctx.Background(),
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, apperr.Configuration("Object storage credentials could not be loaded")
	}

	client := s3.NewFromConfig(awsCfg, func(options *s3.Options) {
		if cfg.S3Endpoint != "" {
			options.BaseEndpoint = aws.String(cfg.S3Endpoint)
			// MinIO and other S3-compatible stores require path-style addressing
			options.UsePathStyle = true
		}
	})

	return &Service{
		bucket:    cfg.S3Bucket,
		presigner: &presignAdapter{client: s3.NewPresignClient(client)},
		now:       time.Now,
	}, nil
}

/*
IssueUploadURL signs a single-use PUT URL for a direct client upload.

Description: Validates the content type against the allow-list, derives a
date-partitioned object key, and signs a PUT with a bounded expiry.

Parameters:
  - context: context.Context
  - adminID: string (Uploading account, becomes part of the key)
  - contentType: string

Returns:
  - *Upload: Object key, signed URL, and expiry
  - err: apperr.ValidationError for disallowed types, or signing failures
*/
func (service *Service) IssueUploadURL(context stdctx.Context, adminID, contentType string) (*Upload, error) {
	if _, ok := allowedContentTypes[contentType]; !ok {
		return nil, apperr.ValidationError("Content type is not allowed for upload")
	}

	key := service.objectKey(adminID)

	request, err := service.presigner.PresignPutObject(context, &s3.PutObjectInput{
		Bucket:      aws.String(service.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(UploadURLTTL))
	if err != nil {
		return nil, fmt.Errorf("media_service_presign_failed: %w", err)
	}

	return &Upload{
		Key:       key,
		URL:       request.URL,
		ExpiresAt: service.now().Add(UploadURLTTL),
	}, nil
}

// objectKey derives a date-partitioned key so buckets stay browsable and
// uploads never collide.
func (service *Service) objectKey(adminID string) string {
	now := service.now()
	return fmt.Sprintf("uploads/%d/%02d/%02d/%s/%s", now.Year(), now.Month(), now.Day(), adminID, uuid.New())
}

// # Presign Adapter

// v4PresignedRequest carries the fields the service consumes from the AWS
// presign response.
type v4PresignedRequest struct {
	URL string
}

// presignAdapter narrows the concrete [s3.PresignClient] to the internal
// interface.
type presignAdapter struct {
	client *s3.PresignClient
}

func (adapter *presignAdapter) PresignPutObject(ctx stdctx.Context, input *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4PresignedRequest, error) {
	request, err := adapter.client.PresignPutObject(ctx, input, optFns...)
	if err != nil {
		return nil, err
	}
	return &v4PresignedRequest{URL: request.URL}, nil
}
