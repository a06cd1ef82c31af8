// Copyright (c) 2026 Academix. All rights reserved.
// Author: duc.lehoang.dev@gmail.com

package media

import (
	stdctx "context"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehoangduc/academix/internal/platform/apperr"
)

// fakePresigner records the last input and returns a canned URL.
type fakePresigner struct {
	lastInput *s3.PutObjectInput
	calls     int
}

func (presigner *fakePresigner) PresignPutObject(_ stdctx.Context, input *s3.PutObjectInput, _ ...func(*s3.PresignOptions)) (*v4PresignedRequest, error) {
	presigner.calls++
	presigner.lastInput = input
	return &v4PresignedRequest{URL: "https://bucket.s3.test/" + *input.Key + "?signature=abc"}, nil
}

func newTestService(presigner presignPutter) *Service {
	return &Service{
		bucket:    "academix-media",
		presigner: presigner,
		now:       func() time.Time { return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC) },
	}
}

/*
TestIssueUploadURL_Success checks the key layout, content type passthrough,
and expiry stamping.
*/
func TestIssueUploadURL_Success(t *testing.T) {
	presigner := &fakePresigner{}
	service := newTestService(presigner)

	upload, err := service.IssueUploadURL(stdctx.Background(), "admin-1", "image/png")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(upload.Key, "uploads/2026/03/14/admin-1/"), upload.Key)
	assert.Contains(t, upload.URL, upload.Key)
	assert.Equal(t, time.Date(2026, 3, 14, 12, 15, 0, 0, time.UTC), upload.ExpiresAt)

	require.NotNil(t, presigner.lastInput)
	assert.Equal(t, "academix-media", *presigner.lastInput.Bucket)
	assert.Equal(t, "image/png", *presigner.lastInput.ContentType)
}

/*
TestIssueUploadURL_UniqueKeys checks that two grants for the same account in
the same instant still get distinct object keys.
*/
func TestIssueUploadURL_UniqueKeys(t *testing.T) {
	service := newTestService(&fakePresigner{})

	first, err := service.IssueUploadURL(stdctx.Background(), "admin-1", "image/jpeg")
	require.NoError(t, err)
	second, err := service.IssueUploadURL(stdctx.Background(), "admin-1", "image/jpeg")
	require.NoError(t, err)

	assert.NotEqual(t, first.Key, second.Key)
}

/*
TestIssueUploadURL_ContentTypeAllowList checks that disallowed types are
rejected before any signing happens.
*/
func TestIssueUploadURL_ContentTypeAllowList(t *testing.T) {
	presigner := &fakePresigner{}
	service := newTestService(presigner)

	for _, contentType := range []string{"application/x-msdownload", "text/html", ""} {
		_, err := service.IssueUploadURL(stdctx.Background(), "admin-1", contentType)
		require.Error(t, err, contentType)
		assert.Equal(t, apperr.CodeValidation, apperr.As(err).Code)
	}

	assert.Zero(t, presigner.calls)
}
