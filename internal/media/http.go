// Copyright (c) 2026 Academix. All rights reserved.
// Author: duc.lehoang.dev@gmail.com

package media

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/lehoangduc/academix/internal/platform/request"
	"github.com/lehoangduc/academix/internal/platform/respond"
	"github.com/lehoangduc/academix/internal/platform/validate"
)

// Handler implements the media upload HTTP endpoint.
type Handler struct {
	mediaService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{mediaService: service}
}

// Routes returns a [chi.Router] with the media endpoints. The caller mounts
// this behind authentication middleware.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/uploads", handler.presignUpload)

	return router
}

type presignRequest struct {
	ContentType string `json:"content_type"`
}

/*
PresignUpload issues a presigned PUT URL for a direct asset upload.

POST /api/v1/media/uploads

Request:
  - Body: presignRequest (ContentType)

Response:
  - 200: Upload: {key, url, expires_at}
  - 400: Missing or disallowed content type
  - 401: No authenticated session
*/
func (handler *Handler) presignUpload(writer http.ResponseWriter, request *http.Request) {
	adminID, err := requestutil.RequiredAdminID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input presignRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.ContentType == "" {
		respond.Error(writer, request, validate.RequiredError("content_type", "is required"))
		return
	}

	upload, err := handler.mediaService.IssueUploadURL(request.Context(), adminID, input.ContentType)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, upload)
}
