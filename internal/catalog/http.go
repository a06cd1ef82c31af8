// Copyright (c) 2026 Academix. All rights reserved.
// Author: duc.lehoang.dev@gmail.com

/*
HTTP delivery layer for the course and article catalog.

# Architecture

Two route groups share one handler:
  - Public reads: published entries only, paginated, keyed by slug.
  - Authoring: create/update/publish/archive/delete, restricted to
    authenticated instructors by middleware mounted at the API layer.

This layer is strictly responsible for transport concerns (status codes,
query parsing, JSON). Ownership and state-transition rules live in [Service].
*/
package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/lehoangduc/academix/internal/platform/request"
	"github.com/lehoangduc/academix/internal/platform/respond"
	"github.com/lehoangduc/academix/internal/platform/validate"
	"github.com/lehoangduc/academix/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements catalog-related HTTP endpoints.
type Handler struct {
	catalogService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{catalogService: service}
}

// PublicRoutes returns a [chi.Router] with the read-only catalog surface.
//
// # Endpoints
//   - GET /courses        : Paginated published courses.
//   - GET /courses/{slug} : One published course.
//   - GET /articles        : Paginated published articles.
//   - GET /articles/{slug} : One published article.
func (handler *Handler) PublicRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/courses", handler.listCourses)
	router.Get("/courses/{slug}", handler.getCourse)
	router.Get("/articles", handler.listArticles)
	router.Get("/articles/{slug}", handler.getArticle)

	return router
}

// AuthoringRoutes returns a [chi.Router] with the instructor surface.
//
// The caller mounts this behind authentication and role middleware; the
// handler assumes claims are present on the request context.
//
// # Endpoints
//   - POST   /courses                  : Create a draft course.
//   - PUT    /courses/{id}             : Edit an owned course.
//   - POST   /courses/{id}/status      : Publish or archive a course.
//   - DELETE /courses/{id}             : Soft-delete a course.
//   - POST   /articles                 : Create a draft article.
//   - POST   /articles/{slug}/status   : Publish or archive an article.
func (handler *Handler) AuthoringRoutes() chi.Router {
	router := chi.NewRouter()

	router.Post("/courses", handler.createCourse)
	router.Put("/courses/{id}", handler.updateCourse)
	router.Post("/courses/{id}/status", handler.transitionCourse)
	router.Delete("/courses/{id}", handler.deleteCourse)
	router.Post("/articles", handler.createArticle)
	router.Post("/articles/{slug}/status", handler.transitionArticle)

	return router
}

// # Request Payloads

type courseRequest struct {
	Title       string     `json:"title"`
	Summary     string     `json:"summary"`
	Description string     `json:"description"`
	Type        CourseType `json:"type"`
	PriceCents  int64      `json:"price_cents"`
	Venue       string     `json:"venue"`
	CoverURL    string     `json:"cover_url"`
}

type articleRequest struct {
	Title    string `json:"title"`
	Excerpt  string `json:"excerpt"`
	Body     string `json:"body"`
	CoverURL string `json:"cover_url"`
}

type statusRequest struct {
	Status EntryStatus `json:"status"`
}

// validateCourse accumulates field errors for the shared course payload.
func validateCourse(input courseRequest) error {
	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).
		MaxLen(FieldTitle, input.Title, TitleMaxLen).
		Required(FieldType, string(input.Type)).
		Custom(FieldType, input.Type != "" && !input.Type.IsValid(), "must be one of: online, offline, free").
		Custom(FieldPriceCents, input.PriceCents < 0, "must not be negative")

	// Offline delivery needs a physical venue
	if input.Type == CourseTypeOffline {
		validator.Required(FieldVenue, input.Venue)
	}

	return validator.Err()
}

// # Public Catalog

/*
ListCourses returns the public course catalog.

GET /api/v1/courses?type=&q=&page=&limit=

Response:
  - 200: Paginated list of published courses
  - 400: Unknown type filter
*/
func (handler *Handler) listCourses(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	var courseType *CourseType
	if raw := request.URL.Query().Get(FieldType); raw != "" {
		parsed := CourseType(raw)
		if !parsed.IsValid() {
			respond.Error(writer, request, validate.RequiredError(FieldType, "must be one of: online, offline, free"))
			return
		}
		courseType = &parsed
	}

	courses, total, err := handler.catalogService.ListPublishedCourses(
		request.Context(), courseType, request.URL.Query().Get("q"), params,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, courses, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
GetCourse returns one published course by slug.

GET /api/v1/courses/{slug}

Response:
  - 200: Course
  - 404: Unknown slug, draft, or archived entry
*/
func (handler *Handler) getCourse(writer http.ResponseWriter, request *http.Request) {
	course, err := handler.catalogService.GetPublishedCourse(request.Context(), requestutil.Param(request, FieldSlug))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, course)
}

/*
ListArticles returns the public article catalog.

GET /api/v1/articles?page=&limit=

Response:
  - 200: Paginated list of published articles
*/
func (handler *Handler) listArticles(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	articles, total, err := handler.catalogService.ListPublishedArticles(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, articles, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
GetArticle returns one published article by slug.

GET /api/v1/articles/{slug}

Response:
  - 200: Article
  - 404: Unknown slug, draft, or archived entry
*/
func (handler *Handler) getArticle(writer http.ResponseWriter, request *http.Request) {
	article, err := handler.catalogService.GetPublishedArticle(request.Context(), requestutil.Param(request, FieldSlug))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, article)
}

// # Course Authoring

/*
CreateCourse persists a new draft course for the authenticated instructor.

POST /api/v1/instructor/courses

Response:
  - 201: Course: Created draft
  - 400: Validation failure
  - 409: Duplicate slug
*/
func (handler *Handler) createCourse(writer http.ResponseWriter, request *http.Request) {
	authorID, err := requestutil.RequiredAdminID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input courseRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if err := validateCourse(input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	course, err := handler.catalogService.CreateCourse(request.Context(), authorID, CourseInput{
		Title:       input.Title,
		Summary:     input.Summary,
		Description: input.Description,
		Type:        input.Type,
		PriceCents:  input.PriceCents,
		Venue:       input.Venue,
		CoverURL:    input.CoverURL,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, course)
}

/*
UpdateCourse applies edits to an owned course.

PUT /api/v1/instructor/courses/{id}

Response:
  - 200: Course: Updated entity
  - 400: Validation failure
  - 403: Caller is not the author
  - 404: Unknown course
*/
func (handler *Handler) updateCourse(writer http.ResponseWriter, request *http.Request) {
	authorID, err := requestutil.RequiredAdminID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input courseRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if err := validateCourse(input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	course, err := handler.catalogService.UpdateCourse(request.Context(), authorID, requestutil.ID(request, "id"), CourseInput{
		Title:       input.Title,
		Summary:     input.Summary,
		Description: input.Description,
		Type:        input.Type,
		PriceCents:  input.PriceCents,
		Venue:       input.Venue,
		CoverURL:    input.CoverURL,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, course)
}

/*
TransitionCourse publishes or archives an owned course.

POST /api/v1/instructor/courses/{id}/status

Response:
  - 200: Course: Updated entity
  - 400: Unknown target status
  - 403: Caller is not the author
  - 404: Unknown course
*/
func (handler *Handler) transitionCourse(writer http.ResponseWriter, request *http.Request) {
	authorID, err := requestutil.RequiredAdminID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input statusRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	course, err := handler.catalogService.TransitionCourse(request.Context(), authorID, requestutil.ID(request, "id"), input.Status)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, course)
}

/*
DeleteCourse soft-deletes an owned course.

DELETE /api/v1/instructor/courses/{id}

Response:
  - 204: Deleted
  - 403: Caller is not the author
  - 404: Unknown course
*/
func (handler *Handler) deleteCourse(writer http.ResponseWriter, request *http.Request) {
	authorID, err := requestutil.RequiredAdminID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.catalogService.DeleteCourse(request.Context(), authorID, requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Article Authoring

/*
CreateArticle persists a new draft article for the authenticated instructor.

POST /api/v1/instructor/articles

Response:
  - 201: Article: Created draft
  - 400: Validation failure
  - 409: Duplicate slug
*/
func (handler *Handler) createArticle(writer http.ResponseWriter, request *http.Request) {
	authorID, err := requestutil.RequiredAdminID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input articleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).
		MaxLen(FieldTitle, input.Title, TitleMaxLen).
		MaxLen(FieldExcerpt, input.Excerpt, ExcerptMaxLen).
		Required(FieldBody, input.Body)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	article, err := handler.catalogService.CreateArticle(request.Context(), authorID, ArticleInput{
		Title:    input.Title,
		Excerpt:  input.Excerpt,
		Body:     input.Body,
		CoverURL: input.CoverURL,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, article)
}

/*
TransitionArticle publishes or archives an owned article.

POST /api/v1/instructor/articles/{slug}/status

Response:
  - 200: Article: Updated entity
  - 400: Unknown target status
  - 403: Caller is not the author
  - 404: Unknown article
*/
func (handler *Handler) transitionArticle(writer http.ResponseWriter, request *http.Request) {
	authorID, err := requestutil.RequiredAdminID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input statusRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	article, err := handler.catalogService.TransitionArticle(request.Context(), authorID, requestutil.Param(request, FieldSlug), input.Status)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, article)
}
