// Copyright (c) 2026 Academix. All rights reserved.
// Author: duc.lehoang.dev@gmail.com

package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/lehoangduc/academix/internal/platform/apperr"
	"github.com/lehoangduc/academix/pkg/pagination"
	"github.com/lehoangduc/academix/pkg/slug"
	"github.com/lehoangduc/academix/pkg/uuid"
)

// Service implements the catalog use cases for courses and articles.
type Service struct {
	courseRepository  CourseRepository
	articleRepository ArticleRepository
}

// NewService constructs a new [Service] with its storage dependencies.
func NewService(courseRepo CourseRepository, articleRepo ArticleRepository) *Service {
	return &Service{
		courseRepository:  courseRepo,
		articleRepository: articleRepo,
	}
}

// # Course Authoring

// CourseInput holds the author-provided fields of a course.
type CourseInput struct {
	Title       string
	Summary     string
	Description string
	Type        CourseType
	PriceCents  int64
	Venue       string
	CoverURL    string
}

/*
CreateCourse validates and persists a new draft course.

Description: Generates the slug from the title and normalizes pricing: free
courses always store a zero price regardless of input.

Parameters:
  - context: context.Context
  - authorID: string (The authenticated instructor)
  - input: CourseInput

Returns:
  - *Course: Created entity in draft state
  - err: Validation or storage failures
*/
func (service *Service) CreateCourse(context context.Context, authorID string, input CourseInput) (*Course, error) {

	// Free courses carry no price; silently normalize rather than reject
	if input.Type == CourseTypeFree {
		input.PriceCents = 0
	}

	course := &Course{
		ID:          uuid.New(),
		Title:       input.Title,
		Slug:        slug.From(input.Title),
		Summary:     input.Summary,
		Description: input.Description,
		Type:        input.Type,
		Status:      StatusDraft,
		PriceCents:  input.PriceCents,
		Venue:       input.Venue,
		CoverURL:    input.CoverURL,
		AuthorID:    authorID,
	}

	if err := service.courseRepository.Create(context, course); err != nil {
		return nil, fmt.Errorf("catalog_service_create_course_failed: %w", err)
	}

	return course, nil
}

/*
UpdateCourse applies author edits to an existing course.

Description: Only the author may edit their own course. The slug is regenerated
when the title changes so catalog URLs stay descriptive.

Parameters:
  - context: context.Context
  - authorID: string
  - courseID: string
  - input: CourseInput

Returns:
  - *Course: Updated entity
  - err: NotFound, Forbidden, or storage failures
*/
func (service *Service) UpdateCourse(context context.Context, authorID, courseID string, input CourseInput) (*Course, error) {
	course, err := service.courseRepository.FindByID(context, courseID)
	if err != nil {
		return nil, err
	}

	if course.AuthorID != authorID {
		return nil, apperr.Forbidden("Only the author may edit this course")
	}

	if input.Type == CourseTypeFree {
		input.PriceCents = 0
	}

	if input.Title != course.Title {
		course.Slug = slug.From(input.Title)
	}
	course.Title = input.Title
	course.Summary = input.Summary
	course.Description = input.Description
	course.Type = input.Type
	course.PriceCents = input.PriceCents
	course.Venue = input.Venue
	course.CoverURL = input.CoverURL

	if err := service.courseRepository.Update(context, course); err != nil {
		return nil, fmt.Errorf("catalog_service_update_course_failed: %w", err)
	}

	return course, nil
}

/*
TransitionCourse moves a course between publication states.

Description: Draft -> published -> archived. Archived courses can be
re-published; deleted courses cannot be transitioned at all.

Parameters:
  - context: context.Context
  - authorID: string
  - courseID: string
  - target: EntryStatus

Returns:
  - *Course: Updated entity
  - err: NotFound, Forbidden, Validation, or storage failures
*/
func (service *Service) TransitionCourse(context context.Context, authorID, courseID string, target EntryStatus) (*Course, error) {
	if !target.IsValid() {
		return nil, apperr.ValidationError("Unknown status: " + string(target))
	}

	course, err := service.courseRepository.FindByID(context, courseID)
	if err != nil {
		return nil, err
	}

	if course.AuthorID != authorID {
		return nil, apperr.Forbidden("Only the author may publish this course")
	}

	// First publication is stamped once; re-publishing after archive keeps
	// the original date
	if target == StatusPublished && course.PublishedAt == nil {
		now := time.Now()
		course.PublishedAt = &now
	}

	course.Status = target
	if err := service.courseRepository.Update(context, course); err != nil {
		return nil, fmt.Errorf("catalog_service_transition_course_failed: %w", err)
	}

	return course, nil
}

/*
DeleteCourse soft-deletes a course owned by the author.
*/
func (service *Service) DeleteCourse(context context.Context, authorID, courseID string) error {
	course, err := service.courseRepository.FindByID(context, courseID)
	if err != nil {
		return err
	}

	if course.AuthorID != authorID {
		return apperr.Forbidden("Only the author may delete this course")
	}

	if err := service.courseRepository.SoftDelete(context, courseID); err != nil {
		return fmt.Errorf("catalog_service_delete_course_failed: %w", err)
	}

	return nil
}

// # Public Catalog Reads

/*
ListPublishedCourses returns the public catalog page for courses.

Description: Only published entries are visible regardless of the caller;
the status filter is pinned server-side.

Parameters:
  - context: context.Context
  - courseType: *CourseType (Optional type filter)
  - query: string (Optional title search)
  - params: pagination.Params

Returns:
  - []*Course: Published courses
  - int: Total count for pagination metadata
  - err: Storage failures
*/
func (service *Service) ListPublishedCourses(context context.Context, courseType *CourseType, query string, params pagination.Params) ([]*Course, int, error) {
	published := StatusPublished
	filter := CourseFilter{
		Type:   courseType,
		Status: &published,
		Query:  query,
	}

	courses, total, err := service.courseRepository.List(context, filter, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("catalog_service_list_courses_failed: %w", err)
	}

	return courses, total, nil
}

/*
GetPublishedCourse returns one published course by slug.
*/
func (service *Service) GetPublishedCourse(context context.Context, courseSlug string) (*Course, error) {
	course, err := service.courseRepository.FindBySlug(context, courseSlug)
	if err != nil {
		return nil, err
	}

	// Drafts and archived entries are invisible on the public surface
	if course.Status != StatusPublished {
		return nil, apperr.NotFound("Course")
	}

	return course, nil
}

// # Article Authoring & Reads

// ArticleInput holds the author-provided fields of an article.
type ArticleInput struct {
	Title    string
	Excerpt  string
	Body     string
	CoverURL string
}

/*
CreateArticle validates and persists a new draft article.
*/
func (service *Service) CreateArticle(context context.Context, authorID string, input ArticleInput) (*Article, error) {
	article := &Article{
		ID:       uuid.New(),
		Title:    input.Title,
		Slug:     slug.From(input.Title),
		Excerpt:  input.Excerpt,
		Body:     input.Body,
		CoverURL: input.CoverURL,
		Status:   StatusDraft,
		AuthorID: authorID,
	}

	if err := service.articleRepository.Create(context, article); err != nil {
		return nil, fmt.Errorf("catalog_service_create_article_failed: %w", err)
	}

	return article, nil
}

/*
TransitionArticle moves an article between publication states.
*/
func (service *Service) TransitionArticle(context context.Context, authorID, articleSlug string, target EntryStatus) (*Article, error) {
	if !target.IsValid() {
		return nil, apperr.ValidationError("Unknown status: " + string(target))
	}

	article, err := service.articleRepository.FindBySlug(context, articleSlug)
	if err != nil {
		return nil, err
	}

	if article.AuthorID != authorID {
		return nil, apperr.Forbidden("Only the author may publish this article")
	}

	// First publication is stamped once; re-publishing after archive keeps
	// the original date
	if target == StatusPublished && article.PublishedAt == nil {
		now := time.Now()
		article.PublishedAt = &now
	}

	article.Status = target
	if err := service.articleRepository.Update(context, article); err != nil {
		return nil, fmt.Errorf("catalog_service_transition_article_failed: %w", err)
	}

	return article, nil
}

/*
ListPublishedArticles returns the public catalog page for articles.
*/
func (service *Service) ListPublishedArticles(context context.Context, params pagination.Params) ([]*Article, int, error) {
	published := StatusPublished

	articles, total, err := service.articleRepository.List(context, &published, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("catalog_service_list_articles_failed: %w", err)
	}

	return articles, total, nil
}

/*
GetPublishedArticle returns one published article by slug.
*/
func (service *Service) GetPublishedArticle(context context.Context, articleSlug string) (*Article, error) {
	article, err := service.articleRepository.FindBySlug(context, articleSlug)
	if err != nil {
		return nil, err
	}

	if article.Status != StatusPublished {
		return nil, apperr.NotFound("Article")
	}

	return article, nil
}
