// Copyright (c) 2026 Academix. All rights reserved.
// Author: duc.lehoang.dev@gmail.com

package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehoangduc/academix/internal/catalog"
	"github.com/lehoangduc/academix/internal/platform/apperr"
	"github.com/lehoangduc/academix/pkg/pagination"
)

// # Fakes

type fakeCourseRepository struct {
	courses map[string]*catalog.Course
}

func newFakeCourseRepository() *fakeCourseRepository {
	return &fakeCourseRepository{courses: map[string]*catalog.Course{}}
}

func (repository *fakeCourseRepository) List(_ context.Context, filter catalog.CourseFilter, limit, offset int) ([]*catalog.Course, int, error) {
	var matched []*catalog.Course
	for _, course := range repository.courses {
		if course.DeletedAt != nil {
			continue
		}
		if filter.Status != nil && course.Status != *filter.Status {
			continue
		}
		if filter.Type != nil && course.Type != *filter.Type {
			continue
		}
		if filter.Author != "" && course.AuthorID != filter.Author {
			continue
		}
		matched = append(matched, course)
	}

	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (repository *fakeCourseRepository) FindByID(_ context.Context, id string) (*catalog.Course, error) {
	course, ok := repository.courses[id]
	if !ok || course.DeletedAt != nil {
		return nil, apperr.NotFound("Course")
	}
	return course, nil
}

func (repository *fakeCourseRepository) FindBySlug(_ context.Context, slug string) (*catalog.Course, error) {
	for _, course := range repository.courses {
		if course.Slug == slug && course.DeletedAt == nil {
			return course, nil
		}
	}
	return nil, apperr.NotFound("Course")
}

func (repository *fakeCourseRepository) Create(_ context.Context, course *catalog.Course) error {
	for _, existing := range repository.courses {
		if existing.Slug == course.Slug {
			return apperr.Conflict("Resource already exists")
		}
	}
	repository.courses[course.ID] = course
	return nil
}

func (repository *fakeCourseRepository) Update(_ context.Context, course *catalog.Course) error {
	if _, ok := repository.courses[course.ID]; !ok {
		return apperr.NotFound("Course")
	}
	repository.courses[course.ID] = course
	return nil
}

func (repository *fakeCourseRepository) SoftDelete(_ context.Context, id string) error {
	course, ok := repository.courses[id]
	if !ok || course.DeletedAt != nil {
		return apperr.NotFound("Course")
	}
	deleted := course.CreatedAt
	course.DeletedAt = &deleted
	return nil
}

type fakeArticleRepository struct {
	articles map[string]*catalog.Article
}

func newFakeArticleRepository() *fakeArticleRepository {
	return &fakeArticleRepository{articles: map[string]*catalog.Article{}}
}

func (repository *fakeArticleRepository) List(_ context.Context, status *catalog.EntryStatus, limit, offset int) ([]*catalog.Article, int, error) {
	var matched []*catalog.Article
	for _, article := range repository.articles {
		if article.DeletedAt != nil {
			continue
		}
		if status != nil && article.Status != *status {
			continue
		}
		matched = append(matched, article)
	}

	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (repository *fakeArticleRepository) FindBySlug(_ context.Context, slug string) (*catalog.Article, error) {
	for _, article := range repository.articles {
		if article.Slug == slug && article.DeletedAt == nil {
			return article, nil
		}
	}
	return nil, apperr.NotFound("Article")
}

func (repository *fakeArticleRepository) Create(_ context.Context, article *catalog.Article) error {
	repository.articles[article.ID] = article
	return nil
}

func (repository *fakeArticleRepository) Update(_ context.Context, article *catalog.Article) error {
	if _, ok := repository.articles[article.ID]; !ok {
		return apperr.NotFound("Article")
	}
	repository.articles[article.ID] = article
	return nil
}

func (repository *fakeArticleRepository) SoftDelete(_ context.Context, id string) error {
	article, ok := repository.articles[id]
	if !ok {
		return apperr.NotFound("Article")
	}
	deleted := article.CreatedAt
	article.DeletedAt = &deleted
	return nil
}

// # Harness

const (
	authorAlice = "author-alice"
	authorBob   = "author-bob"
)

func newTestService(t *testing.T) (*catalog.Service, *fakeCourseRepository, *fakeArticleRepository) {
	t.Helper()

	courseRepo := newFakeCourseRepository()
	articleRepo := newFakeArticleRepository()
	return catalog.NewService(courseRepo, articleRepo), courseRepo, articleRepo
}

func defaultPage() pagination.Params {
	return pagination.Params{Page: 1, Limit: pagination.DefaultLimit}
}

// # Course Authoring

/*
TestCreateCourse_Defaults checks slug generation and the draft initial state.
*/
func TestCreateCourse_Defaults(t *testing.T) {
	service, _, _ := newTestService(t)

	course, err := service.CreateCourse(context.Background(), authorAlice, catalog.CourseInput{
		Title:      "Intro to Machine Learning",
		Type:       catalog.CourseTypeOnline,
		PriceCents: 4999,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, course.ID)
	assert.Equal(t, "intro-to-machine-learning", course.Slug)
	assert.Equal(t, catalog.StatusDraft, course.Status)
	assert.Equal(t, authorAlice, course.AuthorID)
	assert.Equal(t, int64(4999), course.PriceCents)
}

/*
TestCreateCourse_FreePriceForcedToZero checks the pricing invariant for free
courses: whatever the author submits, the stored price is zero.
*/
func TestCreateCourse_FreePriceForcedToZero(t *testing.T) {
	service, repo, _ := newTestService(t)

	course, err := service.CreateCourse(context.Background(), authorAlice, catalog.CourseInput{
		Title:      "Free Git Basics",
		Type:       catalog.CourseTypeFree,
		PriceCents: 9999,
	})
	require.NoError(t, err)

	assert.Zero(t, course.PriceCents)
	assert.Zero(t, repo.courses[course.ID].PriceCents)
}

/*
TestUpdateCourse_Ownership checks that only the author may edit, and that a
title change regenerates the slug.
*/
func TestUpdateCourse_Ownership(t *testing.T) {
	service, _, _ := newTestService(t)

	course, err := service.CreateCourse(context.Background(), authorAlice, catalog.CourseInput{
		Title: "Old Title", Type: catalog.CourseTypeOnline,
	})
	require.NoError(t, err)

	t.Run("other_author_forbidden", func(t *testing.T) {
		_, err := service.UpdateCourse(context.Background(), authorBob, course.ID, catalog.CourseInput{
			Title: "Hijacked", Type: catalog.CourseTypeOnline,
		})
		require.Error(t, err)
		assert.Equal(t, apperr.CodeForbidden, apperr.As(err).Code)
	})

	t.Run("author_edit_regenerates_slug", func(t *testing.T) {
		updated, err := service.UpdateCourse(context.Background(), authorAlice, course.ID, catalog.CourseInput{
			Title: "New Title", Type: catalog.CourseTypeOnline,
		})
		require.NoError(t, err)
		assert.Equal(t, "new-title", updated.Slug)
	})
}

/*
TestTransitionCourse walks draft -> published -> archived and rejects
unknown states.
*/
func TestTransitionCourse(t *testing.T) {
	service, _, _ := newTestService(t)

	course, err := service.CreateCourse(context.Background(), authorAlice, catalog.CourseInput{
		Title: "Lifecycle", Type: catalog.CourseTypeOnline,
	})
	require.NoError(t, err)

	published, err := service.TransitionCourse(context.Background(), authorAlice, course.ID, catalog.StatusPublished)
	require.NoError(t, err)
	assert.Equal(t, catalog.StatusPublished, published.Status)
	require.NotNil(t, published.PublishedAt)
	firstPublished := *published.PublishedAt

	archived, err := service.TransitionCourse(context.Background(), authorAlice, course.ID, catalog.StatusArchived)
	require.NoError(t, err)
	assert.Equal(t, catalog.StatusArchived, archived.Status)

	// Re-publishing keeps the original publication date
	republished, err := service.TransitionCourse(context.Background(), authorAlice, course.ID, catalog.StatusPublished)
	require.NoError(t, err)
	require.NotNil(t, republished.PublishedAt)
	assert.Equal(t, firstPublished, *republished.PublishedAt)

	_, err = service.TransitionCourse(context.Background(), authorAlice, course.ID, catalog.EntryStatus("bogus"))
	require.Error(t, err)
	assert.Equal(t, apperr.CodeValidation, apperr.As(err).Code)

	_, err = service.TransitionCourse(context.Background(), authorBob, course.ID, catalog.StatusPublished)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeForbidden, apperr.As(err).Code)
}

/*
TestDeleteCourse checks ownership enforcement and that deleted courses vanish
from lookups.
*/
func TestDeleteCourse(t *testing.T) {
	service, _, _ := newTestService(t)

	course, err := service.CreateCourse(context.Background(), authorAlice, catalog.CourseInput{
		Title: "Doomed", Type: catalog.CourseTypeOnline,
	})
	require.NoError(t, err)

	err = service.DeleteCourse(context.Background(), authorBob, course.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeForbidden, apperr.As(err).Code)

	require.NoError(t, service.DeleteCourse(context.Background(), authorAlice, course.ID))

	_, err = service.GetPublishedCourse(context.Background(), course.Slug)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.As(err).Code)
}

// # Public Visibility

/*
TestPublicCatalog_PublishedOnly checks that drafts and archived entries never
surface through the public read paths.
*/
func TestPublicCatalog_PublishedOnly(t *testing.T) {
	service, _, _ := newTestService(t)

	draft, err := service.CreateCourse(context.Background(), authorAlice, catalog.CourseInput{
		Title: "Hidden Draft", Type: catalog.CourseTypeOnline,
	})
	require.NoError(t, err)

	visible, err := service.CreateCourse(context.Background(), authorAlice, catalog.CourseInput{
		Title: "Visible Course", Type: catalog.CourseTypeFree,
	})
	require.NoError(t, err)
	_, err = service.TransitionCourse(context.Background(), authorAlice, visible.ID, catalog.StatusPublished)
	require.NoError(t, err)

	courses, total, err := service.ListPublishedCourses(context.Background(), nil, "", defaultPage())
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, courses, 1)
	assert.Equal(t, visible.ID, courses[0].ID)

	// Slug lookup on a draft is a 404, not a 403
	_, err = service.GetPublishedCourse(context.Background(), draft.Slug)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.As(err).Code)

	found, err := service.GetPublishedCourse(context.Background(), visible.Slug)
	require.NoError(t, err)
	assert.Equal(t, visible.ID, found.ID)
}

/*
TestListPublishedCourses_TypeFilter checks the delivery-type filter.
*/
func TestListPublishedCourses_TypeFilter(t *testing.T) {
	service, _, _ := newTestService(t)

	for _, seed := range []struct {
		title      string
		courseType catalog.CourseType
	}{
		{"Online Course", catalog.CourseTypeOnline},
		{"Offline Workshop", catalog.CourseTypeOffline},
	} {
		course, err := service.CreateCourse(context.Background(), authorAlice, catalog.CourseInput{
			Title: seed.title, Type: seed.courseType, Venue: "Room 1",
		})
		require.NoError(t, err)
		_, err = service.TransitionCourse(context.Background(), authorAlice, course.ID, catalog.StatusPublished)
		require.NoError(t, err)
	}

	offline := catalog.CourseTypeOffline
	courses, total, err := service.ListPublishedCourses(context.Background(), &offline, "", defaultPage())
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, courses, 1)
	assert.Equal(t, catalog.CourseTypeOffline, courses[0].Type)
}

// # Articles

/*
TestArticleLifecycle covers create, publish, and public visibility in one
pass.
*/
func TestArticleLifecycle(t *testing.T) {
	service, _, _ := newTestService(t)

	article, err := service.CreateArticle(context.Background(), authorAlice, catalog.ArticleInput{
		Title:   "Why Spaced Repetition Works",
		Excerpt: "A short tour of the evidence.",
		Body:    "Long form body.",
	})
	require.NoError(t, err)
	assert.Equal(t, "why-spaced-repetition-works", article.Slug)
	assert.Equal(t, catalog.StatusDraft, article.Status)

	// Invisible until published
	_, err = service.GetPublishedArticle(context.Background(), article.Slug)
	require.Error(t, err)

	_, err = service.TransitionArticle(context.Background(), authorBob, article.Slug, catalog.StatusPublished)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeForbidden, apperr.As(err).Code)

	published, err := service.TransitionArticle(context.Background(), authorAlice, article.Slug, catalog.StatusPublished)
	require.NoError(t, err)
	assert.Equal(t, catalog.StatusPublished, published.Status)
	assert.NotNil(t, published.PublishedAt)

	articles, total, err := service.ListPublishedArticles(context.Background(), defaultPage())
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, articles, 1)

	found, err := service.GetPublishedArticle(context.Background(), article.Slug)
	require.NoError(t, err)
	assert.Equal(t, article.ID, found.ID)
}
