// Copyright (c) 2026 Academix. All rights reserved.
// Author: duc.lehoang.dev@gmail.com

package catalog

import "context"

// CourseRepository defines the data access contract for the course domain.
//
// # Architecture
//
// Implementations live in store_postgres.go; the interface lives in the domain
// package because the service layer (the consumer) defines what it needs.
type CourseRepository interface {
	// List returns a filtered, paginated slice of courses and the total count.
	//
	// Returns:
	//   - []*Course: The list of courses matching the filter.
	//   - int: Total count for pagination.
	//   - error: Database or connection errors.
	List(ctx context.Context, f CourseFilter, limit, offset int) ([]*Course, int, error)

	// FindByID returns the course with the given ID.
	//
	// It returns ErrNotFound if the course is absent or soft-deleted.
	FindByID(ctx context.Context, id string) (*Course, error)

	// FindBySlug returns the course with the given slug.
	FindBySlug(ctx context.Context, slug string) (*Course, error)

	// Create persists a new course to the store.
	//
	// The caller is responsible for generating and setting the ID and Slug
	// before calling this method.
	Create(ctx context.Context, course *Course) error

	// Update persists changes to an existing course's mutable fields.
	Update(ctx context.Context, course *Course) error

	// SoftDelete marks a course as deleted without removing the row.
	SoftDelete(ctx context.Context, id string) error
}

// ArticleRepository defines the data access contract for articles.
type ArticleRepository interface {
	// List returns a paginated slice of articles in the given status.
	List(ctx context.Context, status *EntryStatus, limit, offset int) ([]*Article, int, error)

	// FindBySlug returns the article with the given slug.
	FindBySlug(ctx context.Context, slug string) (*Article, error)

	// Create persists a new article to the store.
	Create(ctx context.Context, article *Article) error

	// Update persists changes to existing article metadata.
	Update(ctx context.Context, article *Article) error

	// SoftDelete marks an article as deleted without removing the row.
	SoftDelete(ctx context.Context, id string) error
}
