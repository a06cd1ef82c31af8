// Copyright (c) 2026 Academix. All rights reserved.
// Author: duc.lehoang.dev@gmail.com

// PostgreSQL implementation of the catalog storage layer.
//
// # Architecture
//
// Repositories implement the domain-defined interfaces using the
// [pgxpool.Pool] connection manager. List queries use a COUNT(*) OVER()
// window function so the total count arrives with the page in one
// round-trip. Storage errors are mapped through dberr before they reach
// the service layer.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lehoangduc/academix/internal/platform/apperr"
	"github.com/lehoangduc/academix/internal/platform/dberr"
)

// # Course Repository

const courseColumns = `id, title, slug, summary, description, type, status, pricecents, venue, coverurl, authorid, publishedat, createdat, updatedat`

// PostgresCourseRepository implements the CourseRepository interface using pgx.
type PostgresCourseRepository struct {
	pool *pgxpool.Pool
}

// NewCourseRepository creates a new PostgreSQL implementation of the CourseRepository.
func NewCourseRepository(pool *pgxpool.Pool) *PostgresCourseRepository {
	return &PostgresCourseRepository{pool: pool}
}

/*
List returns a filtered, paginated slice of courses and the total count.

Description: Builds the WHERE clause dynamically from the filter and uses a
COUNT(*) OVER() window function to retrieve the total record count without a
second query.

Parameters:
  - context: context.Context
  - filter: CourseFilter (Type, status, author, title search)
  - limit: int
  - offset: int

Returns:
  - []*Course: Slice of hydrated course entities
  - int: Total count matching filters
  - error: Database execution errors
*/
func (repository *PostgresCourseRepository) List(context context.Context, filter CourseFilter, limit, offset int) ([]*Course, int, error) {

	// Query build initialization
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(`
		SELECT ` + courseColumns + `, COUNT(*) OVER() AS total_count
		FROM core.course
		WHERE deletedat IS NULL`)

	// Apply Filters (Dynamic WHERE clause construction)
	if filter.Type != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND type = $%d", argID))
		args = append(args, *filter.Type)
		argID++
	}

	// Publication status filtering
	if filter.Status != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND status = $%d", argID))
		args = append(args, *filter.Status)
		argID++
	}

	// Author filtering
	if filter.Author != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND authorid = $%d", argID))
		args = append(args, filter.Author)
		argID++
	}

	// Title search filtering
	if filter.Query != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND title ILIKE $%d", argID))
		args = append(args, "%"+filter.Query+"%")
		argID++
	}

	// Newest first, with the primary key as a stable tiebreaker
	queryBuilder.WriteString(" ORDER BY createdat DESC, id DESC")

	// Pagination injection
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	// Query Execution
	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_course_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var courses []*Course
	var totalCount int

	for rows.Next() {
		course := &Course{}
		err := rows.Scan(
			&course.ID,
			&course.Title,
			&course.Slug,
			&course.Summary,
			&course.Description,
			&course.Type,
			&course.Status,
			&course.PriceCents,
			&course.Venue,
			&course.CoverURL,
			&course.AuthorID,
			&course.PublishedAt,
			&course.CreatedAt,
			&course.UpdatedAt,
			&totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_course_repo_scan_failed: %w", err)
		}
		courses = append(courses, course)
	}

	return courses, totalCount, nil
}

/*
FindByID retrieves a course record by its primary key.

Returns:
  - *Course: Hydrated course entity
  - error: apperr.NotFound if absent or soft-deleted, or database errors
*/
func (repository *PostgresCourseRepository) FindByID(context context.Context, id string) (*Course, error) {
	query := `
		SELECT ` + courseColumns + `
		FROM core.course
		WHERE id = $1 AND deletedat IS NULL`

	course, err := repository.scan(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Course")
		}
		return nil, fmt.Errorf("postgres_course_repo_find_by_id_failed: %w", err)
	}

	return course, nil
}

/*
FindBySlug retrieves a course record by its unique URL slug.

Description: The public catalog lookup; internal UUIDs never appear in
catalog URLs.

Returns:
  - *Course: Hydrated course entity
  - error: apperr.NotFound if absent or soft-deleted, or database errors
*/
func (repository *PostgresCourseRepository) FindBySlug(context context.Context, slug string) (*Course, error) {
	query := `
		SELECT ` + courseColumns + `
		FROM core.course
		WHERE slug = $1 AND deletedat IS NULL`

	course, err := repository.scan(repository.pool.QueryRow(context, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Course")
		}
		return nil, fmt.Errorf("postgres_course_repo_find_by_slug_failed: %w", err)
	}

	return course, nil
}

/*
Create persists a new course record.

Description: The unique slug constraint is mapped to a client-visible
Conflict through dberr so duplicate titles surface as 409, not 500.

Returns:
  - error: apperr.Conflict on a duplicate slug, or persistence failures
*/
func (repository *PostgresCourseRepository) Create(context context.Context, course *Course) error {
	const query = `
		INSERT INTO core.course (
			id, title, slug, summary, description, type, status, pricecents, venue, coverurl, authorid, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	now := time.Now()
	course.CreatedAt = now
	course.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		course.ID,
		course.Title,
		course.Slug,
		course.Summary,
		course.Description,
		course.Type,
		course.Status,
		course.PriceCents,
		course.Venue,
		course.CoverURL,
		course.AuthorID,
		course.CreatedAt,
		course.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "create course")
	}

	return nil
}

/*
Update persists changes to an existing course's mutable fields.

Returns:
  - error: apperr.NotFound if the target row is absent or soft-deleted
*/
func (repository *PostgresCourseRepository) Update(context context.Context, course *Course) error {
	const query = `
		UPDATE core.course
		SET title = $2, slug = $3, summary = $4, description = $5, type = $6,
			status = $7, pricecents = $8, venue = $9, coverurl = $10,
			publishedat = $11, updatedat = NOW()
		WHERE id = $1 AND deletedat IS NULL`

	tag, err := repository.pool.Exec(context, query,
		course.ID,
		course.Title,
		course.Slug,
		course.Summary,
		course.Description,
		course.Type,
		course.Status,
		course.PriceCents,
		course.Venue,
		course.CoverURL,
		course.PublishedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "update course")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Course")
	}

	return nil
}

/*
SoftDelete marks a course as deleted without removing the row.

Returns:
  - error: apperr.NotFound if the row is absent or already deleted
*/
func (repository *PostgresCourseRepository) SoftDelete(context context.Context, id string) error {
	const query = `
		UPDATE core.course
		SET deletedat = NOW(), updatedat = NOW()
		WHERE id = $1 AND deletedat IS NULL`

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_course_repo_soft_delete_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Course")
	}

	return nil
}

// scan hydrates a Course from the standard column order.
func (repository *PostgresCourseRepository) scan(row pgx.Row) (*Course, error) {
	course := &Course{}
	err := row.Scan(
		&course.ID,
		&course.Title,
		&course.Slug,
		&course.Summary,
		&course.Description,
		&course.Type,
		&course.Status,
		&course.PriceCents,
		&course.Venue,
		&course.CoverURL,
		&course.AuthorID,
		&course.PublishedAt,
		&course.CreatedAt,
		&course.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return course, nil
}

// # Article Repository

const articleColumns = `id, title, slug, excerpt, body, coverurl, status, authorid, publishedat, createdat, updatedat`

// PostgresArticleRepository implements the ArticleRepository interface using pgx.
type PostgresArticleRepository struct {
	pool *pgxpool.Pool
}

// NewArticleRepository creates a new PostgreSQL implementation of the ArticleRepository.
func NewArticleRepository(pool *pgxpool.Pool) *PostgresArticleRepository {
	return &PostgresArticleRepository{pool: pool}
}

/*
List returns a paginated slice of articles and the total count.

Parameters:
  - context: context.Context
  - status: *EntryStatus (Optional publication state filter)
  - limit: int
  - offset: int

Returns:
  - []*Article: Slice of hydrated article entities
  - int: Total count matching the filter
  - error: Database execution errors
*/
func (repository *PostgresArticleRepository) List(context context.Context, status *EntryStatus, limit, offset int) ([]*Article, int, error) {
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(`
		SELECT ` + articleColumns + `, COUNT(*) OVER() AS total_count
		FROM core.article
		WHERE deletedat IS NULL`)

	if status != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND status = $%d", argID))
		args = append(args, *status)
		argID++
	}

	queryBuilder.WriteString(" ORDER BY createdat DESC, id DESC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_article_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var articles []*Article
	var totalCount int

	for rows.Next() {
		article := &Article{}
		err := rows.Scan(
			&article.ID,
			&article.Title,
			&article.Slug,
			&article.Excerpt,
			&article.Body,
			&article.CoverURL,
			&article.Status,
			&article.AuthorID,
			&article.PublishedAt,
			&article.CreatedAt,
			&article.UpdatedAt,
			&totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_article_repo_scan_failed: %w", err)
		}
		articles = append(articles, article)
	}

	return articles, totalCount, nil
}

/*
FindBySlug retrieves an article record by its unique URL slug.

Returns:
  - *Article: Hydrated article entity
  - error: apperr.NotFound if absent or soft-deleted, or database errors
*/
func (repository *PostgresArticleRepository) FindBySlug(context context.Context, slug string) (*Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM core.article
		WHERE slug = $1 AND deletedat IS NULL`

	article := &Article{}
	err := repository.pool.QueryRow(context, query, slug).Scan(
		&article.ID,
		&article.Title,
		&article.Slug,
		&article.Excerpt,
		&article.Body,
		&article.CoverURL,
		&article.Status,
		&article.AuthorID,
		&article.PublishedAt,
		&article.CreatedAt,
		&article.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Article")
		}
		return nil, fmt.Errorf("postgres_article_repo_find_by_slug_failed: %w", err)
	}

	return article, nil
}

/*
Create persists a new article record.

Returns:
  - error: apperr.Conflict on a duplicate slug, or persistence failures
*/
func (repository *PostgresArticleRepository) Create(context context.Context, article *Article) error {
	const query = `
		INSERT INTO core.article (
			id, title, slug, excerpt, body, coverurl, status, authorid, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	// publishedat stays NULL until the first publish transition

	now := time.Now()
	article.CreatedAt = now
	article.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		article.ID,
		article.Title,
		article.Slug,
		article.Excerpt,
		article.Body,
		article.CoverURL,
		article.Status,
		article.AuthorID,
		article.CreatedAt,
		article.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "create article")
	}

	return nil
}

/*
Update persists changes to existing article metadata.

Returns:
  - error: apperr.NotFound if the target row is absent or soft-deleted
*/
func (repository *PostgresArticleRepository) Update(context context.Context, article *Article) error {
	const query = `
		UPDATE core.article
		SET title = $2, slug = $3, excerpt = $4, body = $5, coverurl = $6,
			status = $7, publishedat = $8, updatedat = NOW()
		WHERE id = $1 AND deletedat IS NULL`

	tag, err := repository.pool.Exec(context, query,
		article.ID,
		article.Title,
		article.Slug,
		article.Excerpt,
		article.Body,
		article.CoverURL,
		article.Status,
		article.PublishedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "update article")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Article")
	}

	return nil
}

/*
SoftDelete marks an article as deleted without removing the row.

Returns:
  - error: apperr.NotFound if the row is absent or already deleted
*/
func (repository *PostgresArticleRepository) SoftDelete(context context.Context, id string) error {
	const query = `
		UPDATE core.article
		SET deletedat = NOW(), updatedat = NOW()
		WHERE id = $1 AND deletedat IS NULL`

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_article_repo_soft_delete_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Article")
	}

	return nil
}
