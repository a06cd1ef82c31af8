// Copyright (c) 2026 Academix. All rights reserved.
// Author: duc.lehoang.dev@gmail.com

/*
Package catalog implements the course and article content domain.

Instructors author courses (online, offline, free) and articles; the public
catalog exposes read access to published entries only.

# Architecture

Entities here have no external dependencies. Storage contracts are defined in
this package and implemented by the Postgres layer; the service orchestrates
validation, slug generation, and publication state transitions.
*/
package catalog

import "time"

// CourseType classifies how a course is delivered and priced.
type CourseType string

const (
	// CourseTypeOnline is a self-paced, paid online course.
	CourseTypeOnline CourseType = "online"
	// CourseTypeOffline is an in-person course tied to a venue.
	CourseTypeOffline CourseType = "offline"
	// CourseTypeFree is an online course with no price; the price is forced to zero.
	CourseTypeFree CourseType = "free"
)

// IsValid reports whether t is a recognised [CourseType] value.
func (t CourseType) IsValid() bool {
	switch t {
	case CourseTypeOnline, CourseTypeOffline, CourseTypeFree:
		return true
	}
	return false
}

// EntryStatus represents the publication state of a catalog entry.
type EntryStatus string

const (
	// StatusDraft is the initial state; invisible to the public catalog.
	StatusDraft EntryStatus = "draft"
	// StatusPublished entries appear in public listings.
	StatusPublished EntryStatus = "published"
	// StatusArchived entries are retired but kept for enrolled students.
	StatusArchived EntryStatus = "archived"
)

// IsValid reports whether s is a recognised [EntryStatus] value.
func (s EntryStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// Course is the central aggregate of the catalog domain.
type Course struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Slug        string      `json:"slug"` // URL-safe identifier (e.g. "intro-to-machine-learning").
	Summary     string      `json:"summary"` // Short listing blurb.
	Description string      `json:"description"`
	Type        CourseType  `json:"type"`
	Status      EntryStatus `json:"status"`
	PriceCents  int64       `json:"price_cents"` // Always zero for free courses.
	Venue       string      `json:"venue,omitempty"` // Offline courses only.
	CoverURL    string      `json:"cover_url,omitempty"`
	AuthorID    string      `json:"author_id"`
	PublishedAt *time.Time  `json:"published_at,omitempty"` // Stamped on first publication.
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	DeletedAt   *time.Time  `json:"-"` // nil = active; non-nil = soft-deleted.
}

// Article is a standalone editorial piece authored by an instructor.
type Article struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Slug        string      `json:"slug"`
	Excerpt     string      `json:"excerpt"`
	Body        string      `json:"body"`
	CoverURL    string      `json:"cover_url,omitempty"`
	Status      EntryStatus `json:"status"`
	AuthorID    string      `json:"author_id"`
	PublishedAt *time.Time  `json:"published_at,omitempty"` // Stamped on first publication.
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	DeletedAt   *time.Time  `json:"-"`
}

// CourseFilter holds the parameters for a filtered course list query.
type CourseFilter struct {
	Type   *CourseType
	Status *EntryStatus
	Author string // Filter by authoring admin ID.
	Query  string // Title search term.
}

// # Validation Limits

const (
	// TitleMaxLen bounds course and article titles.
	TitleMaxLen = 200
	// ExcerptMaxLen bounds the article summary shown in listings.
	ExcerptMaxLen = 500
)

// # Field Identifiers

const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldType        = "type"
	FieldPriceCents  = "price_cents"
	FieldVenue       = "venue"
	FieldExcerpt     = "excerpt"
	FieldBody        = "body"
	FieldSlug        = "slug"
)
