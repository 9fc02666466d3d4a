package model

import (
	"time"

	"github.com/google/uuid"
)

const TableName = "articles"

// Article is the published copy of an approved submission.
type Article struct {
	ID                uuid.UUID `db:"id" json:"id"`
	SubmissionID      uuid.UUID `db:"submission_id" json:"submission_id"`
	Slug              string    `db:"slug" json:"slug"`
	Title             string    `db:"title" json:"title"`
	Summary           string    `db:"summary" json:"summary"`
	Content           string    `db:"content" json:"content"`
	Keywords          []string  `db:"keywords" json:"keywords"`
	Category          string    `db:"category" json:"category"`
	AuthorName        string    `db:"author_name" json:"author_name"`
	AuthorInstitution *string   `db:"author_institution" json:"author_institution,omitempty"`
	ViewCount         int64     `db:"view_count" json:"view_count"`
	IsFeatured        bool      `db:"is_featured" json:"is_featured"`
	PublishedAt       time.Time `db:"published_at" json:"published_at"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// ArticleSummary is the list projection without the body.
type ArticleSummary struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Slug        string    `db:"slug" json:"slug"`
	Title       string    `db:"title" json:"title"`
	Summary     string    `db:"summary" json:"summary"`
	Keywords    []string  `db:"keywords" json:"keywords"`
	Category    string    `db:"category" json:"category"`
	AuthorName  string    `db:"author_name" json:"author_name"`
	ViewCount   int64     `db:"view_count" json:"view_count"`
	IsFeatured  bool      `db:"is_featured" json:"is_featured"`
	PublishedAt time.Time `db:"published_at" json:"published_at"`
}

// SummaryColumns is the column list matching ArticleSummary.
const SummaryColumns = "id, slug, title, summary, keywords, category, author_name, view_count, is_featured, published_at"
