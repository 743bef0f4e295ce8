// internal/database/post_query.go
package database

import (
	"regexp"
	"strings"

	"ink-well/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PostFilter translates the optional list-query parameters into a predicate.
// Zero value matches every post. Unknown categories are passed through
// verbatim and simply match nothing.
type PostFilter struct {
	Search   string
	Category string
}

// Selector builds the MongoDB predicate for this filter. The search term is
// regex-quoted so it behaves as a plain case-insensitive substring match.
func (f PostFilter) Selector() bson.M {
	sel := bson.M{}
	if f.Search != "" {
		sel["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
	}
	if f.Category != "" && f.Category != models.CategoryAll {
		sel["category"] = f.Category
	}
	return sel
}

// Matches applies the same predicate to an in-memory post. The actors serve
// from their cache with this when they run without a store.
func (f PostFilter) Matches(post *models.Post) bool {
	if f.Search != "" {
		if !strings.Contains(strings.ToLower(post.Title), strings.ToLower(f.Search)) {
			return false
		}
	}
	if f.Category != "" && f.Category != models.CategoryAll {
		if post.Category != f.Category {
			return false
		}
	}
	return true
}

// Pagination is the validated page request. Page stays as the caller sent it;
// an out-of-range page yields an empty slice with totals intact, never an
// error, so navigation controls can clamp.
type Pagination struct {
	Page  int
	Limit int
}

// Normalize applies the page-size default and cap. The page number is left
// as-is: a missing page defaults to 1 at the HTTP boundary, while explicit
// values below 1 are preserved for the empty-result path.
func (p Pagination) Normalize() Pagination {
	if p.Limit < 1 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	return p
}

// PostPage is a single page of matching posts plus navigation metadata,
// shaped like the listing response the frontend already consumes.
type PostPage struct {
	Docs        []*models.PostWithAuthor `json:"docs"`
	TotalDocs   int64                    `json:"totalDocs"`
	Limit       int                      `json:"limit"`
	Page        int                      `json:"page"`
	TotalPages  int                      `json:"totalPages"`
	HasPrevPage bool                     `json:"hasPrevPage"`
	HasNextPage bool                     `json:"hasNextPage"`
	PrevPage    *int                     `json:"prevPage"`
	NextPage    *int                     `json:"nextPage"`
}

// NewPostPage assembles page metadata: totalPages = ceil(totalDocs / limit).
func NewPostPage(docs []*models.PostWithAuthor, totalDocs int64, p Pagination) *PostPage {
	if docs == nil {
		docs = []*models.PostWithAuthor{}
	}
	totalPages := int((totalDocs + int64(p.Limit) - 1) / int64(p.Limit))

	page := &PostPage{
		Docs:       docs,
		TotalDocs:  totalDocs,
		Limit:      p.Limit,
		Page:       p.Page,
		TotalPages: totalPages,
	}
	// Any page past the first reports a previous page, even past the end.
	if p.Page > 1 {
		prev := p.Page - 1
		page.HasPrevPage = true
		page.PrevPage = &prev
	}
	if p.Page >= 1 && p.Page < totalPages {
		next := p.Page + 1
		page.HasNextPage = true
		page.NextPage = &next
	}
	return page
}

// InRange reports whether the requested page addresses any rows given the
// total match count.
func (p Pagination) InRange(totalDocs int64) bool {
	if p.Page < 1 {
		return false
	}
	return int64(p.Page-1)*int64(p.Limit) < totalDocs
}

// Offset is the number of matching rows to skip for this page.
func (p Pagination) Offset() int64 {
	return int64(p.Page-1) * int64(p.Limit)
}
