package database

import (
	"testing"

	"ink-well/internal/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPostFilterSelector(t *testing.T) {
	assert.Equal(t, bson.M{}, PostFilter{}.Selector())

	sel := PostFilter{Search: "go 1.23"}.Selector()
	regex, ok := sel["title"].(primitive.Regex)
	assert.True(t, ok)
	assert.Equal(t, `go 1\.23`, regex.Pattern)
	assert.Equal(t, "i", regex.Options)

	sel = PostFilter{Category: models.CategoryStartup}.Selector()
	assert.Equal(t, models.CategoryStartup, sel["category"])

	// "All" is the no-filter sentinel.
	assert.Equal(t, bson.M{}, PostFilter{Category: models.CategoryAll}.Selector())
}

func TestPostFilterMatches(t *testing.T) {
	post := &models.Post{Title: "Scaling Postgres", Category: models.CategoryTechnology}

	assert.True(t, PostFilter{}.Matches(post))
	assert.True(t, PostFilter{Search: "postgres"}.Matches(post))
	assert.True(t, PostFilter{Search: "SCALING"}.Matches(post))
	assert.False(t, PostFilter{Search: "kubernetes"}.Matches(post))

	assert.True(t, PostFilter{Category: models.CategoryTechnology}.Matches(post))
	assert.True(t, PostFilter{Category: models.CategoryAll}.Matches(post))
	assert.False(t, PostFilter{Category: models.CategoryLifestyle}.Matches(post))

	assert.False(t, PostFilter{Search: "postgres", Category: models.CategoryStartup}.Matches(post))
}

func TestPaginationNormalize(t *testing.T) {
	p := Pagination{Page: 3}.Normalize()
	assert.Equal(t, DefaultPageSize, p.Limit)
	assert.Equal(t, 3, p.Page)

	p = Pagination{Page: 1, Limit: 500}.Normalize()
	assert.Equal(t, MaxPageSize, p.Limit)

	// Explicit page values below 1 are preserved, not clamped.
	p = Pagination{Page: 0, Limit: 5}.Normalize()
	assert.Equal(t, 0, p.Page)
	assert.Equal(t, 5, p.Limit)
}

func TestPaginationInRangeAndOffset(t *testing.T) {
	p := Pagination{Page: 1, Limit: 10}
	assert.True(t, p.InRange(1))
	assert.False(t, p.InRange(0))
	assert.Equal(t, int64(0), p.Offset())

	p = Pagination{Page: 3, Limit: 2}
	assert.True(t, p.InRange(5))
	assert.False(t, p.InRange(4))
	assert.Equal(t, int64(4), p.Offset())

	assert.False(t, Pagination{Page: 0, Limit: 10}.InRange(100))
	assert.False(t, Pagination{Page: -1, Limit: 10}.InRange(100))
}

func TestNewPostPageMetadata(t *testing.T) {
	docs := []*models.PostWithAuthor{{Post: &models.Post{Title: "a"}}, {Post: &models.Post{Title: "b"}}}

	// 5 posts at 2 per page -> 3 pages.
	page := NewPostPage(docs, 5, Pagination{Page: 2, Limit: 2})
	assert.Equal(t, int64(5), page.TotalDocs)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 2, page.Page)
	assert.True(t, page.HasPrevPage)
	assert.True(t, page.HasNextPage)
	assert.Equal(t, 1, *page.PrevPage)
	assert.Equal(t, 3, *page.NextPage)

	page = NewPostPage(docs, 5, Pagination{Page: 1, Limit: 2})
	assert.False(t, page.HasPrevPage)
	assert.Nil(t, page.PrevPage)
	assert.True(t, page.HasNextPage)

	page = NewPostPage(nil, 5, Pagination{Page: 3, Limit: 2})
	assert.NotNil(t, page.Docs)
	assert.Empty(t, page.Docs)
	assert.True(t, page.HasPrevPage)
	assert.False(t, page.HasNextPage)
	assert.Nil(t, page.NextPage)

	// Past the last page the prev link still points back, matching
	// mongoose-paginate-v2.
	page = NewPostPage(nil, 5, Pagination{Page: 9, Limit: 2})
	assert.True(t, page.HasPrevPage)
	assert.Equal(t, 8, *page.PrevPage)
	assert.False(t, page.HasNextPage)
	assert.Nil(t, page.NextPage)
}

func TestNewPostPageEmptyResult(t *testing.T) {
	page := NewPostPage(nil, 0, Pagination{Page: 1, Limit: 10})
	assert.Equal(t, int64(0), page.TotalDocs)
	assert.Equal(t, 0, page.TotalPages)
	assert.False(t, page.HasPrevPage)
	assert.False(t, page.HasNextPage)
}
