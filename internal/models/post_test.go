package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func validPost() *Post {
	return &Post{
		ID:          primitive.NewObjectID(),
		Title:       "A launch retrospective",
		Description: "What we learned shipping v1",
		Content:     "Long form content goes here.",
		Category:    CategoryStartup,
	}
}

func TestPostValidate(t *testing.T) {
	assert.Equal(t, "", validPost().Validate())

	p := validPost()
	p.Title = "   "
	assert.Equal(t, "title is required", p.Validate())

	p = validPost()
	p.Title = strings.Repeat("x", MaxTitleLen+1)
	assert.Equal(t, "title exceeds 100 characters", p.Validate())

	p = validPost()
	p.Description = ""
	assert.Equal(t, "description is required", p.Validate())

	p = validPost()
	p.Description = strings.Repeat("y", MaxDescriptionLen+1)
	assert.Equal(t, "description exceeds 200 characters", p.Validate())

	p = validPost()
	p.Content = ""
	assert.Equal(t, "content is required", p.Validate())

	p = validPost()
	p.Category = "Gardening"
	assert.Equal(t, "unknown category: Gardening", p.Validate())
}

func TestValidCategory(t *testing.T) {
	assert.True(t, ValidCategory(CategoryStartup))
	assert.True(t, ValidCategory(CategoryTechnology))
	assert.True(t, ValidCategory(CategoryLifestyle))
	assert.False(t, ValidCategory(CategoryAll))
	assert.False(t, ValidCategory(""))
}

func TestShouldCountViewFirstTimeIP(t *testing.T) {
	p := validPost()
	now := time.Now()

	assert.True(t, p.ShouldCountView("203.0.113.7", now))

	p.RecordView("203.0.113.7", now)
	assert.Equal(t, int64(1), p.Views)
	assert.Len(t, p.ViewedBy, 1)
}

func TestShouldCountViewRecentRepeatSuppressed(t *testing.T) {
	p := validPost()
	now := time.Now()
	p.RecordView("203.0.113.7", now.Add(-1*time.Hour))

	assert.False(t, p.ShouldCountView("203.0.113.7", now))
}

func TestShouldCountViewOldEntryStaysSuppressed(t *testing.T) {
	// An IP already in the ledger is never re-counted, no matter how long
	// ago its last view was.
	p := validPost()
	now := time.Now()
	p.RecordView("203.0.113.7", now.Add(-30*time.Hour))

	assert.False(t, p.ShouldCountView("203.0.113.7", now))
}

func TestShouldCountViewDistinctIPs(t *testing.T) {
	p := validPost()
	now := time.Now()
	p.RecordView("203.0.113.7", now)

	assert.True(t, p.ShouldCountView("198.51.100.2", now))
	p.RecordView("198.51.100.2", now)
	assert.Equal(t, int64(2), p.Views)
}

func TestUnknownAuthor(t *testing.T) {
	snap := UnknownAuthor()
	assert.Equal(t, "Unknown", snap.Name)
	assert.Equal(t, "", snap.ProfileImg)
	assert.False(t, snap.Found)
}
