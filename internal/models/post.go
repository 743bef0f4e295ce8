package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// MaxTitleLen bounds post titles, MaxDescriptionLen bounds summaries.
	MaxTitleLen       = 100
	MaxDescriptionLen = 200

	// ViewDedupWindowHours is the interval within which repeat views from
	// the same IP never increment the counter.
	ViewDedupWindowHours = 24

	// firstViewHours is the elapsed-hours default for an IP with no ledger
	// entry, so a first-time visitor always clears the window.
	firstViewHours = 25
)

// Post categories. The filter accepts unknown values verbatim (they simply
// match nothing), CategoryAll is the sentinel for "no category filter".
const (
	CategoryStartup    = "Startup"
	CategoryTechnology = "Technology"
	CategoryLifestyle  = "Lifestyle"
	CategoryAll        = "All"
)

// ViewRecord is one ledger entry: a client IP and when it last viewed the post.
type ViewRecord struct {
	IP           string    `json:"ip"`
	LastViewedAt time.Time `json:"lastViewedAt"`
}

// Post is a published blog entry. Views and ViewedBy move together: Views
// equals the number of counted view events, which never exceeds the number
// of distinct IPs in the ledger.
type Post struct {
	ID          primitive.ObjectID   `json:"_id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Content     string               `json:"content"`
	Category    string               `json:"category"`
	Image       string               `json:"image"` // cover image as a data URI
	AuthorID    primitive.ObjectID   `json:"author"`
	AuthorImg   string               `json:"authorImg"`
	Tags        []string             `json:"tags"`
	Views       int64                `json:"views"`
	ViewedBy    []ViewRecord         `json:"-"`
	CommentIDs  []primitive.ObjectID `json:"comments"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// AuthorSnapshot is the denormalized author projection attached to a post at
// read time. Found reports whether the author reference resolved; when it did
// not, Name and ProfileImg hold deterministic placeholders.
type AuthorSnapshot struct {
	Name       string `json:"name"`
	ProfileImg string `json:"profileImg"`
	Found      bool   `json:"-"`
}

// UnknownAuthor is the placeholder snapshot for a dangling author reference.
func UnknownAuthor() AuthorSnapshot {
	return AuthorSnapshot{Name: "Unknown", ProfileImg: "", Found: false}
}

// PostWithAuthor joins a post with its author snapshot for responses.
type PostWithAuthor struct {
	*Post
	Author AuthorSnapshot `json:"authorInfo"`
}

// ValidCategory reports whether c is one of the publishable categories.
func ValidCategory(c string) bool {
	switch c {
	case CategoryStartup, CategoryTechnology, CategoryLifestyle:
		return true
	}
	return false
}

// Validate checks the field constraints for a post about to be stored.
func (p *Post) Validate() string {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return "title is required"
	}
	if len(title) > MaxTitleLen {
		return "title exceeds 100 characters"
	}
	desc := strings.TrimSpace(p.Description)
	if desc == "" {
		return "description is required"
	}
	if len(desc) > MaxDescriptionLen {
		return "description exceeds 200 characters"
	}
	if strings.TrimSpace(p.Content) == "" {
		return "content is required"
	}
	if !ValidCategory(p.Category) {
		return "unknown category: " + p.Category
	}
	return ""
}

// ShouldCountView decides whether a fetch from ip counts as a new view.
// The ledger is scanned linearly; it holds one entry per distinct historical
// visitor, so it stays small. An IP with no entry gets the 25-hour default,
// so the conjunction below fires only for genuinely first-time IPs: a
// returning visitor is never re-counted, even after its window has aged out.
func (p *Post) ShouldCountView(ip string, now time.Time) bool {
	seen := false
	hours := float64(firstViewHours)
	for i := range p.ViewedBy {
		if p.ViewedBy[i].IP == ip {
			seen = true
			hours = now.Sub(p.ViewedBy[i].LastViewedAt).Hours()
			break
		}
	}
	return !seen && hours > ViewDedupWindowHours
}

// RecordView applies a counted view in place: bumps the counter and appends
// the ledger entry. Callers must have cleared ShouldCountView first.
func (p *Post) RecordView(ip string, now time.Time) {
	p.Views++
	p.ViewedBy = append(p.ViewedBy, ViewRecord{IP: ip, LastViewedAt: now})
}
