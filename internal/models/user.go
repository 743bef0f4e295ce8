package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an author account. BlogPosts is the list of authored post IDs; the
// service keeps it consistent when posts are created or deleted.
type User struct {
	ID             primitive.ObjectID   `json:"id"`
	Name           string               `json:"name"`
	Email          string               `json:"email"`
	HashedPassword string               `json:"-"`
	IsAdmin        bool                 `json:"isAdmin"`
	ProfileImg     string               `json:"profileImg"`
	Bio            string               `json:"bio"`
	BlogPosts      []primitive.ObjectID `json:"blogPosts"`
	CreatedAt      time.Time            `json:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt"`
}

// Snapshot returns the denormalized author projection for this user.
func (u *User) Snapshot() AuthorSnapshot {
	return AuthorSnapshot{Name: u.Name, ProfileImg: u.ProfileImg, Found: true}
}
