package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is a reader comment on a post.
type Comment struct {
	ID         primitive.ObjectID `json:"id"`
	Content    string             `json:"content"`
	AuthorID   primitive.ObjectID `json:"author"`
	AuthorName string             `json:"authorName"`
	PostID     primitive.ObjectID `json:"blog"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}
