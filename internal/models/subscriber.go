package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Subscriber is a mailing-list entry. Created on subscribe, deleted on admin
// action, never updated. Token backs the one-click unsubscribe link.
type Subscriber struct {
	ID           primitive.ObjectID `json:"id"`
	Email        string             `json:"email"`
	Token        string             `json:"-"`
	SubscribedAt time.Time          `json:"date"`
}
