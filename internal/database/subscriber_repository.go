// internal/database/subscriber_repository.go
package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"ink-well/internal/models"
	"ink-well/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SubscriberDocument represents the MongoDB schema for a mailing-list entry.
type SubscriberDocument struct {
	ID           primitive.ObjectID `bson:"_id"`
	Email        string             `bson:"email"`
	Token        string             `bson:"token"`
	SubscribedAt time.Time          `bson:"subscribedat"`
}

func subscriberDocumentToModel(doc *SubscriberDocument) *models.Subscriber {
	return &models.Subscriber{
		ID:           doc.ID,
		Email:        doc.Email,
		Token:        doc.Token,
		SubscribedAt: doc.SubscribedAt,
	}
}

// CreateSubscriber inserts a new subscriber. Duplicate emails surface as a
// conflict; the collection carries a unique index on email.
func (m *MongoDB) CreateSubscriber(ctx context.Context, sub *models.Subscriber) error {
	doc := SubscriberDocument{
		ID:           sub.ID,
		Email:        sub.Email,
		Token:        sub.Token,
		SubscribedAt: sub.SubscribedAt,
	}

	_, err := m.Subscribers.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return utils.NewAppError(utils.ErrSubscriberExists, "Email already subscribed: "+sub.Email, err)
	}
	return err
}

// ListSubscribers returns every subscriber, newest first.
func (m *MongoDB) ListSubscribers(ctx context.Context) ([]*models.Subscriber, error) {
	opts := options.Find().SetSort(bson.D{{Key: "subscribedat", Value: -1}})

	cursor, err := m.Subscribers.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %v", err)
	}
	defer cursor.Close(ctx)

	var subscribers []*models.Subscriber
	for cursor.Next(ctx) {
		var doc SubscriberDocument
		if err := cursor.Decode(&doc); err != nil {
			log.Printf("Error decoding subscriber document: %v", err)
			continue
		}
		subscribers = append(subscribers, subscriberDocumentToModel(&doc))
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor iteration failed: %v", err)
	}

	return subscribers, nil
}

// DeleteSubscriber removes a subscriber by id.
func (m *MongoDB) DeleteSubscriber(ctx context.Context, id primitive.ObjectID) error {
	result, err := m.Subscribers.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return utils.NewAppError(utils.ErrSubscriberNotFound, "Subscriber not found: "+id.Hex(), nil)
	}
	return nil
}

// DeleteSubscriberByToken serves the one-click unsubscribe link.
func (m *MongoDB) DeleteSubscriberByToken(ctx context.Context, token string) error {
	result, err := m.Subscribers.DeleteOne(ctx, bson.M{"token": token})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return utils.NewAppError(utils.ErrSubscriberNotFound, "No subscriber for token", nil)
	}
	return nil
}
