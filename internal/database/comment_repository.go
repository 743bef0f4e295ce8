// internal/database/comment_repository.go
package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"ink-well/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CommentDocument represents the MongoDB schema for a comment.
type CommentDocument struct {
	ID         primitive.ObjectID `bson:"_id"`
	Content    string             `bson:"content"`
	AuthorID   primitive.ObjectID `bson:"authorid"`
	AuthorName string             `bson:"authorname"`
	PostID     primitive.ObjectID `bson:"postid"`
	CreatedAt  time.Time          `bson:"createdat"`
	UpdatedAt  time.Time          `bson:"updatedat"`
}

func commentDocumentToModel(doc *CommentDocument) *models.Comment {
	return &models.Comment{
		ID:         doc.ID,
		Content:    doc.Content,
		AuthorID:   doc.AuthorID,
		AuthorName: doc.AuthorName,
		PostID:     doc.PostID,
		CreatedAt:  doc.CreatedAt,
		UpdatedAt:  doc.UpdatedAt,
	}
}

// SaveComment inserts or updates a comment.
func (m *MongoDB) SaveComment(ctx context.Context, comment *models.Comment) error {
	doc := CommentDocument{
		ID:         comment.ID,
		Content:    comment.Content,
		AuthorID:   comment.AuthorID,
		AuthorName: comment.AuthorName,
		PostID:     comment.PostID,
		CreatedAt:  comment.CreatedAt,
		UpdatedAt:  comment.UpdatedAt,
	}

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": comment.ID}
	update := bson.M{"$set": doc}

	_, err := m.Comments.UpdateOne(ctx, filter, update, opts)
	return err
}

// GetPostComments retrieves all comments for a post, oldest first.
func (m *MongoDB) GetPostComments(ctx context.Context, postID primitive.ObjectID) ([]*models.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdat", Value: 1}})

	cursor, err := m.Comments.Find(ctx, bson.M{"postid": postID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch comments: %v", err)
	}
	defer cursor.Close(ctx)

	var comments []*models.Comment
	for cursor.Next(ctx) {
		var doc CommentDocument
		if err := cursor.Decode(&doc); err != nil {
			log.Printf("Error decoding comment document: %v", err)
			continue
		}
		comments = append(comments, commentDocumentToModel(&doc))
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor iteration failed: %v", err)
	}

	return comments, nil
}

// DeletePostComments removes every comment attached to a deleted post.
func (m *MongoDB) DeletePostComments(ctx context.Context, postID primitive.ObjectID) error {
	_, err := m.Comments.DeleteMany(ctx, bson.M{"postid": postID})
	return err
}
