// internal/database/user_repository.go
package database

import (
	"context"
	"time"

	"ink-well/internal/models"
	"ink-well/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserDocument represents the MongoDB schema for a user
type UserDocument struct {
	ID             primitive.ObjectID   `bson:"_id"`
	Name           string               `bson:"name"`
	Email          string               `bson:"email"`
	HashedPassword string               `bson:"hashedpassword"`
	IsAdmin        bool                 `bson:"isadmin"`
	ProfileImg     string               `bson:"profileimg"`
	Bio            string               `bson:"bio"`
	BlogPosts      []primitive.ObjectID `bson:"blogposts"`
	CreatedAt      time.Time            `bson:"createdat"`
	UpdatedAt      time.Time            `bson:"updatedat"`
}

func userDocumentToModel(doc *UserDocument) *models.User {
	return &models.User{
		ID:             doc.ID,
		Name:           doc.Name,
		Email:          doc.Email,
		HashedPassword: doc.HashedPassword,
		IsAdmin:        doc.IsAdmin,
		ProfileImg:     doc.ProfileImg,
		Bio:            doc.Bio,
		BlogPosts:      doc.BlogPosts,
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
	}
}

// SaveUser creates or updates a user in MongoDB
func (m *MongoDB) SaveUser(ctx context.Context, user *models.User) error {
	doc := UserDocument{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		HashedPassword: user.HashedPassword,
		IsAdmin:        user.IsAdmin,
		ProfileImg:     user.ProfileImg,
		Bio:            user.Bio,
		BlogPosts:      user.BlogPosts,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": user.ID}
	update := bson.M{"$set": doc}

	_, err := m.Users.UpdateOne(ctx, filter, update, opts)
	return err
}

// GetUser retrieves a user from MongoDB by their ID
func (m *MongoDB) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var doc UserDocument

	err := m.Users.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewUserNotFoundError(id.Hex())
	}
	if err != nil {
		return nil, err
	}

	return userDocumentToModel(&doc), nil
}

// GetUserByEmail retrieves a user from MongoDB by their email address
func (m *MongoDB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var doc UserDocument

	err := m.Users.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewUserNotFoundError(email)
	}
	if err != nil {
		return nil, err
	}

	return userDocumentToModel(&doc), nil
}

// UpdateUserProfile refreshes the mutable profile fields. Empty values are
// left untouched so a partial edit does not wipe the rest of the profile.
func (m *MongoDB) UpdateUserProfile(ctx context.Context, id primitive.ObjectID, name, email, profileImg, bio string) (*models.User, error) {
	set := bson.M{"updatedat": time.Now()}
	if name != "" {
		set["name"] = name
	}
	if email != "" {
		set["email"] = email
	}
	if profileImg != "" {
		set["profileimg"] = profileImg
	}
	if bio != "" {
		set["bio"] = bio
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc UserDocument
	err := m.Users.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewUserNotFoundError(id.Hex())
	}
	if err != nil {
		return nil, err
	}

	return userDocumentToModel(&doc), nil
}

// AddPostToAuthor appends a post id to the author's authored list.
func (m *MongoDB) AddPostToAuthor(ctx context.Context, authorID, postID primitive.ObjectID) error {
	filter := bson.M{"_id": authorID}
	update := bson.M{"$push": bson.M{"blogposts": postID}}

	result, err := m.Users.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return utils.NewUserNotFoundError(authorID.Hex())
	}
	return nil
}

// RemovePostFromAuthor retracts a deleted post's id from the author's
// authored list. A missing author is not an error here: the post is already
// gone and the back-reference has nothing to point at.
func (m *MongoDB) RemovePostFromAuthor(ctx context.Context, authorID, postID primitive.ObjectID) error {
	filter := bson.M{"_id": authorID}
	update := bson.M{"$pull": bson.M{"blogposts": postID}}

	_, err := m.Users.UpdateOne(ctx, filter, update)
	return err
}
