// internal/database/post_repository.go
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

// ViewRecordDocument is one ledger entry as stored on the post document.
type ViewRecordDocument struct {
	IP           string    `bson:"ip"`
	LastViewedAt time.Time `bson:"lastviewedat"`
}

// PostDocument represents the MongoDB schema for a post.
type PostDocument struct {
	ID          primitive.ObjectID   `bson:"_id"`
	Title       string               `bson:"title"`
	Description string               `bson:"description"`
	Content     string               `bson:"content"`
	Category    string               `bson:"category"`
	Image       string               `bson:"image"`
	AuthorID    primitive.ObjectID   `bson:"authorid"`
	AuthorImg   string               `bson:"authorimg"`
	Tags        []string             `bson:"tags"`
	Views       int64                `bson:"views"`
	ViewedBy    []ViewRecordDocument `bson:"viewedby"`
	CommentIDs  []primitive.ObjectID `bson:"comments"`
	CreatedAt   time.Time            `bson:"createdat"`
	UpdatedAt   time.Time            `bson:"updatedat"`
}

// PostModelToDocument converts a Post model to a MongoDB document.
func PostModelToDocument(post *models.Post) *PostDocument {
	viewedBy := make([]ViewRecordDocument, len(post.ViewedBy))
	for i, v := range post.ViewedBy {
		viewedBy[i] = ViewRecordDocument{IP: v.IP, LastViewedAt: v.LastViewedAt}
	}

	return &PostDocument{
		ID:          post.ID,
		Title:       post.Title,
		Description: post.Description,
		Content:     post.Content,
		Category:    post.Category,
		Image:       post.Image,
		AuthorID:    post.AuthorID,
		AuthorImg:   post.AuthorImg,
		Tags:        post.Tags,
		Views:       post.Views,
		ViewedBy:    viewedBy,
		CommentIDs:  post.CommentIDs,
		CreatedAt:   post.CreatedAt,
		UpdatedAt:   post.UpdatedAt,
	}
}

// PostDocumentToModel converts a MongoDB document to a Post model.
func PostDocumentToModel(doc *PostDocument) *models.Post {
	viewedBy := make([]models.ViewRecord, len(doc.ViewedBy))
	for i, v := range doc.ViewedBy {
		viewedBy[i] = models.ViewRecord{IP: v.IP, LastViewedAt: v.LastViewedAt}
	}

	return &models.Post{
		ID:          doc.ID,
		Title:       doc.Title,
		Description: doc.Description,
		Content:     doc.Content,
		Category:    doc.Category,
		Image:       doc.Image,
		AuthorID:    doc.AuthorID,
		AuthorImg:   doc.AuthorImg,
		Tags:        doc.Tags,
		Views:       doc.Views,
		ViewedBy:    viewedBy,
		CommentIDs:  doc.CommentIDs,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
}

// SavePost creates or updates a post in MongoDB.
func (m *MongoDB) SavePost(ctx context.Context, post *models.Post) error {
	doc := PostModelToDocument(post)

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": post.ID}
	update := bson.M{"$set": doc}

	_, err := m.Posts.UpdateOne(ctx, filter, update, opts)
	return err
}

// GetPost retrieves a post by its ID.
func (m *MongoDB) GetPost(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var doc PostDocument

	err := m.Posts.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewPostNotFoundError(id.Hex())
	}
	if err != nil {
		return nil, err
	}

	return PostDocumentToModel(&doc), nil
}

// DeletePost removes a post and returns the deleted document, so the caller
// can retract the id from its author's authored list.
func (m *MongoDB) DeletePost(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var doc PostDocument

	err := m.Posts.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewPostNotFoundError(id.Hex())
	}
	if err != nil {
		return nil, err
	}

	return PostDocumentToModel(&doc), nil
}

// ListPosts returns one page of posts matching the filter, newest first with
// the object id as the stable tiebreaker, each joined with its author
// snapshot at read time.
func (m *MongoDB) ListPosts(ctx context.Context, filter PostFilter, p Pagination) (*PostPage, error) {
	selector := filter.Selector()

	total, err := m.Posts.CountDocuments(ctx, selector)
	if err != nil {
		return nil, fmt.Errorf("failed to count posts: %v", err)
	}

	// Out-of-range pages still report totals so navigation can clamp.
	if !p.InRange(total) {
		return NewPostPage(nil, total, p), nil
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdat", Value: -1}, {Key: "_id", Value: 1}}).
		SetSkip(p.Offset()).
		SetLimit(int64(p.Limit))

	cursor, err := m.Posts.Find(ctx, selector, opts)
	if err != nil {
		return nil, fmt.Errorf("database query failed: %v", err)
	}
	defer cursor.Close(ctx)

	var posts []*models.Post
	for cursor.Next(ctx) {
		var doc PostDocument
		if err := cursor.Decode(&doc); err != nil {
			log.Printf("Error decoding post document: %v", err)
			continue
		}
		posts = append(posts, PostDocumentToModel(&doc))
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor iteration failed: %v", err)
	}

	docs, err := m.attachAuthors(ctx, posts)
	if err != nil {
		return nil, err
	}

	return NewPostPage(docs, total, p), nil
}

// attachAuthors resolves the denormalized author snapshot for each post. A
// dangling author reference gets the placeholder snapshot instead of failing
// the whole page.
func (m *MongoDB) attachAuthors(ctx context.Context, posts []*models.Post) ([]*models.PostWithAuthor, error) {
	authorIDs := make([]primitive.ObjectID, 0, len(posts))
	seen := make(map[primitive.ObjectID]bool, len(posts))
	for _, post := range posts {
		if !seen[post.AuthorID] {
			seen[post.AuthorID] = true
			authorIDs = append(authorIDs, post.AuthorID)
		}
	}

	snapshots := make(map[primitive.ObjectID]models.AuthorSnapshot, len(authorIDs))
	if len(authorIDs) > 0 {
		opts := options.Find().SetProjection(bson.M{"name": 1, "profileimg": 1})
		cursor, err := m.Users.Find(ctx, bson.M{"_id": bson.M{"$in": authorIDs}}, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve post authors: %v", err)
		}
		defer cursor.Close(ctx)

		for cursor.Next(ctx) {
			var author struct {
				ID         primitive.ObjectID `bson:"_id"`
				Name       string             `bson:"name"`
				ProfileImg string             `bson:"profileimg"`
			}
			if err := cursor.Decode(&author); err != nil {
				log.Printf("Error decoding author projection: %v", err)
				continue
			}
			snapshots[author.ID] = models.AuthorSnapshot{
				Name:       author.Name,
				ProfileImg: author.ProfileImg,
				Found:      true,
			}
		}
		if err := cursor.Err(); err != nil {
			return nil, fmt.Errorf("author cursor iteration failed: %v", err)
		}
	}

	docs := make([]*models.PostWithAuthor, len(posts))
	for i, post := range posts {
		snapshot, ok := snapshots[post.AuthorID]
		if !ok {
			snapshot = models.UnknownAuthor()
		}
		docs[i] = &models.PostWithAuthor{Post: post, Author: snapshot}
	}
	return docs, nil
}

// GetAuthorSnapshot resolves the author projection for a single post read.
func (m *MongoDB) GetAuthorSnapshot(ctx context.Context, authorID primitive.ObjectID) (models.AuthorSnapshot, error) {
	var author struct {
		Name       string `bson:"name"`
		ProfileImg string `bson:"profileimg"`
	}

	opts := options.FindOne().SetProjection(bson.M{"name": 1, "profileimg": 1})
	err := m.Users.FindOne(ctx, bson.M{"_id": authorID}, opts).Decode(&author)
	if err == mongo.ErrNoDocuments {
		return models.UnknownAuthor(), nil
	}
	if err != nil {
		return models.UnknownAuthor(), err
	}

	return models.AuthorSnapshot{Name: author.Name, ProfileImg: author.ProfileImg, Found: true}, nil
}

// RegisterPostView applies the counted-view write as one conditional update:
// the filter excludes posts whose ledger already holds this IP, and the
// update increments the counter and appends the ledger entry together. Under
// concurrent fetches from the same new IP, at most one update matches.
// Returns whether a view was counted.
func (m *MongoDB) RegisterPostView(ctx context.Context, postID primitive.ObjectID, ip string, now time.Time) (bool, error) {
	filter := bson.M{
		"_id":         postID,
		"viewedby.ip": bson.M{"$ne": ip},
	}
	update := bson.M{
		"$inc":  bson.M{"views": 1},
		"$push": bson.M{"viewedby": ViewRecordDocument{IP: ip, LastViewedAt: now}},
	}

	result, err := m.Posts.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount > 0, nil
}

// AppendPostComment links a comment id onto its post.
func (m *MongoDB) AppendPostComment(ctx context.Context, postID, commentID primitive.ObjectID) error {
	filter := bson.M{"_id": postID}
	update := bson.M{"$push": bson.M{"comments": commentID}}

	result, err := m.Posts.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return utils.NewPostNotFoundError(postID.Hex())
	}
	return nil
}
