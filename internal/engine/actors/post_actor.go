package actors

import (
	"bytes"
	stdctx "context"
	"log"
	"sort"
	"time"

	"ink-well/internal/database"
	"ink-well/internal/models"
	"ink-well/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message types for Post operations
type (
	CreatePostMsg struct {
		Title       string
		Description string
		Content     string
		Category    string
		Image       string
		AuthorID    primitive.ObjectID
		AuthorName  string
		AuthorImg   string
		Tags        []string
	}

	UpdatePostMsg struct {
		PostID      primitive.ObjectID
		Title       string
		Description string
		Content     string
		Category    string
		Image       string
		Tags        []string
	}

	DeletePostMsg struct {
		PostID primitive.ObjectID
	}

	// GetPostMsg fetches a single post. ClientIP feeds the view
	// deduplicator; an empty value skips view counting entirely.
	GetPostMsg struct {
		PostID   primitive.ObjectID
		ClientIP string
	}

	ListPostsMsg struct {
		Filter database.PostFilter
		Page   database.Pagination
	}

	// PostStats answers GetPostStatsMsg for the dashboard.
	GetPostStatsMsg struct{}

	PostStats struct {
		TotalPosts int64
		TotalViews int64
		NewPosts   int64
	}

	GetCountsMsg struct{}
)

// PostActor handles post CRUD, the paginated listing query, and per-post
// view counting. With a database it delegates to the repositories; without
// one it serves from its in-memory cache, which the actor mailbox already
// serializes, so concurrent fetches cannot double-count a view.
type PostActor struct {
	postsByID map[primitive.ObjectID]*models.Post
	authors   map[primitive.ObjectID]models.AuthorSnapshot
	metrics   *utils.MetricsCollector
	db        *database.MongoDB
}

// NewPostActor creates a new PostActor instance. db may be nil.
func NewPostActor(metrics *utils.MetricsCollector, db *database.MongoDB) actor.Actor {
	return &PostActor{
		postsByID: make(map[primitive.ObjectID]*models.Post),
		authors:   make(map[primitive.ObjectID]models.AuthorSnapshot),
		metrics:   metrics,
		db:        db,
	}
}

// Receive handles incoming messages
func (a *PostActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("PostActor started")
	case *actor.Stopping:
		log.Printf("PostActor stopping")
	case *CreatePostMsg:
		a.handleCreatePost(context, msg)
	case *UpdatePostMsg:
		a.handleUpdatePost(context, msg)
	case *DeletePostMsg:
		a.handleDeletePost(context, msg)
	case *GetPostMsg:
		a.handleGetPost(context, msg)
	case *ListPostsMsg:
		a.handleListPosts(context, msg)
	case *GetPostStatsMsg:
		a.handleGetStats(context)
	case *GetCountsMsg:
		a.handleGetCounts(context)
	default:
		log.Printf("PostActor: Unknown message type: %T", msg)
	}
}

func (a *PostActor) handleCreatePost(context actor.Context, msg *CreatePostMsg) {
	startTime := time.Now()

	now := time.Now()
	newPost := &models.Post{
		ID:          primitive.NewObjectID(),
		Title:       msg.Title,
		Description: msg.Description,
		Content:     msg.Content,
		Category:    msg.Category,
		Image:       msg.Image,
		AuthorID:    msg.AuthorID,
		AuthorImg:   msg.AuthorImg,
		Tags:        msg.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if reason := newPost.Validate(); reason != "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, reason, nil))
		return
	}

	log.Printf("PostActor: Creating new post %s by author %s", newPost.ID.Hex(), msg.AuthorID.Hex())

	if a.db != nil {
		ctx := stdctx.Background()

		if _, err := a.db.GetUser(ctx, msg.AuthorID); err != nil {
			if utils.IsErrorCode(err, utils.ErrUserNotFound) {
				context.Respond(err)
			} else {
				context.Respond(utils.NewDatabaseError("fetch author", err))
			}
			return
		}

		if err := a.db.SavePost(ctx, newPost); err != nil {
			context.Respond(utils.NewDatabaseError("save post", err))
			return
		}

		// Keep the author's authored-list consistent with the new post.
		if err := a.db.AddPostToAuthor(ctx, msg.AuthorID, newPost.ID); err != nil {
			log.Printf("PostActor: Failed to link post %s to author: %v", newPost.ID.Hex(), err)
		}
	} else {
		a.postsByID[newPost.ID] = newPost
		if msg.AuthorName != "" {
			a.authors[msg.AuthorID] = models.AuthorSnapshot{
				Name:       msg.AuthorName,
				ProfileImg: msg.AuthorImg,
				Found:      true,
			}
		}
	}

	a.metrics.AddOperationLatency("create_post", time.Since(startTime))
	context.Respond(newPost)
}

func (a *PostActor) handleUpdatePost(context actor.Context, msg *UpdatePostMsg) {
	startTime := time.Now()

	post, err := a.loadPost(msg.PostID)
	if err != nil {
		context.Respond(err)
		return
	}

	// Edit a copy: the cache path hands out the stored pointer, and a
	// rejected update must leave the stored post untouched.
	updated := *post
	if msg.Title != "" {
		updated.Title = msg.Title
	}
	if msg.Description != "" {
		updated.Description = msg.Description
	}
	if msg.Content != "" {
		updated.Content = msg.Content
	}
	if msg.Category != "" {
		updated.Category = msg.Category
	}
	if msg.Image != "" {
		updated.Image = msg.Image
	}
	if msg.Tags != nil {
		updated.Tags = msg.Tags
	}
	updated.UpdatedAt = time.Now()

	if reason := updated.Validate(); reason != "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, reason, nil))
		return
	}

	if a.db != nil {
		if err := a.db.SavePost(stdctx.Background(), &updated); err != nil {
			context.Respond(utils.NewDatabaseError("save post", err))
			return
		}
	} else {
		a.postsByID[updated.ID] = &updated
	}

	a.metrics.AddOperationLatency("update_post", time.Since(startTime))
	context.Respond(&updated)
}

func (a *PostActor) handleDeletePost(context actor.Context, msg *DeletePostMsg) {
	startTime := time.Now()

	if a.db != nil {
		ctx := stdctx.Background()

		deleted, err := a.db.DeletePost(ctx, msg.PostID)
		if err != nil {
			context.Respond(err)
			return
		}

		// Retract the id from the author's authored-list and drop the
		// post's comments; neither failure resurrects the post.
		if err := a.db.RemovePostFromAuthor(ctx, deleted.AuthorID, deleted.ID); err != nil {
			log.Printf("PostActor: Failed to unlink post %s from author: %v", deleted.ID.Hex(), err)
		}
		if err := a.db.DeletePostComments(ctx, deleted.ID); err != nil {
			log.Printf("PostActor: Failed to delete comments of post %s: %v", deleted.ID.Hex(), err)
		}

		a.metrics.AddOperationLatency("delete_post", time.Since(startTime))
		context.Respond(deleted)
		return
	}

	post, exists := a.postsByID[msg.PostID]
	if !exists {
		context.Respond(utils.NewPostNotFoundError(msg.PostID.Hex()))
		return
	}
	delete(a.postsByID, msg.PostID)

	a.metrics.AddOperationLatency("delete_post", time.Since(startTime))
	context.Respond(post)
}

func (a *PostActor) handleGetPost(context actor.Context, msg *GetPostMsg) {
	startTime := time.Now()
	now := time.Now()

	if a.db == nil {
		post, exists := a.postsByID[msg.PostID]
		if !exists {
			context.Respond(utils.NewPostNotFoundError(msg.PostID.Hex()))
			return
		}

		if msg.ClientIP != "" && post.ShouldCountView(msg.ClientIP, now) {
			post.RecordView(msg.ClientIP, now)
		}

		a.metrics.AddOperationLatency("get_post", time.Since(startTime))
		context.Respond(&models.PostWithAuthor{Post: post, Author: a.cachedAuthor(post.AuthorID)})
		return
	}

	ctx := stdctx.Background()

	post, err := a.db.GetPost(ctx, msg.PostID)
	if err != nil {
		if _, ok := err.(*utils.AppError); ok {
			context.Respond(err)
		} else {
			context.Respond(utils.NewDatabaseError("fetch post", err))
		}
		return
	}

	// View counting is a best-effort side effect: a failed update is logged
	// and the read still succeeds.
	if msg.ClientIP != "" && post.ShouldCountView(msg.ClientIP, now) {
		counted, err := a.db.RegisterPostView(ctx, post.ID, msg.ClientIP, now)
		if err != nil {
			log.Printf("PostActor: View update failed for post %s: %v", post.ID.Hex(), err)
		} else if counted {
			post.RecordView(msg.ClientIP, now)
		}
	}

	author, err := a.db.GetAuthorSnapshot(ctx, post.AuthorID)
	if err != nil {
		log.Printf("PostActor: Author lookup failed for post %s: %v", post.ID.Hex(), err)
		author = models.UnknownAuthor()
	}

	a.metrics.AddOperationLatency("get_post", time.Since(startTime))
	context.Respond(&models.PostWithAuthor{Post: post, Author: author})
}

func (a *PostActor) handleListPosts(context actor.Context, msg *ListPostsMsg) {
	startTime := time.Now()
	p := msg.Page.Normalize()

	if a.db != nil {
		page, err := a.db.ListPosts(stdctx.Background(), msg.Filter, p)
		if err != nil {
			context.Respond(utils.NewDatabaseError("list posts", err))
			return
		}
		a.metrics.AddOperationLatency("list_posts", time.Since(startTime))
		context.Respond(page)
		return
	}

	matched := make([]*models.Post, 0, len(a.postsByID))
	for _, post := range a.postsByID {
		if msg.Filter.Matches(post) {
			matched = append(matched, post)
		}
	}

	// Newest first; object id ascending as the stable secondary key.
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return bytes.Compare(matched[i].ID[:], matched[j].ID[:]) < 0
	})

	total := int64(len(matched))
	var docs []*models.PostWithAuthor
	if p.InRange(total) {
		end := p.Offset() + int64(p.Limit)
		if end > total {
			end = total
		}
		for _, post := range matched[p.Offset():end] {
			docs = append(docs, &models.PostWithAuthor{Post: post, Author: a.cachedAuthor(post.AuthorID)})
		}
	}

	a.metrics.AddOperationLatency("list_posts", time.Since(startTime))
	context.Respond(database.NewPostPage(docs, total, p))
}

func (a *PostActor) handleGetStats(context actor.Context) {
	if a.db != nil {
		stats, err := a.db.GetDashboardStats(stdctx.Background())
		if err != nil {
			context.Respond(utils.NewDatabaseError("dashboard stats", err))
			return
		}
		context.Respond(&PostStats{
			TotalPosts: stats.TotalPosts,
			TotalViews: stats.TotalViews,
			NewPosts:   stats.NewPosts,
		})
		return
	}

	stats := &PostStats{TotalPosts: int64(len(a.postsByID))}
	thirtyDaysAgo := time.Now().Add(-30 * 24 * time.Hour)
	for _, post := range a.postsByID {
		stats.TotalViews += post.Views
		if post.CreatedAt.After(thirtyDaysAgo) {
			stats.NewPosts++
		}
	}
	context.Respond(stats)
}

func (a *PostActor) handleGetCounts(context actor.Context) {
	if a.db != nil {
		count, err := a.db.Posts.EstimatedDocumentCount(stdctx.Background())
		if err != nil {
			log.Printf("PostActor: Count failed: %v", err)
			count = 0
		}
		context.Respond(int(count))
		return
	}
	context.Respond(len(a.postsByID))
}

// loadPost fetches a post for mutation from whichever side holds it.
func (a *PostActor) loadPost(id primitive.ObjectID) (*models.Post, error) {
	if a.db != nil {
		post, err := a.db.GetPost(stdctx.Background(), id)
		if err != nil {
			if _, ok := err.(*utils.AppError); ok {
				return nil, err
			}
			return nil, utils.NewDatabaseError("fetch post", err)
		}
		return post, nil
	}

	post, exists := a.postsByID[id]
	if !exists {
		return nil, utils.NewPostNotFoundError(id.Hex())
	}
	return post, nil
}

func (a *PostActor) cachedAuthor(authorID primitive.ObjectID) models.AuthorSnapshot {
	if snapshot, ok := a.authors[authorID]; ok {
		return snapshot
	}
	return models.UnknownAuthor()
}
