package actors

import (
	stdctx "context"
	"log"
	"strings"
	"time"

	"ink-well/internal/database"
	"ink-well/internal/models"
	"ink-well/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message types for Comment operations
type (
	CreateCommentMsg struct {
		Content  string
		AuthorID primitive.ObjectID
		PostID   primitive.ObjectID
	}

	GetPostCommentsMsg struct {
		PostID primitive.ObjectID
	}
)

// CommentActor manages reader comments on posts.
type CommentActor struct {
	comments     map[primitive.ObjectID]*models.Comment
	postComments map[primitive.ObjectID][]primitive.ObjectID
	userNames    map[primitive.ObjectID]string // author display-name cache
	metrics      *utils.MetricsCollector
	db           *database.MongoDB
}

// NewCommentActor creates a new CommentActor instance. db may be nil.
func NewCommentActor(metrics *utils.MetricsCollector, db *database.MongoDB) actor.Actor {
	return &CommentActor{
		comments:     make(map[primitive.ObjectID]*models.Comment),
		postComments: make(map[primitive.ObjectID][]primitive.ObjectID),
		userNames:    make(map[primitive.ObjectID]string),
		metrics:      metrics,
		db:           db,
	}
}

func (a *CommentActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("CommentActor started with PID: %v", context.Self())
	case *CreateCommentMsg:
		a.handleCreateComment(context, msg)
	case *GetPostCommentsMsg:
		a.handleGetPostComments(context, msg)
	default:
		log.Printf("CommentActor: Unknown message type %T", msg)
	}
}

// authorName resolves an author's display name, using the cache first.
func (a *CommentActor) authorName(ctx stdctx.Context, userID primitive.ObjectID) string {
	if name, ok := a.userNames[userID]; ok {
		return name
	}

	if a.db == nil {
		return "[unknown]"
	}

	user, err := a.db.GetUser(ctx, userID)
	if err != nil {
		log.Printf("CommentActor: Error fetching user %s: %v", userID.Hex(), err)
		return "[unknown]"
	}

	a.userNames[userID] = user.Name
	return user.Name
}

func (a *CommentActor) handleCreateComment(context actor.Context, msg *CreateCommentMsg) {
	startTime := time.Now()

	if strings.TrimSpace(msg.Content) == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "Comment content is required", nil))
		return
	}

	ctx := stdctx.Background()
	now := time.Now()
	newComment := &models.Comment{
		ID:         primitive.NewObjectID(),
		Content:    msg.Content,
		AuthorID:   msg.AuthorID,
		AuthorName: a.authorName(ctx, msg.AuthorID),
		PostID:     msg.PostID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if a.db != nil {
		// The post must exist before the comment is attached to it.
		if _, err := a.db.GetPost(ctx, msg.PostID); err != nil {
			if _, ok := err.(*utils.AppError); ok {
				context.Respond(err)
			} else {
				context.Respond(utils.NewDatabaseError("fetch post", err))
			}
			return
		}

		if err := a.db.SaveComment(ctx, newComment); err != nil {
			context.Respond(utils.NewDatabaseError("save comment", err))
			return
		}
		if err := a.db.AppendPostComment(ctx, msg.PostID, newComment.ID); err != nil {
			log.Printf("CommentActor: Failed to link comment %s to post: %v", newComment.ID.Hex(), err)
		}
	} else {
		a.comments[newComment.ID] = newComment
		a.postComments[msg.PostID] = append(a.postComments[msg.PostID], newComment.ID)
	}

	a.metrics.AddOperationLatency("create_comment", time.Since(startTime))
	context.Respond(newComment)
}

func (a *CommentActor) handleGetPostComments(context actor.Context, msg *GetPostCommentsMsg) {
	if a.db != nil {
		comments, err := a.db.GetPostComments(stdctx.Background(), msg.PostID)
		if err != nil {
			context.Respond(utils.NewDatabaseError("fetch comments", err))
			return
		}
		if comments == nil {
			comments = []*models.Comment{}
		}
		context.Respond(comments)
		return
	}

	ids := a.postComments[msg.PostID]
	comments := make([]*models.Comment, 0, len(ids))
	for _, id := range ids {
		if comment := a.comments[id]; comment != nil {
			comments = append(comments, comment)
		}
	}
	context.Respond(comments)
}
