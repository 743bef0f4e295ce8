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
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message types for Subscriber operations
type (
	SubscribeMsg struct {
		Email string
	}

	ListSubscribersMsg struct{}

	DeleteSubscriberMsg struct {
		SubscriberID primitive.ObjectID
	}

	UnsubscribeByTokenMsg struct {
		Token string
	}
)

// SubscriberActor manages the mailing list. Entries are created on subscribe
// and deleted on admin action or via the unsubscribe token; there is no
// update path.
type SubscriberActor struct {
	subscribersByID map[primitive.ObjectID]*models.Subscriber
	emailIndex      map[string]primitive.ObjectID
	metrics         *utils.MetricsCollector
	db              *database.MongoDB
}

// NewSubscriberActor creates a new SubscriberActor instance. db may be nil.
func NewSubscriberActor(metrics *utils.MetricsCollector, db *database.MongoDB) actor.Actor {
	return &SubscriberActor{
		subscribersByID: make(map[primitive.ObjectID]*models.Subscriber),
		emailIndex:      make(map[string]primitive.ObjectID),
		metrics:         metrics,
		db:              db,
	}
}

func (a *SubscriberActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("SubscriberActor started")
	case *SubscribeMsg:
		a.handleSubscribe(context, msg)
	case *ListSubscribersMsg:
		a.handleList(context)
	case *DeleteSubscriberMsg:
		a.handleDelete(context, msg)
	case *UnsubscribeByTokenMsg:
		a.handleUnsubscribe(context, msg)
	case *GetCountsMsg:
		a.handleGetCounts(context)
	default:
		log.Printf("SubscriberActor: Unknown message type: %T", msg)
	}
}

func (a *SubscriberActor) handleSubscribe(context actor.Context, msg *SubscribeMsg) {
	startTime := time.Now()

	email := strings.TrimSpace(strings.ToLower(msg.Email))
	if email == "" || !strings.Contains(email, "@") {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "A valid email is required", nil))
		return
	}

	sub := &models.Subscriber{
		ID:           primitive.NewObjectID(),
		Email:        email,
		Token:        uuid.NewString(),
		SubscribedAt: time.Now(),
	}

	if a.db != nil {
		if err := a.db.CreateSubscriber(stdctx.Background(), sub); err != nil {
			if _, ok := err.(*utils.AppError); ok {
				context.Respond(err)
			} else {
				context.Respond(utils.NewDatabaseError("create subscriber", err))
			}
			return
		}
	} else {
		if _, exists := a.emailIndex[email]; exists {
			context.Respond(utils.NewAppError(utils.ErrSubscriberExists, "Email already subscribed: "+email, nil))
			return
		}
		a.subscribersByID[sub.ID] = sub
		a.emailIndex[email] = sub.ID
	}

	log.Printf("SubscriberActor: New subscriber %s", email)
	a.metrics.AddOperationLatency("subscribe", time.Since(startTime))
	context.Respond(sub)
}

func (a *SubscriberActor) handleList(context actor.Context) {
	if a.db != nil {
		subscribers, err := a.db.ListSubscribers(stdctx.Background())
		if err != nil {
			context.Respond(utils.NewDatabaseError("list subscribers", err))
			return
		}
		if subscribers == nil {
			subscribers = []*models.Subscriber{}
		}
		context.Respond(subscribers)
		return
	}

	subscribers := make([]*models.Subscriber, 0, len(a.subscribersByID))
	for _, sub := range a.subscribersByID {
		subscribers = append(subscribers, sub)
	}
	context.Respond(subscribers)
}

func (a *SubscriberActor) handleDelete(context actor.Context, msg *DeleteSubscriberMsg) {
	startTime := time.Now()

	if a.db != nil {
		if err := a.db.DeleteSubscriber(stdctx.Background(), msg.SubscriberID); err != nil {
			if _, ok := err.(*utils.AppError); ok {
				context.Respond(err)
			} else {
				context.Respond(utils.NewDatabaseError("delete subscriber", err))
			}
			return
		}
		a.metrics.AddOperationLatency("delete_subscriber", time.Since(startTime))
		context.Respond(true)
		return
	}

	sub, exists := a.subscribersByID[msg.SubscriberID]
	if !exists {
		context.Respond(utils.NewAppError(utils.ErrSubscriberNotFound, "Subscriber not found: "+msg.SubscriberID.Hex(), nil))
		return
	}
	delete(a.subscribersByID, msg.SubscriberID)
	delete(a.emailIndex, sub.Email)

	a.metrics.AddOperationLatency("delete_subscriber", time.Since(startTime))
	context.Respond(true)
}

func (a *SubscriberActor) handleUnsubscribe(context actor.Context, msg *UnsubscribeByTokenMsg) {
	if a.db != nil {
		if err := a.db.DeleteSubscriberByToken(stdctx.Background(), msg.Token); err != nil {
			if _, ok := err.(*utils.AppError); ok {
				context.Respond(err)
			} else {
				context.Respond(utils.NewDatabaseError("unsubscribe", err))
			}
			return
		}
		context.Respond(true)
		return
	}

	for id, sub := range a.subscribersByID {
		if sub.Token == msg.Token {
			delete(a.subscribersByID, id)
			delete(a.emailIndex, sub.Email)
			context.Respond(true)
			return
		}
	}
	context.Respond(utils.NewAppError(utils.ErrSubscriberNotFound, "No subscriber for token", nil))
}

func (a *SubscriberActor) handleGetCounts(context actor.Context) {
	if a.db != nil {
		count, err := a.db.Subscribers.EstimatedDocumentCount(stdctx.Background())
		if err != nil {
			log.Printf("SubscriberActor: Count failed: %v", err)
			count = 0
		}
		context.Respond(int(count))
		return
	}
	context.Respond(len(a.subscribersByID))
}
