package engine

import (
	"ink-well/internal/database"
	"ink-well/internal/engine/actors"
	"ink-well/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
)

// Engine coordinates communication between actors. Each domain gets its own
// actor; handlers reach them through the PIDs exposed here. The database
// handle may be nil, in which case every actor serves from its in-memory
// cache (the mode the tests run in).
type Engine struct {
	postActor       *actor.PID
	userActor       *actor.PID
	subscriberActor *actor.PID
	commentActor    *actor.PID
}

func NewEngine(system *actor.ActorSystem, metrics *utils.MetricsCollector, db *database.MongoDB) *Engine {
	context := system.Root

	postProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewPostActor(metrics, db)
	})
	postPID := context.Spawn(postProps)

	userProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewUserActor(metrics, db)
	})
	userPID := context.Spawn(userProps)

	subscriberProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewSubscriberActor(metrics, db)
	})
	subscriberPID := context.Spawn(subscriberProps)

	commentProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewCommentActor(metrics, db)
	})
	commentPID := context.Spawn(commentProps)

	return &Engine{
		postActor:       postPID,
		userActor:       userPID,
		subscriberActor: subscriberPID,
		commentActor:    commentPID,
	}
}

// GetPostActor returns the PID of the post actor
func (e *Engine) GetPostActor() *actor.PID {
	return e.postActor
}

// GetUserActor returns the PID of the user actor
func (e *Engine) GetUserActor() *actor.PID {
	return e.userActor
}

// GetSubscriberActor returns the PID of the subscriber actor
func (e *Engine) GetSubscriberActor() *actor.PID {
	return e.subscriberActor
}

// GetCommentActor returns the PID of the comment actor
func (e *Engine) GetCommentActor() *actor.PID {
	return e.commentActor
}
