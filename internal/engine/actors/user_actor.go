package actors

import (
	stdctx "context"
	"log"
	"strings"
	"time"

	"ink-well/internal/api"
	"ink-well/internal/database"
	"ink-well/internal/middleware"
	"ink-well/internal/models"
	"ink-well/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// Message types for User operations
type (
	RegisterUserMsg struct {
		Name     string
		Email    string
		Password string
		IsAdmin  bool
	}

	LoginMsg struct {
		Email    string
		Password string
	}

	GetUserProfileMsg struct {
		UserID primitive.ObjectID
	}

	UpdateProfileMsg struct {
		UserID     primitive.ObjectID
		Name       string
		Email      string
		ProfileImg string
		Bio        string
	}
)

// UserActor manages author accounts: registration, credential login, and
// profile edits. Runs against MongoDB when configured, otherwise against its
// in-memory cache.
type UserActor struct {
	usersByID    map[primitive.ObjectID]*models.User
	usersByEmail map[string]primitive.ObjectID
	metrics      *utils.MetricsCollector
	db           *database.MongoDB
}

// NewUserActor creates a new UserActor instance. db may be nil.
func NewUserActor(metrics *utils.MetricsCollector, db *database.MongoDB) actor.Actor {
	return &UserActor{
		usersByID:    make(map[primitive.ObjectID]*models.User),
		usersByEmail: make(map[string]primitive.ObjectID),
		metrics:      metrics,
		db:           db,
	}
}

func (a *UserActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("UserActor started")
	case *RegisterUserMsg:
		a.handleRegister(context, msg)
	case *LoginMsg:
		a.handleLogin(context, msg)
	case *GetUserProfileMsg:
		a.handleGetProfile(context, msg)
	case *UpdateProfileMsg:
		a.handleUpdateProfile(context, msg)
	case *GetCountsMsg:
		a.handleGetCounts(context)
	default:
		log.Printf("UserActor: Unknown message type: %T", msg)
	}
}

func (a *UserActor) handleRegister(context actor.Context, msg *RegisterUserMsg) {
	startTime := time.Now()

	email := strings.TrimSpace(strings.ToLower(msg.Email))
	if email == "" || !strings.Contains(email, "@") {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "A valid email is required", nil))
		return
	}
	if msg.Password == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "Password is required", nil))
		return
	}

	if a.findByEmail(email) != nil {
		context.Respond(utils.NewAppError(utils.ErrUserAlreadyExists, "Email already registered: "+email, nil))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(msg.Password), bcrypt.DefaultCost)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to hash password", err))
		return
	}

	name := msg.Name
	if name == "" {
		name = "unnamed"
	}

	now := time.Now()
	newUser := &models.User{
		ID:             primitive.NewObjectID(),
		Name:           name,
		Email:          email,
		HashedPassword: string(hashed),
		IsAdmin:        msg.IsAdmin,
		BlogPosts:      []primitive.ObjectID{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if a.db != nil {
		if err := a.db.SaveUser(stdctx.Background(), newUser); err != nil {
			context.Respond(utils.NewDatabaseError("save user", err))
			return
		}
	} else {
		a.usersByID[newUser.ID] = newUser
		a.usersByEmail[email] = newUser.ID
	}

	log.Printf("UserActor: Registered user %s (%s)", newUser.ID.Hex(), email)
	a.metrics.AddOperationLatency("register_user", time.Since(startTime))
	context.Respond(newUser)
}

func (a *UserActor) handleLogin(context actor.Context, msg *LoginMsg) {
	startTime := time.Now()

	email := strings.TrimSpace(strings.ToLower(msg.Email))
	user := a.findByEmail(email)
	if user == nil {
		context.Respond(&api.LoginResponse{Success: false, Error: "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(msg.Password)); err != nil {
		log.Printf("UserActor: Login failed for %s: password mismatch", email)
		context.Respond(&api.LoginResponse{Success: false, Error: "Invalid credentials"})
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.IsAdmin)
	if err != nil {
		context.Respond(&api.LoginResponse{Success: false, Error: "Failed to generate token"})
		return
	}

	a.metrics.AddOperationLatency("login", time.Since(startTime))
	context.Respond(&api.LoginResponse{
		Success: true,
		Token:   token,
		UserID:  user.ID.Hex(),
		IsAdmin: user.IsAdmin,
	})
}

func (a *UserActor) handleGetProfile(context actor.Context, msg *GetUserProfileMsg) {
	if a.db != nil {
		user, err := a.db.GetUser(stdctx.Background(), msg.UserID)
		if err != nil {
			context.Respond(err)
			return
		}
		context.Respond(user)
		return
	}

	user, exists := a.usersByID[msg.UserID]
	if !exists {
		context.Respond(utils.NewUserNotFoundError(msg.UserID.Hex()))
		return
	}
	context.Respond(user)
}

func (a *UserActor) handleUpdateProfile(context actor.Context, msg *UpdateProfileMsg) {
	startTime := time.Now()

	if a.db != nil {
		user, err := a.db.UpdateUserProfile(
			stdctx.Background(), msg.UserID, msg.Name, msg.Email, msg.ProfileImg, msg.Bio)
		if err != nil {
			context.Respond(err)
			return
		}
		a.metrics.AddOperationLatency("update_profile", time.Since(startTime))
		context.Respond(user)
		return
	}

	user, exists := a.usersByID[msg.UserID]
	if !exists {
		context.Respond(utils.NewUserNotFoundError(msg.UserID.Hex()))
		return
	}

	if msg.Name != "" {
		user.Name = msg.Name
	}
	if msg.Email != "" {
		delete(a.usersByEmail, user.Email)
		user.Email = strings.ToLower(msg.Email)
		a.usersByEmail[user.Email] = user.ID
	}
	if msg.ProfileImg != "" {
		user.ProfileImg = msg.ProfileImg
	}
	if msg.Bio != "" {
		user.Bio = msg.Bio
	}
	user.UpdatedAt = time.Now()

	a.metrics.AddOperationLatency("update_profile", time.Since(startTime))
	context.Respond(user)
}

func (a *UserActor) handleGetCounts(context actor.Context) {
	if a.db != nil {
		count, err := a.db.Users.EstimatedDocumentCount(stdctx.Background())
		if err != nil {
			log.Printf("UserActor: Count failed: %v", err)
			count = 0
		}
		context.Respond(int(count))
		return
	}
	context.Respond(len(a.usersByID))
}

func (a *UserActor) findByEmail(email string) *models.User {
	if a.db != nil {
		user, err := a.db.GetUserByEmail(stdctx.Background(), email)
		if err != nil {
			return nil
		}
		return user
	}

	id, ok := a.usersByEmail[email]
	if !ok {
		return nil
	}
	return a.usersByID[id]
}
