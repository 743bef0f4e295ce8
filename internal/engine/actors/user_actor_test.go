package actors

import (
	"testing"

	"ink-well/internal/api"
	"ink-well/internal/models"
	"ink-well/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func spawnUserActor(t *testing.T) (*actor.ActorSystem, *actor.PID) {
	t.Helper()
	system := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewUserActor(utils.NewMetricsCollector(), nil)
	})
	return system, system.Root.Spawn(props)
}

func TestUserActorRegisterAndLogin(t *testing.T) {
	system, pid := spawnUserActor(t)

	result := askActor(t, system, pid, &RegisterUserMsg{
		Name:     "Sam Editor",
		Email:    "Sam@Example.com",
		Password: "hunter2hunter2",
		IsAdmin:  true,
	})
	user, ok := result.(*models.User)
	require.True(t, ok, "expected a user, got %T: %v", result, result)
	assert.Equal(t, "sam@example.com", user.Email)
	assert.True(t, user.IsAdmin)
	assert.NotEqual(t, "hunter2hunter2", user.HashedPassword)

	result = askActor(t, system, pid, &LoginMsg{Email: "sam@example.com", Password: "hunter2hunter2"})
	login := result.(*api.LoginResponse)
	assert.True(t, login.Success)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, user.ID.Hex(), login.UserID)
	assert.True(t, login.IsAdmin)

	result = askActor(t, system, pid, &LoginMsg{Email: "sam@example.com", Password: "wrong"})
	login = result.(*api.LoginResponse)
	assert.False(t, login.Success)
	assert.Empty(t, login.Token)
}

func TestUserActorRegisterValidation(t *testing.T) {
	system, pid := spawnUserActor(t)

	result := askActor(t, system, pid, &RegisterUserMsg{Email: "not-an-email", Password: "pw"})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrInvalidInput, appErr.Code)

	result = askActor(t, system, pid, &RegisterUserMsg{Email: "a@b.com", Password: ""})
	appErr, ok = result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrInvalidInput, appErr.Code)
}

func TestUserActorDuplicateEmail(t *testing.T) {
	system, pid := spawnUserActor(t)

	askActor(t, system, pid, &RegisterUserMsg{Email: "dup@example.com", Password: "pw123456"})
	result := askActor(t, system, pid, &RegisterUserMsg{Email: "DUP@example.com", Password: "pw123456"})

	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrUserAlreadyExists, appErr.Code)
}

func TestUserActorProfile(t *testing.T) {
	system, pid := spawnUserActor(t)

	result := askActor(t, system, pid, &RegisterUserMsg{Email: "p@example.com", Password: "pw123456"})
	user := result.(*models.User)
	assert.Equal(t, "unnamed", user.Name)

	result = askActor(t, system, pid, &GetUserProfileMsg{UserID: user.ID})
	assert.Equal(t, user.ID, result.(*models.User).ID)

	result = askActor(t, system, pid, &UpdateProfileMsg{
		UserID: user.ID,
		Name:   "Pat Writer",
		Bio:    "Writes about infrastructure.",
	})
	updated := result.(*models.User)
	assert.Equal(t, "Pat Writer", updated.Name)
	assert.Equal(t, "Writes about infrastructure.", updated.Bio)
	assert.Equal(t, "p@example.com", updated.Email)

	result = askActor(t, system, pid, &GetUserProfileMsg{UserID: primitive.NewObjectID()})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrUserNotFound, appErr.Code)
}
