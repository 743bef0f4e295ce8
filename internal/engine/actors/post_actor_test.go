package actors

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"ink-well/internal/database"
	"ink-well/internal/models"
	"ink-well/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func spawnPostActor(t *testing.T) (*actor.ActorSystem, *actor.PID) {
	t.Helper()
	system := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewPostActor(utils.NewMetricsCollector(), nil)
	})
	return system, system.Root.Spawn(props)
}

func askActor(t *testing.T, system *actor.ActorSystem, pid *actor.PID, msg interface{}) interface{} {
	t.Helper()
	future := system.Root.RequestFuture(pid, msg, 5*time.Second)
	result, err := future.Result()
	require.NoError(t, err)
	return result
}

func createPost(t *testing.T, system *actor.ActorSystem, pid *actor.PID, title, category string, author primitive.ObjectID) *models.Post {
	t.Helper()
	result := askActor(t, system, pid, &CreatePostMsg{
		Title:       title,
		Description: "Summary of " + title,
		Content:     "Body of " + title,
		Category:    category,
		AuthorID:    author,
		AuthorName:  "Pat Writer",
	})
	post, ok := result.(*models.Post)
	require.True(t, ok, "expected a post, got %T: %v", result, result)
	return post
}

func TestPostActorCreateAndGet(t *testing.T) {
	system, pid := spawnPostActor(t)
	author := primitive.NewObjectID()

	created := createPost(t, system, pid, "First light", models.CategoryStartup, author)
	assert.Equal(t, "First light", created.Title)
	assert.Equal(t, int64(0), created.Views)

	result := askActor(t, system, pid, &GetPostMsg{PostID: created.ID})
	fetched := result.(*models.PostWithAuthor)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "Pat Writer", fetched.Author.Name)
}

func TestPostActorCreateRejectsInvalidInput(t *testing.T) {
	system, pid := spawnPostActor(t)

	result := askActor(t, system, pid, &CreatePostMsg{
		Title:    "",
		Category: models.CategoryStartup,
		AuthorID: primitive.NewObjectID(),
	})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrInvalidInput, appErr.Code)
}

func TestPostActorGetMissingPost(t *testing.T) {
	system, pid := spawnPostActor(t)

	result := askActor(t, system, pid, &GetPostMsg{PostID: primitive.NewObjectID()})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrNotFound, appErr.Code)
}

func TestPostActorViewCounting(t *testing.T) {
	system, pid := spawnPostActor(t)
	created := createPost(t, system, pid, "Counting views", models.CategoryTechnology, primitive.NewObjectID())

	// First fetch from an IP counts.
	result := askActor(t, system, pid, &GetPostMsg{PostID: created.ID, ClientIP: "203.0.113.7"})
	assert.Equal(t, int64(1), result.(*models.PostWithAuthor).Views)

	// Repeat fetch from the same IP does not.
	result = askActor(t, system, pid, &GetPostMsg{PostID: created.ID, ClientIP: "203.0.113.7"})
	assert.Equal(t, int64(1), result.(*models.PostWithAuthor).Views)

	// A different IP counts again.
	result = askActor(t, system, pid, &GetPostMsg{PostID: created.ID, ClientIP: "198.51.100.2"})
	assert.Equal(t, int64(2), result.(*models.PostWithAuthor).Views)

	// No client address, no counting.
	result = askActor(t, system, pid, &GetPostMsg{PostID: created.ID})
	assert.Equal(t, int64(2), result.(*models.PostWithAuthor).Views)
}

func TestPostActorUpdate(t *testing.T) {
	system, pid := spawnPostActor(t)
	created := createPost(t, system, pid, "Before edit", models.CategoryLifestyle, primitive.NewObjectID())

	result := askActor(t, system, pid, &UpdatePostMsg{
		PostID: created.ID,
		Title:  "After edit",
	})
	updated := result.(*models.Post)
	assert.Equal(t, "After edit", updated.Title)
	assert.Equal(t, "Summary of Before edit", updated.Description)

	result = askActor(t, system, pid, &UpdatePostMsg{PostID: primitive.NewObjectID(), Title: "nope"})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrNotFound, appErr.Code)
}

func TestPostActorRejectedUpdateLeavesPostUntouched(t *testing.T) {
	system, pid := spawnPostActor(t)
	created := createPost(t, system, pid, "Original title", models.CategoryStartup, primitive.NewObjectID())

	result := askActor(t, system, pid, &UpdatePostMsg{
		PostID: created.ID,
		Title:  strings.Repeat("x", models.MaxTitleLen+1),
	})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrInvalidInput, appErr.Code)

	// The stored post must not carry any of the rejected edit.
	result = askActor(t, system, pid, &GetPostMsg{PostID: created.ID})
	fetched := result.(*models.PostWithAuthor)
	assert.Equal(t, "Original title", fetched.Title)
	assert.Equal(t, created.UpdatedAt, fetched.UpdatedAt)
}

func TestPostActorConcurrentFetchesCountOneView(t *testing.T) {
	system, pid := spawnPostActor(t)
	created := createPost(t, system, pid, "Hot off the press", models.CategoryTechnology, primitive.NewObjectID())

	const fetchers = 16
	var wg sync.WaitGroup
	errs := make(chan error, fetchers)
	for i := 0; i < fetchers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			future := system.Root.RequestFuture(pid, &GetPostMsg{
				PostID:   created.ID,
				ClientIP: "203.0.113.7",
			}, 5*time.Second)
			_, err := future.Result()
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	// All fetches raced on the same first-time IP; exactly one counted.
	result := askActor(t, system, pid, &GetPostMsg{PostID: created.ID})
	assert.Equal(t, int64(1), result.(*models.PostWithAuthor).Views)
}

func TestPostActorDelete(t *testing.T) {
	system, pid := spawnPostActor(t)
	created := createPost(t, system, pid, "Short lived", models.CategoryStartup, primitive.NewObjectID())

	result := askActor(t, system, pid, &DeletePostMsg{PostID: created.ID})
	deleted := result.(*models.Post)
	assert.Equal(t, created.ID, deleted.ID)

	result = askActor(t, system, pid, &GetPostMsg{PostID: created.ID})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrNotFound, appErr.Code)
}

func TestPostActorListPagination(t *testing.T) {
	system, pid := spawnPostActor(t)
	author := primitive.NewObjectID()

	for i := 1; i <= 5; i++ {
		createPost(t, system, pid, fmt.Sprintf("Dispatch %d", i), models.CategoryTechnology, author)
		// Keep creation timestamps strictly ordered.
		time.Sleep(2 * time.Millisecond)
	}

	result := askActor(t, system, pid, &ListPostsMsg{Page: database.Pagination{Page: 1, Limit: 2}})
	page := result.(*database.PostPage)
	assert.Equal(t, int64(5), page.TotalDocs)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Docs, 2)
	assert.Equal(t, "Dispatch 5", page.Docs[0].Title)
	assert.Equal(t, "Dispatch 4", page.Docs[1].Title)
	assert.False(t, page.HasPrevPage)
	assert.True(t, page.HasNextPage)

	result = askActor(t, system, pid, &ListPostsMsg{Page: database.Pagination{Page: 3, Limit: 2}})
	page = result.(*database.PostPage)
	require.Len(t, page.Docs, 1)
	assert.Equal(t, "Dispatch 1", page.Docs[0].Title)
	assert.False(t, page.HasNextPage)
}

func TestPostActorListOutOfRangePage(t *testing.T) {
	system, pid := spawnPostActor(t)
	createPost(t, system, pid, "Only one", models.CategoryStartup, primitive.NewObjectID())

	result := askActor(t, system, pid, &ListPostsMsg{Page: database.Pagination{Page: 7, Limit: 10}})
	page := result.(*database.PostPage)
	assert.Empty(t, page.Docs)
	assert.Equal(t, int64(1), page.TotalDocs)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 7, page.Page)
	assert.True(t, page.HasPrevPage)
	assert.Equal(t, 6, *page.PrevPage)
	assert.False(t, page.HasNextPage)
}

func TestPostActorListFilters(t *testing.T) {
	system, pid := spawnPostActor(t)
	author := primitive.NewObjectID()

	createPost(t, system, pid, "Raising a seed round", models.CategoryStartup, author)
	time.Sleep(2 * time.Millisecond)
	createPost(t, system, pid, "Profiling Go services", models.CategoryTechnology, author)
	time.Sleep(2 * time.Millisecond)
	createPost(t, system, pid, "Go to market notes", models.CategoryStartup, author)

	result := askActor(t, system, pid, &ListPostsMsg{
		Filter: database.PostFilter{Search: "go"},
		Page:   database.Pagination{Page: 1},
	})
	page := result.(*database.PostPage)
	assert.Equal(t, int64(2), page.TotalDocs)

	result = askActor(t, system, pid, &ListPostsMsg{
		Filter: database.PostFilter{Category: models.CategoryStartup},
		Page:   database.Pagination{Page: 1},
	})
	page = result.(*database.PostPage)
	assert.Equal(t, int64(2), page.TotalDocs)

	result = askActor(t, system, pid, &ListPostsMsg{
		Filter: database.PostFilter{Category: models.CategoryAll},
		Page:   database.Pagination{Page: 1},
	})
	page = result.(*database.PostPage)
	assert.Equal(t, int64(3), page.TotalDocs)

	result = askActor(t, system, pid, &ListPostsMsg{
		Filter: database.PostFilter{Search: "go", Category: models.CategoryTechnology},
		Page:   database.Pagination{Page: 1},
	})
	page = result.(*database.PostPage)
	assert.Equal(t, int64(1), page.TotalDocs)
	require.Len(t, page.Docs, 1)
	assert.Equal(t, "Profiling Go services", page.Docs[0].Title)
}

func TestPostActorStatsAndCounts(t *testing.T) {
	system, pid := spawnPostActor(t)
	author := primitive.NewObjectID()

	first := createPost(t, system, pid, "Stat sample one", models.CategoryStartup, author)
	createPost(t, system, pid, "Stat sample two", models.CategoryLifestyle, author)

	askActor(t, system, pid, &GetPostMsg{PostID: first.ID, ClientIP: "203.0.113.7"})
	askActor(t, system, pid, &GetPostMsg{PostID: first.ID, ClientIP: "198.51.100.2"})

	result := askActor(t, system, pid, &GetPostStatsMsg{})
	stats := result.(*PostStats)
	assert.Equal(t, int64(2), stats.TotalPosts)
	assert.Equal(t, int64(2), stats.TotalViews)
	assert.Equal(t, int64(2), stats.NewPosts)

	result = askActor(t, system, pid, &GetCountsMsg{})
	assert.Equal(t, 2, result.(int))
}
