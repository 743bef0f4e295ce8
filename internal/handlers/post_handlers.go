package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"ink-well/internal/database"
	"ink-well/internal/engine/actors"
	"ink-well/internal/middleware"
	"ink-well/internal/models"
	"ink-well/internal/utils"
	"ink-well/internal/websocket"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreatePostRequest represents a request to publish a new post
type CreatePostRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Content     string   `json:"content"`
	Category    string   `json:"category"`
	Image       string   `json:"image"` // cover image as a data URI
	AuthorID    string   `json:"author"`
	AuthorName  string   `json:"authorName,omitempty"`
	AuthorImg   string   `json:"authorImg,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// UpdatePostRequest represents a request to edit an existing post. Empty
// fields are left unchanged.
type UpdatePostRequest struct {
	ID          string   `json:"id"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Content     string   `json:"content,omitempty"`
	Category    string   `json:"category,omitempty"`
	Image       string   `json:"image,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// HandleListPosts serves the paginated, searchable, categorized listing.
func (s *Server) HandleListPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.Metrics.IncrementRequests()

		// A missing or unparsable page defaults to the first page; an
		// explicit out-of-range value flows through and yields an empty
		// page with totals intact.
		page := 1
		if raw := r.URL.Query().Get("page"); raw != "" {
			if v, err := strconv.Atoi(raw); err == nil {
				page = v
			}
		}

		limit := 0 // 0 picks up the default page size
		if raw := r.URL.Query().Get("limit"); raw != "" {
			if v, err := strconv.Atoi(raw); err == nil {
				limit = v
			}
		}

		msg := &actors.ListPostsMsg{
			Filter: database.PostFilter{
				Search:   r.URL.Query().Get("query"),
				Category: r.URL.Query().Get("category"),
			},
			Page: database.Pagination{Page: page, Limit: limit},
		}

		result, err := s.ask(s.Engine.GetPostActor(), msg, "PostActor")
		if err != nil {
			writeError(w, err)
			return
		}

		s.respond(w, result, http.StatusOK)
	}
}

// HandlePost handles single-post retrieval plus the authenticated
// create/update/delete operations.
func (s *Server) HandlePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests()

		switch r.Method {
		case http.MethodGet:
			s.handleGetPost(w, r)
		case http.MethodPost:
			middleware.Auth(s.handleCreatePost, true)(w, r)
		case http.MethodPut:
			middleware.Auth(s.handleUpdatePost, true)(w, r)
		case http.MethodDelete:
			middleware.Auth(s.handleDeletePost, true)(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	rawID := r.URL.Query().Get("id")
	if rawID == "" {
		http.Error(w, "Post ID is required", http.StatusBadRequest)
		return
	}

	// A malformed id never reaches the store; it is a distinct client
	// error from not-found.
	postID, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		writeError(w, utils.NewInvalidIDError(rawID))
		return
	}

	result, askErr := s.ask(s.Engine.GetPostActor(), &actors.GetPostMsg{
		PostID:   postID,
		ClientIP: utils.ClientIP(r),
	}, "PostActor")
	if askErr != nil {
		writeError(w, askErr)
		return
	}

	s.respond(w, result, http.StatusOK)
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	// The author defaults to the authenticated identity; an explicit
	// author field lets an admin publish on another account's behalf.
	authorID, ok := middleware.GetUserIDFromContext(r.Context())
	if req.AuthorID != "" {
		var err error
		authorID, err = primitive.ObjectIDFromHex(req.AuthorID)
		if err != nil {
			writeError(w, utils.NewInvalidIDError(req.AuthorID))
			return
		}
	} else if !ok {
		writeError(w, utils.NewUnauthorizedError("Invalid or missing user identity"))
		return
	}

	result, askErr := s.ask(s.Engine.GetPostActor(), &actors.CreatePostMsg{
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		Category:    req.Category,
		Image:       req.Image,
		AuthorID:    authorID,
		AuthorName:  req.AuthorName,
		AuthorImg:   req.AuthorImg,
		Tags:        req.Tags,
	}, "PostActor")
	if askErr != nil {
		writeError(w, askErr)
		return
	}

	if post, ok := result.(*models.Post); ok && s.Hub != nil {
		s.Hub.PublishEvent(websocket.EventPostPublished, map[string]string{
			"id":    post.ID.Hex(),
			"title": post.Title,
		})
	}

	s.respond(w, result, http.StatusCreated)
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	var req UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	postID, err := primitive.ObjectIDFromHex(req.ID)
	if err != nil {
		writeError(w, utils.NewInvalidIDError(req.ID))
		return
	}

	result, askErr := s.ask(s.Engine.GetPostActor(), &actors.UpdatePostMsg{
		PostID:      postID,
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		Category:    req.Category,
		Image:       req.Image,
		Tags:        req.Tags,
	}, "PostActor")
	if askErr != nil {
		writeError(w, askErr)
		return
	}

	s.respond(w, result, http.StatusOK)
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	rawID := r.URL.Query().Get("id")
	postID, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		writeError(w, utils.NewInvalidIDError(rawID))
		return
	}

	result, askErr := s.ask(s.Engine.GetPostActor(), &actors.DeletePostMsg{PostID: postID}, "PostActor")
	if askErr != nil {
		writeError(w, askErr)
		return
	}

	if appErr, ok := result.(*utils.AppError); ok {
		s.Metrics.IncrementErrors()
		http.Error(w, appErr.Error(), utils.AppErrorToHTTPStatus(appErr.Code))
		return
	}

	if s.Hub != nil {
		s.Hub.PublishEvent(websocket.EventPostDeleted, map[string]string{"id": rawID})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Blog deleted successfully",
		"blogId":  rawID,
	})
}
