package handlers

import (
	"encoding/json"
	"net/http"

	"ink-well/internal/engine/actors"
	"ink-well/internal/middleware"
	"ink-well/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateCommentRequest represents a request to comment on a post
type CreateCommentRequest struct {
	Content string `json:"content"`
	PostID  string `json:"postId"`
}

// HandleComment handles comment creation; the author comes from the JWT.
func (s *Server) HandleComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		middleware.Auth(s.handleCreateComment, false)(w, r)
	}
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	s.Metrics.IncrementRequests()

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, utils.NewUnauthorizedError("Invalid or missing user identity"))
		return
	}

	var req CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	postID, err := primitive.ObjectIDFromHex(req.PostID)
	if err != nil {
		writeError(w, utils.NewInvalidIDError(req.PostID))
		return
	}

	result, askErr := s.ask(s.Engine.GetCommentActor(), &actors.CreateCommentMsg{
		Content:  req.Content,
		AuthorID: userID,
		PostID:   postID,
	}, "CommentActor")
	if askErr != nil {
		writeError(w, askErr)
		return
	}

	s.respond(w, result, http.StatusCreated)
}

// HandleGetComments returns the comments for a post, oldest first.
func (s *Server) HandleGetComments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.Metrics.IncrementRequests()

		rawID := r.URL.Query().Get("postId")
		postID, err := primitive.ObjectIDFromHex(rawID)
		if err != nil {
			writeError(w, utils.NewInvalidIDError(rawID))
			return
		}

		result, askErr := s.ask(s.Engine.GetCommentActor(), &actors.GetPostCommentsMsg{PostID: postID}, "CommentActor")
		if askErr != nil {
			writeError(w, askErr)
			return
		}

		s.respond(w, result, http.StatusOK)
	}
}
