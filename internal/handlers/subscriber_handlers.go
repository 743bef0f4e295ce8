package handlers

import (
	"encoding/json"
	"net/http"

	"ink-well/internal/engine/actors"
	"ink-well/internal/middleware"
	"ink-well/internal/models"
	"ink-well/internal/utils"
	"ink-well/internal/websocket"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SubscribeRequest represents a request to join the mailing list
type SubscribeRequest struct {
	Email string `json:"email"`
}

// HandleSubscribe handles public mailing-list signups
func (s *Server) HandleSubscribe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.Metrics.IncrementRequests()

		var req SubscribeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		result, err := s.ask(s.Engine.GetSubscriberActor(), &actors.SubscribeMsg{Email: req.Email}, "SubscriberActor")
		if err != nil {
			writeError(w, err)
			return
		}

		if appErr, ok := result.(*utils.AppError); ok {
			s.Metrics.IncrementErrors()
			http.Error(w, appErr.Error(), utils.AppErrorToHTTPStatus(appErr.Code))
			return
		}

		if sub, ok := result.(*models.Subscriber); ok && s.Hub != nil {
			s.Hub.PublishEvent(websocket.EventSubscriberAdded, map[string]string{"email": sub.Email})
		}

		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"success":    true,
			"message":    "Subscribed",
			"subscriber": result,
		})
	}
}

// HandleSubscribers lists (GET) and removes (DELETE) mailing-list entries;
// both are admin operations.
func (s *Server) HandleSubscribers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests()

		switch r.Method {
		case http.MethodGet:
			middleware.Auth(s.handleListSubscribers, true)(w, r)
		case http.MethodDelete:
			middleware.Auth(s.handleDeleteSubscriber, true)(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (s *Server) handleListSubscribers(w http.ResponseWriter, r *http.Request) {
	result, err := s.ask(s.Engine.GetSubscriberActor(), &actors.ListSubscribersMsg{}, "SubscriberActor")
	if err != nil {
		writeError(w, err)
		return
	}

	if appErr, ok := result.(*utils.AppError); ok {
		s.Metrics.IncrementErrors()
		http.Error(w, appErr.Error(), utils.AppErrorToHTTPStatus(appErr.Code))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"emails":  result,
	})
}

func (s *Server) handleDeleteSubscriber(w http.ResponseWriter, r *http.Request) {
	rawID := r.URL.Query().Get("id")
	subscriberID, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		writeError(w, utils.NewInvalidIDError(rawID))
		return
	}

	result, askErr := s.ask(s.Engine.GetSubscriberActor(), &actors.DeleteSubscriberMsg{SubscriberID: subscriberID}, "SubscriberActor")
	if askErr != nil {
		writeError(w, askErr)
		return
	}

	if appErr, ok := result.(*utils.AppError); ok {
		s.Metrics.IncrementErrors()
		http.Error(w, appErr.Error(), utils.AppErrorToHTTPStatus(appErr.Code))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Email deleted successfully",
	})
}

// HandleUnsubscribe serves the one-click unsubscribe link carried in
// newsletter footers.
func (s *Server) HandleUnsubscribe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.Metrics.IncrementRequests()

		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "Unsubscribe token is required", http.StatusBadRequest)
			return
		}

		result, err := s.ask(s.Engine.GetSubscriberActor(), &actors.UnsubscribeByTokenMsg{Token: token}, "SubscriberActor")
		if err != nil {
			writeError(w, err)
			return
		}

		if appErr, ok := result.(*utils.AppError); ok {
			s.Metrics.IncrementErrors()
			http.Error(w, appErr.Error(), utils.AppErrorToHTTPStatus(appErr.Code))
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "Unsubscribed",
		})
	}
}
