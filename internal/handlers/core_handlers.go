package handlers

import (
	"net/http"
	"time"

	"ink-well/internal/engine/actors"

	"github.com/asynkron/protoactor-go/actor"
)

// HandleHealth reports the service state plus entity counts and request
// metrics. Counts come from the actors, so a stalled mailbox shows up here.
func (s *Server) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.Metrics.IncrementRequests()

		counts := map[string]interface{}{
			"posts":       s.countFrom(s.Engine.GetPostActor()),
			"users":       s.countFrom(s.Engine.GetUserActor()),
			"subscribers": s.countFrom(s.Engine.GetSubscriberActor()),
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":  "healthy",
			"time":    time.Now().UTC().Format(time.RFC3339),
			"counts":  counts,
			"metrics": s.Metrics.Snapshot(),
		})
	}
}

// HandleSimpleHealth is a bare liveness probe with no actor round-trips.
func (s *Server) HandleSimpleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// countFrom asks one actor for its entity count; -1 marks an unreachable actor.
func (s *Server) countFrom(pid *actor.PID) int {
	result, err := s.ask(pid, &actors.GetCountsMsg{}, "count")
	if err != nil {
		return -1
	}
	if count, ok := result.(int); ok {
		return count
	}
	return -1
}
