package handlers

import (
	"net/http"

	"ink-well/internal/engine/actors"
	"ink-well/internal/middleware"
	"ink-well/internal/utils"
)

// HandleDashboardStats returns the aggregate numbers shown on the admin
// dashboard: post/view totals, subscriber and user counts, and posts
// published in the last 30 days.
func (s *Server) HandleDashboardStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		middleware.Auth(s.handleDashboardStats, true)(w, r)
	}
}

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	s.Metrics.IncrementRequests()

	result, err := s.ask(s.Engine.GetPostActor(), &actors.GetPostStatsMsg{}, "PostActor")
	if err != nil {
		writeError(w, err)
		return
	}
	if appErr, ok := result.(*utils.AppError); ok {
		s.Metrics.IncrementErrors()
		http.Error(w, appErr.Error(), utils.AppErrorToHTTPStatus(appErr.Code))
		return
	}
	postStats, ok := result.(*actors.PostStats)
	if !ok {
		http.Error(w, "Unexpected response from post actor", http.StatusInternalServerError)
		return
	}

	subscribers := s.countFrom(s.Engine.GetSubscriberActor())
	users := s.countFrom(s.Engine.GetUserActor())

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"stats": map[string]interface{}{
			"totalPosts":  postStats.TotalPosts,
			"totalViews":  postStats.TotalViews,
			"newPosts":    postStats.NewPosts,
			"subscribers": subscribers,
			"totalUsers":  users,
		},
	})
}
