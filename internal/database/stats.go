// internal/database/stats.go
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// DashboardStats is the admin overview: collection totals, the view sum
// across all posts, and how many posts landed in the last thirty days.
type DashboardStats struct {
	TotalPosts  int64 `json:"totalPosts"`
	TotalViews  int64 `json:"totalViews"`
	Subscribers int64 `json:"subscribers"`
	TotalUsers  int64 `json:"totalUsers"`
	NewPosts    int64 `json:"newPosts"`
}

// GetDashboardStats assembles the admin dashboard numbers.
func (m *MongoDB) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	totalPosts, err := m.Posts.EstimatedDocumentCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count posts: %v", err)
	}

	subscribers, err := m.Subscribers.EstimatedDocumentCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count subscribers: %v", err)
	}

	totalUsers, err := m.Users.EstimatedDocumentCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %v", err)
	}

	// Sum views server-side rather than pulling every post document over.
	pipeline := []bson.M{
		{"$group": bson.M{"_id": nil, "total": bson.M{"$sum": "$views"}}},
	}
	cursor, err := m.Posts.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate views: %v", err)
	}
	defer cursor.Close(ctx)

	var totalViews int64
	if cursor.Next(ctx) {
		var result struct {
			Total int64 `bson:"total"`
		}
		if err := cursor.Decode(&result); err != nil {
			return nil, fmt.Errorf("failed to decode view total: %v", err)
		}
		totalViews = result.Total
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("view aggregation failed: %v", err)
	}

	thirtyDaysAgo := time.Now().Add(-30 * 24 * time.Hour)
	newPosts, err := m.Posts.CountDocuments(ctx, bson.M{"createdat": bson.M{"$gte": thirtyDaysAgo}})
	if err != nil {
		return nil, fmt.Errorf("failed to count recent posts: %v", err)
	}

	return &DashboardStats{
		TotalPosts:  totalPosts,
		TotalViews:  totalViews,
		Subscribers: subscribers,
		TotalUsers:  totalUsers,
		NewPosts:    newPosts,
	}, nil
}
