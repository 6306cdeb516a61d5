package application

import (
	"context"

	"github.com/dfryer1193/skywrite/scheduler/domain"
)

// Engagement numbers are estimates, not data fetched from the publisher.
// Each published post is assumed to earn a fixed amount of engagement.
const (
	estimatedLikesPerPost = 24
	estimatedViewsPerPost = 156
)

// Statistics is an illustrative engagement summary over the stored posts.
type Statistics struct {
	TotalPosts     int
	PublishedPosts int
	ScheduledPosts int
	Drafts         int
	EstimatedLikes int
	EstimatedViews int
	Performance    []PostPerformance
}

// PostPerformance is the estimated engagement of a single published post.
type PostPerformance struct {
	Post  *domain.Post
	Likes int
	Views int
}

// Statistics summarizes the store's contents with estimated engagement for
// every published post.
func (s *SchedulerService) Statistics(ctx context.Context) (*Statistics, error) {
	posts, err := s.store.ListPosts(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Statistics{
		TotalPosts:  len(posts),
		Performance: make([]PostPerformance, 0),
	}

	for _, post := range posts {
		switch {
		case post.IsDraft:
			stats.Drafts++
		case post.Published:
			stats.PublishedPosts++
			stats.EstimatedLikes += estimatedLikesPerPost
			stats.EstimatedViews += estimatedViewsPerPost
			stats.Performance = append(stats.Performance, PostPerformance{
				Post:  post,
				Likes: estimatedLikesPerPost,
				Views: estimatedViewsPerPost,
			})
		case post.ScheduledFor != nil:
			stats.ScheduledPosts++
		}
	}

	return stats, nil
}
