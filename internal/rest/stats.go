package rest

import (
	"net/http"

	"github.com/dfryer1193/skywrite/api"
	"github.com/gin-gonic/gin"
)

// GetStats returns the estimated engagement summary.
func (a *Api) GetStats(c *gin.Context) {
	stats, err := a.scheduler.Statistics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	out := api.Stats{
		TotalPosts:     stats.TotalPosts,
		PublishedPosts: stats.PublishedPosts,
		ScheduledPosts: stats.ScheduledPosts,
		Drafts:         stats.Drafts,
		EstimatedLikes: stats.EstimatedLikes,
		EstimatedViews: stats.EstimatedViews,
		Performance:    make([]api.PostPerformance, 0, len(stats.Performance)),
	}
	for _, perf := range stats.Performance {
		out.Performance = append(out.Performance, api.PostPerformance{
			Post:  api.FromDomainPost(perf.Post),
			Likes: perf.Likes,
			Views: perf.Views,
		})
	}

	c.JSON(http.StatusOK, out)
}
