package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dfryer1193/skywrite/internal/metrics"
	"github.com/dfryer1193/skywrite/scheduler/application"
	"github.com/dfryer1193/skywrite/scheduler/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Api holds the HTTP handlers over the scheduler service.
type Api struct {
	scheduler *application.SchedulerService
	metrics   *metrics.Metrics
}

// NewApi registers all routes on the given engine.
func NewApi(router *gin.Engine, scheduler *application.SchedulerService, m *metrics.Metrics) *Api {
	a := &Api{
		scheduler: scheduler,
		metrics:   m,
	}

	router.Use(a.countRequests)

	auth := router.Group("/api/auth")
	{
		auth.POST("", a.Login)
		auth.GET("", a.GetCredential)
	}

	posts := router.Group("/api/posts")
	{
		posts.GET("", a.GetPosts)
		posts.POST("", a.CreatePost)
		posts.GET("/drafts", a.GetDrafts)
		posts.POST("/draft", a.CreateDraft)
		posts.POST("/draft/:id/publish", a.PromoteDraft)
		posts.DELETE("/draft/:id", a.DeleteDraft)
	}

	router.GET("/api/stats", a.GetStats)
	router.GET("/healthz", a.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return a
}

func (a *Api) countRequests(c *gin.Context) {
	c.Next()

	path := c.FullPath()
	if path == "" {
		path = "unmatched"
	}
	a.metrics.HTTPRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
}

func (a *Api) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondError maps domain errors onto HTTP statuses. Transport errors from
// the publisher never reach here untranslated; anything unrecognized is a
// plain 500.
func respondError(c *gin.Context, err error) {
	var authErr *domain.AuthError
	var publishErr *domain.PublishError

	switch {
	case errors.Is(err, domain.ErrEmptyContent):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrPostNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &authErr):
		c.JSON(http.StatusUnauthorized, gin.H{"error": authErr.Reason, "timeout": authErr.Timeout})
	case errors.As(err, &publishErr):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to publish post"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
