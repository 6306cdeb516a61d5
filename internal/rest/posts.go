package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dfryer1193/skywrite/api"
	"github.com/dfryer1193/skywrite/internal/metrics"
	"github.com/dfryer1193/skywrite/scheduler/domain"
	"github.com/gin-gonic/gin"
)

// GetPosts returns the main feed: every non-draft post in insertion order.
func (a *Api) GetPosts(c *gin.Context) {
	posts, err := a.scheduler.ListPosts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.FromDomainPosts(posts))
}

// GetDrafts returns draft posts only.
func (a *Api) GetDrafts(c *gin.Context) {
	drafts, err := a.scheduler.ListDrafts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.FromDomainPosts(drafts))
}

// CreatePost runs the publish workflow: deferred storage when scheduledFor
// is present, otherwise an immediate publish against the remote API.
func (a *Api) CreatePost(c *gin.Context) {
	req := &api.CreatePostRequest{}
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := a.scheduler.CreatePost(c.Request.Context(), req.Content, req.ScheduledFor)
	if err != nil {
		a.countPublishError(err)
		respondError(c, err)
		return
	}

	if post.Published {
		a.metrics.PublishAttempts.WithLabelValues(metrics.OutcomePublished).Inc()
	} else {
		a.metrics.PublishAttempts.WithLabelValues(metrics.OutcomeDeferred).Inc()
	}

	c.JSON(http.StatusOK, api.FromDomainPost(post))
}

// CreateDraft stores content as a draft; no publisher calls are made.
func (a *Api) CreateDraft(c *gin.Context) {
	req := &api.CreateDraftRequest{}
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft, err := a.scheduler.CreateDraft(c.Request.Context(), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.FromDomainPost(draft))
}

// PromoteDraft publishes a draft immediately and removes the draft row once
// the publish is confirmed.
func (a *Api) PromoteDraft(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	post, err := a.scheduler.PromoteDraft(c.Request.Context(), id)
	if err != nil {
		a.countPublishError(err)
		respondError(c, err)
		return
	}

	a.metrics.PublishAttempts.WithLabelValues(metrics.OutcomePublished).Inc()
	c.JSON(http.StatusOK, api.FromDomainPost(post))
}

// DeleteDraft removes a draft. Deleting an absent id still returns 200.
func (a *Api) DeleteDraft(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := a.scheduler.DeleteDraft(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

func (a *Api) countPublishError(err error) {
	var publishErr *domain.PublishError
	switch {
	case errors.Is(err, domain.ErrNotAuthenticated):
		a.metrics.PublishAttempts.WithLabelValues(metrics.OutcomeUnauthenticated).Inc()
	case errors.As(err, &publishErr):
		a.metrics.PublishAttempts.WithLabelValues(metrics.OutcomeFailed).Inc()
	}
}
