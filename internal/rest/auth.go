package rest

import (
	"net/http"

	"github.com/dfryer1193/skywrite/api"
	"github.com/gin-gonic/gin"
)

// Login authenticates against the publisher and stores the credential. Bad
// input is a 400; a rejected or timed-out login is a 401 with the reason.
func (a *Api) Login(c *gin.Context) {
	req := &api.LoginRequest{}
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	credential, err := a.scheduler.Login(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.FromDomainCredential(credential))
}

// GetCredential returns the stored credential, or null when none exists.
func (a *Api) GetCredential(c *gin.Context) {
	credential, err := a.scheduler.StoredCredential(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	if credential == nil {
		c.JSON(http.StatusOK, nil)
		return
	}

	c.JSON(http.StatusOK, api.FromDomainCredential(credential))
}
