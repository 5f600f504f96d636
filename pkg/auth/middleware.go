package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dropkit/dropkit/pkg/logging"
)

// Middleware returns a gin handler enforcing HTTP Basic authentication
// against the configured credential. With a nil credential every request is
// allowed through. Rejections carry a Basic challenge so clients know to
// retry with credentials, and never reveal which part was wrong.
func Middleware(configured *Credential, logger *logging.Logger) gin.HandlerFunc {
	if configured == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		var presented *Credential
		if user, pass, ok := c.Request.BasicAuth(); ok {
			presented = &Credential{Username: user, Password: pass}
		}

		if !Verify(configured, presented) {
			logger.Warn("rejected request with invalid credentials",
				"path", c.Request.URL.Path, "remote", c.ClientIP())
			c.Header("WWW-Authenticate", `Basic realm="dropkit"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid credentials",
			})
			return
		}

		c.Next()
	}
}
