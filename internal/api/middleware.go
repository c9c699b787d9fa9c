package api

import (
	"net/http"
	"strings"

	"jewelshop/internal/models"
	"jewelshop/internal/session"

	"github.com/gin-gonic/gin"
)

const sessionContextKey = "session"

// requireAuth resolves the bearer token into a request-scoped session.
func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Please login to continue",
			})
			return
		}

		sess, err := h.sessions.Get(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Please login to continue",
			})
			return
		}

		c.Set(sessionContextKey, sess)
		c.Next()
	}
}

// requireVendor gates the vendor portal routes.
func (h *Handler) requireVendor() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := currentSession(c)
		if sess == nil || sess.Role != models.RoleVendor || sess.VendorID == 0 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Vendor account required",
			})
			return
		}
		c.Next()
	}
}

func currentSession(c *gin.Context) *session.Session {
	v, ok := c.Get(sessionContextKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*session.Session)
	return sess
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
