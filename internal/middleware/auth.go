package middleware

import (
	"errors"
	"strings"

	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/store"
	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/util"

	"github.com/gin-gonic/gin"
)

// Auth validates the session JWT and puts the current operator into the
// request context under "currentUser".
func Auth(jwtSecret string, s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string

		// Header: Authorization: Bearer xxx
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenStr = parts[1]
			}
		}

		// query parameter ?token=xxx, for downloads where a custom header
		// is awkward
		if tokenStr == "" {
			tokenStr = c.Query("token")
		}

		if tokenStr == "" {
			util.Unauthorized(c, "not logged in")
			c.Abort()
			return
		}

		claims, err := util.VerifySession(jwtSecret, tokenStr)
		if err != nil {
			util.Unauthorized(c, "session expired, please log in again")
			c.Abort()
			return
		}

		user, err := s.GetUser(claims.OperatorID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				util.Unauthorized(c, "user no longer exists")
			} else {
				util.ServerError(c, "could not load user")
			}
			c.Abort()
			return
		}

		c.Set("currentUser", user)
		c.Next()
	}
}
