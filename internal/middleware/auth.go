package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"roombooking/internal/domain"
	jwtsvc "roombooking/internal/pkg/jwt"
	"roombooking/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// JWTAuth derives the request principal from a bearer token minted by the
// identity service. A request with no credentials at all is redirected to the
// login endpoint with the originally requested path preserved in "next"; a
// request carrying a broken or expired token gets a 401 instead.
func JWTAuth(jwt *jwtsvc.Service, loginURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			redirectToLogin(c, loginURL)
			return
		}

		if !strings.HasPrefix(h, "Bearer ") {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid Authorization header")
			c.Abort()
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		if tokenStr == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Empty token")
			c.Abort()
			return
		}

		claims, err := jwt.ValidateToken(tokenStr)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("is_staff", claims.IsStaff)

		c.Next()
	}
}

func redirectToLogin(c *gin.Context, loginURL string) {
	next := url.QueryEscape(c.Request.URL.RequestURI())
	c.Redirect(http.StatusFound, loginURL+"?next="+next)
	c.Abort()
}

// CurrentUser reads the principal the auth middleware stored on the context.
func CurrentUser(c *gin.Context) domain.User {
	return domain.User{
		ID:       c.GetInt64("user_id"),
		Username: c.GetString("username"),
		IsStaff:  c.GetBool("is_staff"),
	}
}
