package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-user-timezone/internal/application"
	repo "github.com/oksasatya/go-user-timezone/internal/domain/repository"
	"github.com/oksasatya/go-user-timezone/pkg/helpers"
	"github.com/oksasatya/go-user-timezone/pkg/response"
	"github.com/oksasatya/go-user-timezone/pkg/utz"
)

// Auth validates the access token and ensures an active session exists in Redis.
// On success it loads the user, sets userID in the Gin context, and binds the
// user into the request context so downstream localization can pick it up.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager, users repo.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("access_token")
		if err != nil || token == "" {
			resp := response.Error[any](c, http.StatusUnauthorized, "missing access token", nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			resp := response.Error[any](c, http.StatusUnauthorized, "invalid access token", err.Error())
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}

		ctx := c.Request.Context()
		var sess application.Session
		found, err := helpers.RedisGetJSON(ctx, rdb, "user:session:"+claims.UserID, &sess)
		if err != nil {
			resp := response.Error[any](c, http.StatusInternalServerError, "session lookup failed", err.Error())
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}
		if !found {
			resp := response.Error[any](c, http.StatusUnauthorized, "session not found", nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}

		user, err := users.GetByID(ctx, claims.UserID)
		if err != nil || user == nil {
			resp := response.Error[any](c, http.StatusUnauthorized, "user not found", nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}

		c.Set("userID", user.ID)
		c.Set("userName", user.Name)
		c.Set("userEmail", user.Email)
		utz.RequestUser(func(*gin.Context) any { return user })(c)
	}
}

// OptionalAuth binds the request user when a valid token and session are
// present, and otherwise lets the request through anonymously.
func OptionalAuth(rdb *redis.Client, jwt *helpers.JWTManager, users repo.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("access_token")
		if err != nil || token == "" {
			c.Next()
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			c.Next()
			return
		}
		ctx := c.Request.Context()
		if _, err := rdb.Get(ctx, "user:session:"+claims.UserID).Result(); err != nil {
			c.Next()
			return
		}
		user, err := users.GetByID(ctx, claims.UserID)
		if err != nil || user == nil {
			c.Next()
			return
		}
		c.Set("userID", user.ID)
		utz.RequestUser(func(*gin.Context) any { return user })(c)
	}
}
