package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-reorder-service/internal/application"
	"github.com/oksasatya/go-reorder-service/internal/domain/entity"
	"github.com/oksasatya/go-reorder-service/pkg/helpers"
	"github.com/oksasatya/go-reorder-service/pkg/response"
)

const (
	CtxUserIDKey = "userID"
	CtxUserKey   = "user"
)

type userCtxKey struct{}

// Gate is the single authentication point for protected routes. It reads the
// access token from "Authorization: Bearer" or the access_token cookie,
// verifies it and resolves the user. On success the user is available through
// CurrentUser and UserFromContext.
func Gate(tokens *application.TokenService, users *application.UserService, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			unauthorized(c, "missing access token")
			return
		}
		uid, err := tokens.VerifyAccess(token)
		if err != nil {
			msg := "invalid access token"
			if errors.Is(err, helpers.ErrTokenExpired) {
				msg = "access token expired"
			}
			unauthorized(c, msg)
			return
		}
		u, err := users.GetProfile(c.Request.Context(), uid)
		if err != nil {
			if !errors.Is(err, application.ErrUserNotFound) {
				logger.WithError(err).WithField("request_id", c.GetString(CtxRequestIDKey)).Error("resolve user failed")
				response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
				c.Abort()
				return
			}
			unauthorized(c, "user no longer exists")
			return
		}

		c.Set(CtxUserIDKey, u.ID)
		c.Set(CtxUserKey, u)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), userCtxKey{}, u))
		c.Next()
	}
}

// CurrentUser returns the user attached by Gate.
func CurrentUser(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(CtxUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*entity.User)
	return u, ok && u != nil
}

// UserFromContext returns the user attached by Gate to the request context.
func UserFromContext(ctx context.Context) (*entity.User, bool) {
	u, ok := ctx.Value(userCtxKey{}).(*entity.User)
	return u, ok && u != nil
}

func bearerToken(c *gin.Context) string {
	if h := strings.TrimSpace(c.GetHeader("Authorization")); h != "" {
		scheme, tok, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(tok)
		}
		return ""
	}
	if tok, err := c.Cookie(helpers.AccessTokenCookie); err == nil {
		return tok
	}
	return ""
}

func unauthorized(c *gin.Context, msg string) {
	response.Error[any](c, http.StatusUnauthorized, msg, nil)
	c.Abort()
}
