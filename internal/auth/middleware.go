package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/oggyb/matchmaker/internal/app"
	"github.com/oggyb/matchmaker/internal/db"
	svcErr "github.com/oggyb/matchmaker/internal/errors"
	"github.com/oggyb/matchmaker/internal/repository"
)

// ContextUserKey is the gin context key the middleware stores the
// authenticated *db.User under.
const ContextUserKey = "current_user"

// lastOnlineRefresh throttles last-seen updates so every authenticated
// request does not write the users table.
const lastOnlineRefresh = 30 * time.Minute

const credentialsMessage = "Could not validate credentials"

// Middleware authenticates the bearer token, loads the requester and
// refreshes their last-online stamp. Every failure mode answers with
// the same 401 so token and account state cannot be probed.
func Middleware(appCtx *app.AppContext) gin.HandlerFunc {
	users := repository.NewUserRepository(appCtx.DB)

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			svcErr.Respond(c, svcErr.Unauthorized(credentialsMessage))
			return
		}

		userID, err := ParseAccessToken(strings.TrimPrefix(header, "Bearer "), appCtx.Config.JWT.Secret)
		if err != nil {
			svcErr.Respond(c, svcErr.Unauthorized(credentialsMessage))
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				svcErr.Respond(c, svcErr.Unauthorized(credentialsMessage))
				return
			}
			svcErr.Respond(c, err)
			return
		}

		now := time.Now().UTC()
		if user.LastOnline.Before(now.Add(-lastOnlineRefresh)) {
			if err := users.TouchLastOnline(c.Request.Context(), user.ID, now); err != nil {
				appCtx.Logger.Warn("last_online refresh failed", "user", user.ID, "err", err)
			} else {
				user.LastOnline = now
			}
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user placed by Middleware.
func CurrentUser(c *gin.Context) (*db.User, bool) {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*db.User)
	return user, ok
}
