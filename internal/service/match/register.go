package match

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oggyb/matchmaker/internal/app"
	"github.com/oggyb/matchmaker/internal/auth"
	svcErr "github.com/oggyb/matchmaker/internal/errors"
	"github.com/oggyb/matchmaker/internal/notify"
)

// Registrar ties the match endpoints into the HTTP router.
type Registrar struct {
	appCtx   *app.AppContext
	notifier notify.Notifier
}

// NewRegistrar creates a new Registrar for the match service.
func NewRegistrar(appCtx *app.AppContext, notifier notify.Notifier) *Registrar {
	return &Registrar{appCtx: appCtx, notifier: notifier}
}

// Register attaches the match routes to the authenticated group.
func (r *Registrar) Register(api *gin.RouterGroup) {
	service := NewService(r.appCtx, r.notifier)

	group := api.Group("/clients")
	group.Use(auth.Middleware(r.appCtx))
	group.POST("/:id/match", func(c *gin.Context) {
		actor, ok := auth.CurrentUser(c)
		if !ok {
			svcErr.Respond(c, svcErr.Unauthorized("Could not validate credentials"))
			return
		}

		result, err := service.Like(c.Request.Context(), actor, c.Param("id"))
		if err != nil {
			svcErr.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, result)
	})
}
