package clients

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oggyb/matchmaker/internal/app"
	"github.com/oggyb/matchmaker/internal/auth"
	"github.com/oggyb/matchmaker/internal/db"
	svcErr "github.com/oggyb/matchmaker/internal/errors"
	"github.com/oggyb/matchmaker/internal/repository"
	"github.com/oggyb/matchmaker/internal/utils/pagination"
)

const dateLayout = "2006-01-02"

// Registrar ties the clients endpoints into the HTTP router.
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the clients service.
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the clients routes to the authenticated group.
func (r *Registrar) Register(api *gin.RouterGroup) {
	service := NewService(r.appCtx)

	group := api.Group("/clients")
	group.Use(auth.Middleware(r.appCtx))

	group.GET("/", func(c *gin.Context) {
		requester, ok := auth.CurrentUser(c)
		if !ok {
			svcErr.Respond(c, svcErr.Unauthorized("Could not validate credentials"))
			return
		}

		filter, err := parseFilter(c)
		if err != nil {
			svcErr.Respond(c, err)
			return
		}
		params := parsePagination(c)

		page, err := service.ListCandidates(c.Request.Context(), requester, filter, params)
		if err != nil {
			svcErr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	})

	group.POST("/update_coordinates", func(c *gin.Context) {
		requester, ok := auth.CurrentUser(c)
		if !ok {
			svcErr.Respond(c, svcErr.Unauthorized("Could not validate credentials"))
			return
		}

		var body Coordinates
		if err := c.ShouldBindJSON(&body); err != nil {
			svcErr.Respond(c, svcErr.Validation("Invalid coordinates payload"))
			return
		}

		coords, err := service.UpdateCoordinates(c.Request.Context(), requester, body)
		if err != nil {
			svcErr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, coords)
	})

	group.GET("/me", func(c *gin.Context) {
		requester, ok := auth.CurrentUser(c)
		if !ok {
			svcErr.Respond(c, svcErr.Unauthorized("Could not validate credentials"))
			return
		}

		profile, err := service.Me(c.Request.Context(), requester)
		if err != nil {
			svcErr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, profile)
	})
}

// parseFilter reads the recognized query predicates. Field naming
// follows the established API surface: exact match by field name,
// `__ilike` for case-insensitive substring, `__lt`/`__gt` for bounds.
func parseFilter(c *gin.Context) (repository.CandidateFilter, error) {
	filter := repository.CandidateFilter{
		FirstName:     c.Query("first_name"),
		FirstNameLike: c.Query("first_name__ilike"),
		LastName:      c.Query("last_name"),
		LastNameLike:  c.Query("last_name__ilike"),
		Search:        c.Query("search"),
	}

	if raw := c.Query("sex"); raw != "" {
		switch db.Sex(raw) {
		case db.SexMale, db.SexFemale:
			filter.Sex = db.Sex(raw)
		default:
			return filter, svcErr.Validation("sex must be male or female")
		}
	}

	if raw := c.Query("birth_date__lt"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return filter, svcErr.Validation("birth_date__lt must be YYYY-MM-DD")
		}
		filter.BirthDateLT = &t
	}
	if raw := c.Query("birth_date__gt"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return filter, svcErr.Validation("birth_date__gt must be YYYY-MM-DD")
		}
		filter.BirthDateGT = &t
	}

	if raw := c.Query("distance__lt"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filter, svcErr.Validation("distance__lt must be a number")
		}
		filter.DistanceLT = &v
	}
	if raw := c.Query("distance__gt"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filter, svcErr.Validation("distance__gt must be a number")
		}
		filter.DistanceGT = &v
	}

	if raw := c.Query("order_by"); raw != "" {
		filter.OrderBy = strings.Split(raw, ",")
	}

	return filter, nil
}

func parsePagination(c *gin.Context) pagination.Params {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "50"))
	return pagination.Normalize(page, size)
}
