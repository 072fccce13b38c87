package auth

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oggyb/matchmaker/internal/app"
	svcErr "github.com/oggyb/matchmaker/internal/errors"
	"github.com/oggyb/matchmaker/internal/storage"
)

// Registrar ties the signup and login endpoints into the HTTP router.
type Registrar struct {
	appCtx *app.AppContext
	photos *storage.PhotoStore
}

// NewRegistrar creates a new Registrar for the auth service.
func NewRegistrar(appCtx *app.AppContext, photos *storage.PhotoStore) *Registrar {
	return &Registrar{appCtx: appCtx, photos: photos}
}

// Register attaches the unauthenticated auth routes.
func (r *Registrar) Register(api *gin.RouterGroup) {
	service := NewService(r.appCtx, r.photos)

	group := api.Group("/auth")

	group.POST("/users", func(c *gin.Context) {
		in := SignupInput{
			Email:     c.PostForm("email"),
			Password:  c.PostForm("password"),
			FirstName: c.PostForm("first_name"),
			LastName:  c.PostForm("last_name"),
			Sex:       c.PostForm("sex"),
			BirthDate: c.PostForm("birth_date"),
			Tags:      c.PostFormArray("tags"),
		}

		fileHeader, err := c.FormFile("in_file")
		if err != nil {
			svcErr.Respond(c, svcErr.Validation("Profile photo is required"))
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			svcErr.Respond(c, svcErr.UpstreamIO("error during file uploading"))
			return
		}
		defer file.Close()

		// Read one byte past the cap so oversized uploads are caught
		// without buffering the whole payload.
		maxSize := r.appCtx.Config.Upload.MaxSize
		data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
		if err != nil {
			svcErr.Respond(c, svcErr.UpstreamIO("error during file uploading"))
			return
		}
		in.PhotoName = fileHeader.Filename
		in.PhotoData = data

		created, err := service.Signup(c.Request.Context(), in)
		if err != nil {
			svcErr.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, created)
	})

	group.POST("/token/login", func(c *gin.Context) {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			svcErr.Respond(c, svcErr.Unauthorized("Invalid credentials"))
			return
		}

		token, err := service.Login(c.Request.Context(), body.Email, body.Password)
		if err != nil {
			svcErr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, token)
	})
}
