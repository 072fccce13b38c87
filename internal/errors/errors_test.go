package errors_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	svcErr "github.com/oggyb/matchmaker/internal/errors"
)

func TestIsKind(t *testing.T) {
	err := svcErr.Duplicate("Email already taken")
	assert.True(t, svcErr.IsKind(err, svcErr.KindDuplicate))
	assert.False(t, svcErr.IsKind(err, svcErr.KindValidation))
	assert.False(t, svcErr.IsKind(nil, svcErr.KindDuplicate))
	assert.False(t, svcErr.IsKind(assert.AnError, svcErr.KindDuplicate))
}

func TestMap(t *testing.T) {
	// already-typed errors pass through untouched
	typed := svcErr.SelfAction("You cannot match with yourself")
	assert.Equal(t, typed, svcErr.Map(typed))

	assert.True(t, svcErr.IsKind(svcErr.Map(gorm.ErrRecordNotFound), svcErr.KindNotFound))
	assert.True(t, svcErr.IsKind(svcErr.Map(gorm.ErrDuplicatedKey), svcErr.KindDuplicate))
	assert.True(t, svcErr.IsKind(svcErr.Map(context.DeadlineExceeded), svcErr.KindUpstreamIO))
	assert.True(t, svcErr.IsKind(svcErr.Map(assert.AnError), svcErr.KindUpstreamIO))
	assert.NoError(t, svcErr.Map(nil))
}

func TestStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, svcErr.Status(svcErr.Validation("x")))
	assert.Equal(t, http.StatusBadRequest, svcErr.Status(svcErr.Duplicate("x")))
	assert.Equal(t, http.StatusBadRequest, svcErr.Status(svcErr.NotFound("x")))
	assert.Equal(t, http.StatusUnauthorized, svcErr.Status(svcErr.Unauthorized("x")))
	assert.Equal(t, http.StatusInternalServerError, svcErr.Status(svcErr.UpstreamIO("x")))
	assert.Equal(t, http.StatusInternalServerError, svcErr.Status(assert.AnError))
}

func respond(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	svcErr.Respond(c, err)
	return rec
}

func TestRespond(t *testing.T) {
	rec := respond(svcErr.Validation("You can upload only images"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"detail": "You can upload only images"}`, rec.Body.String())
}

func TestRespondUnauthorizedChallenge(t *testing.T) {
	rec := respond(svcErr.Unauthorized("Invalid credentials"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	assert.JSONEq(t, `{"detail": "Invalid credentials"}`, rec.Body.String())
}

func TestRespondHidesInternals(t *testing.T) {
	rec := respond(assert.AnError)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"detail": "internal error"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
}
