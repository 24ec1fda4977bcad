package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"homeforge/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestFailWritesStatusAndMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

	Fail(c, ErrInvalidRequest.WithTips("Title is required"))

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body ResponseBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "Title is required", body.Error)
	require.True(t, c.IsAborted())
}

func TestFailHidesOriginInRelease(t *testing.T) {
	c := config.Default()
	c.Mode = config.ModeRelease
	config.Set(c)
	t.Cleanup(func() { config.Set(config.Default()) })

	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

	Fail(ctx, ErrNotFound.WithOrigin(errors.New("record not found")))

	require.Equal(t, http.StatusNotFound, w.Code)
	require.NotContains(t, w.Body.String(), "record not found")
}

func TestFailWrapsPlainErrors(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

	Fail(c, errors.New("boom"))

	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestErrorIsComparesCode(t *testing.T) {
	err := ErrForbidden.WithTips("Cannot update other users")
	require.ErrorIs(t, err, ErrForbidden)
	require.NotErrorIs(t, err, ErrUnauthorized)

	wrapped := ErrDatabase.WithOrigin(errors.New("disk full"))
	require.NotNil(t, wrapped.StackTrace())
	require.Equal(t, "Database error", wrapped.Message)
}
