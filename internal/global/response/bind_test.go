package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type bindSample struct {
	Name  string `json:"name" binding:"required,notblank,min=3"`
	Level string `json:"level" binding:"omitempty,oneof=low high"`
}

var bindSampleMessages = Messages{
	"Name":        "Name is required",
	"Name.min":    "Name is too short",
	"Level.oneof": "Invalid level",
}

func bindJSON(t *testing.T, body string) error {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	var req bindSample
	return c.ShouldBindJSON(&req)
}

func TestBindErrorMessages(t *testing.T) {
	cases := []struct {
		body, msg string
	}{
		{`{}`, "Name is required"},
		{`{"name":"   "}`, "Name is required"},
		{`{"name":"ab"}`, "Name is too short"},
		{`{"name":"abc","level":"mid"}`, "Invalid level"},
		{`{"level":"mid"}`, "Name is required"},
	}
	for _, tc := range cases {
		err := BindError(bindJSON(t, tc.body), bindSampleMessages)
		require.Equal(t, tc.msg, err.Message, tc.body)
		require.ErrorIs(t, err, ErrInvalidRequest)
	}

	require.NoError(t, bindJSON(t, `{"name":"abc","level":"high"}`))
}

func TestBindErrorFallsBackToGenericMessage(t *testing.T) {
	err := BindError(bindJSON(t, `{"name":`), bindSampleMessages)
	require.Equal(t, ErrInvalidRequest.Message, err.Message)

	err = BindError(errors.New("boom"), nil)
	require.Equal(t, int32(http.StatusBadRequest), err.Code)
}
