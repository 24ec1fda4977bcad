package ping

import (
	"net/http"
	"testing"

	"homeforge/test"

	"github.com/stretchr/testify/require"
)

func TestPing(t *testing.T) {
	test.Setup(t)
	(&ModulePing{}).Init()
	client := test.NewClient(t, test.NewEngine(t, (&ModulePing{}).InitRouter))

	w := client.Do(http.MethodGet, "/api/ping", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"message":"pong","version":"1.0.0"}`, w.Body.String())
}
