package activity

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"homeforge/config"
	"homeforge/internal/global/database"
	"homeforge/internal/model"
	"homeforge/test"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (model.User, *test.Client) {
	db := test.Setup(t)
	(&ModuleActivity{}).Init()
	user := test.CreateUser(t, db, "alice", true)
	engine := test.NewEngine(t, (&ModuleActivity{}).InitRouter)
	return user, test.NewClient(t, engine).LoginAs(user)
}

func TestRecentJoinsUserAndProject(t *testing.T) {
	user, client := setup(t)

	project := model.Project{Title: "Paint fence", Priority: model.PriorityHigh, Status: model.StatusPlanning}
	require.NoError(t, database.DB.Create(&project).Error)
	_, err := Record(database.DB, &project.ID, &user.ID, model.ActionCreated, `Created project "Paint fence"`)
	require.NoError(t, err)
	_, err = Record(database.DB, nil, nil, "note", "system")
	require.NoError(t, err)

	w := client.Do(http.MethodGet, "/api/projects/activity/recent", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := test.Decode[[]Entry](t, w)
	require.Len(t, list, 2)

	require.Equal(t, "system", list[0].Details)
	require.Nil(t, list[0].ProjectTitle)
	require.Nil(t, list[0].UserName)

	require.Equal(t, model.ActionCreated, list[1].Action)
	require.Equal(t, "Paint fence", *list[1].ProjectTitle)
	require.Equal(t, user.DisplayName, *list[1].UserName)
	require.Equal(t, user.AvatarColor, *list[1].AvatarColor)
}

func TestRecentLimit(t *testing.T) {
	_, _ = setup(t)
	for i := 0; i < RecentLimit+5; i++ {
		_, err := Record(database.DB, nil, nil, "note", fmt.Sprintf("entry %d", i))
		require.NoError(t, err)
	}
	list, err := Recent(context.Background())
	require.NoError(t, err)
	require.Len(t, list, RecentLimit)
	require.Equal(t, fmt.Sprintf("entry %d", RecentLimit+4), list[0].Details)
}

func TestRecentRequiresAuth(t *testing.T) {
	_, _ = setup(t)
	engine := test.NewEngine(t, (&ModuleActivity{}).InitRouter)
	w := test.NewClient(t, engine).Do(http.MethodGet, "/api/projects/activity/recent", nil)
	test.RequireError(t, w, http.StatusUnauthorized, "Authentication required")
}

func TestHub(t *testing.T) {
	h := NewHub()
	require.False(t, h.HasSubscribers())

	a, cancelA := h.Subscribe()
	b, cancelB := h.Subscribe()
	require.True(t, h.HasSubscribers())

	h.Publish(Entry{ID: "1"})
	require.Equal(t, "1", (<-a).ID)
	require.Equal(t, "1", (<-b).ID)

	cancelA()
	cancelA()
	_, open := <-a
	require.False(t, open)

	for i := 0; i < subscriberBuffer+5; i++ {
		h.Publish(Entry{ID: "x"})
	}
	require.Len(t, b, subscriberBuffer)
	cancelB()
	require.False(t, h.HasSubscribers())
}

func TestStream(t *testing.T) {
	user, client := setup(t)
	engine := test.NewEngine(t, (&ModuleActivity{}).InitRouter)
	srv := httptest.NewServer(engine)
	defer srv.Close()

	header := http.Header{}
	header.Set("Cookie", client.Cookie("homeforge_session").String())
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/activity/stream"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	defer conn.Close()
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	require.Eventually(t, DefaultHub.HasSubscribers, time.Second, 10*time.Millisecond)

	row, err := Record(database.DB, nil, &user.ID, "note", "hello")
	require.NoError(t, err)
	Publish(context.Background(), row)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var e Entry
	require.NoError(t, conn.ReadJSON(&e))
	require.Equal(t, row.ID, e.ID)
	require.Equal(t, "hello", e.Details)
	require.Equal(t, user.DisplayName, *e.UserName)
}

func TestStreamRejectsAnonymous(t *testing.T) {
	_, _ = setup(t)
	srv := httptest.NewServer(test.NewEngine(t, (&ModuleActivity{}).InitRouter))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/activity/stream"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCheckOrigin(t *testing.T) {
	cfg := config.Default()
	config.Set(cfg)
	t.Cleanup(func() { config.Set(config.Default()) })

	req := func(origin string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "http://homeforge.lan:3000/api/activity/stream", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}

	require.True(t, checkOrigin(req("")))
	require.True(t, checkOrigin(req("http://homeforge.lan:3000")))
	require.True(t, checkOrigin(req("http://HomeForge.lan:3000")))
	require.False(t, checkOrigin(req("https://evil.example")))
	require.False(t, checkOrigin(req("http://homeforge.lan:4000")))

	cfg.Cors.Origins = []string{"http://localhost:5173"}
	require.True(t, checkOrigin(req("http://localhost:5173")))
	require.False(t, checkOrigin(req("https://evil.example")))
}
