package test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"homeforge/internal/global/jwt"
	"homeforge/internal/global/middleware"
	"homeforge/internal/global/session"
	"homeforge/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// NewEngine mounts each router under /api, as the server does.
func NewEngine(t *testing.T, register ...func(*gin.RouterGroup)) *gin.Engine {
	t.Helper()
	r := gin.New()
	r.Use(middleware.Recovery())
	api := r.Group("/api")
	for _, fn := range register {
		fn(api)
	}
	return r
}

// Client sends requests to an engine and carries cookies like a browser would.
type Client struct {
	t       *testing.T
	engine  http.Handler
	cookies map[string]*http.Cookie
}

func NewClient(t *testing.T, engine http.Handler) *Client {
	return &Client{t: t, engine: engine, cookies: make(map[string]*http.Cookie)}
}

// LoginAs gives the client a live session for user without going through the login route.
func (c *Client) LoginAs(user model.User) *Client {
	c.t.Helper()
	s, err := session.Default.Create(context.Background(), user.ID, session.MaxAge())
	require.NoError(c.t, err)
	token, err := jwt.CreateToken(s.ID, s.UserID, s.ExpiresAt)
	require.NoError(c.t, err)
	c.SetCookie(&http.Cookie{Name: "homeforge_session", Value: token})
	return c
}

func (c *Client) Cookie(name string) *http.Cookie {
	return c.cookies[name]
}

func (c *Client) SetCookie(ck *http.Cookie) {
	c.cookies[ck.Name] = &http.Cookie{Name: ck.Name, Value: ck.Value}
}

func (c *Client) T() *testing.T {
	return c.t
}

func (c *Client) send(req *http.Request) *httptest.ResponseRecorder {
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	c.engine.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge < 0 || ck.Value == "" {
			delete(c.cookies, ck.Name)
		} else {
			c.cookies[ck.Name] = ck
		}
	}
	return w
}

// Do sends body as JSON. A string body is sent verbatim.
func (c *Client) Do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req)
}

// File is one part of a multipart upload.
type File struct {
	Name    string
	Content []byte
}

// Upload posts files under field plus plain form values.
func (c *Client) Upload(path, field string, files []File, values map[string]string) *httptest.ResponseRecorder {
	c.t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range values {
		require.NoError(c.t, mw.WriteField(k, v))
	}
	for _, f := range files {
		w, err := mw.CreateFormFile(field, f.Name)
		require.NoError(c.t, err)
		_, err = w.Write(f.Content)
		require.NoError(c.t, err)
	}
	require.NoError(c.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.send(req)
}

// Decode unmarshals the response body into T.
func Decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

// RequireError asserts the status and the {"error": ...} message.
func RequireError(t *testing.T, w *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
	body := Decode[map[string]any](t, w)
	if message != "" {
		require.Equal(t, message, body["error"])
	} else {
		require.NotEmpty(t, body["error"])
	}
}
