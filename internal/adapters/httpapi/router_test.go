package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"devhub/internal/adapters/database/databasetest"
	redisadapter "devhub/internal/adapters/redis"
	"devhub/internal/adapters/viewtoken"
	"devhub/internal/config"
	commentapp "devhub/internal/core/comment/service"
	likeapp "devhub/internal/core/like/service"
	notificationapp "devhub/internal/core/notification/service"
	postapp "devhub/internal/core/post/service"
	userapp "devhub/internal/core/user/service"
	viewapp "devhub/internal/core/view/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const viewCookieName = "post_views"

type testAPI struct {
	t      *testing.T
	engine *gin.Engine
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, _ := databasetest.Store(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := zap.NewNop()
	r := store.Repositories()
	users := userapp.NewUserService(r.Users, []byte("jwt"), logger)
	notifications := notificationapp.NewNotificationService(r.Notifications, redisadapter.NewUnreadCacheRedis(client, time.Minute), logger)

	engine := SetupRoutes(UseCases{
		Users:         users,
		Actors:        users,
		Posts:         postapp.NewPostService(store, logger),
		Views:         viewapp.NewViewService(store, viewtoken.NewCodecJWT([]byte("views")), 24*time.Hour, config.DefaultViewMaxEntries, logger),
		Likes:         likeapp.NewLikeService(store, notifications, logger),
		Comments:      commentapp.NewCommentService(store, notifications, logger),
		Notifications: notifications,
		ViewCookie:    ViewCookie{Name: viewCookieName, MaxAge: 86400},
	})
	return &testAPI{t: t, engine: engine}
}

func (a *testAPI) do(method, path, token string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// signup registers and logs in, returning the bearer token.
func (a *testAPI) signup(name string) string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/register", "", map[string]string{
		"displayName": name, "email": name + "@example.com", "password": "password-" + name,
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	w = a.do(http.MethodPost, "/login", "", map[string]string{"email": name + "@example.com", "password": "password-" + name})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	return decode(a.t, w)["token"].(string)
}

func (a *testAPI) createPost(token string) string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/posts", token, map[string]interface{}{"title": "t", "content": "c", "kind": "study"})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return decode(a.t, w)["id"].(string)
}

func viewCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == viewCookieName {
			return c
		}
	}
	return nil
}

func TestWriteEndpointsRequireAuth(t *testing.T) {
	api := newTestAPI(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/posts"},
		{http.MethodPost, "/posts/00000000-0000-0000-0000-000000000001/like"},
		{http.MethodPost, "/comments"},
		{http.MethodDelete, "/comments/00000000-0000-0000-0000-000000000001"},
		{http.MethodGet, "/notifications"},
	} {
		w := api.do(tc.method, tc.path, "", map[string]string{})
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tc.method, tc.path)
	}

	// an invalid token is treated as anonymous, not as a server error
	w := api.do(http.MethodPost, "/posts", "garbage", map[string]string{"title": "t", "content": "c"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLikeFlowOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	author := api.signup("author")
	fan := api.signup("fan")
	postID := api.createPost(author)

	w := api.do(http.MethodPost, "/posts/"+postID+"/like", fan, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, true, body["liked"])
	assert.Equal(t, float64(1), body["newCount"])

	w = api.do(http.MethodGet, "/posts/"+postID+"/like", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Equal(t, false, body["liked"], "anonymous readers never like")
	assert.Equal(t, float64(1), body["count"])

	w = api.do(http.MethodGet, "/notifications/unread-count", author, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["unread"])

	w = api.do(http.MethodPost, "/notifications/read-all", author, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = api.do(http.MethodGet, "/notifications/unread-count", author, nil)
	assert.Equal(t, float64(0), decode(t, w)["unread"])

	w = api.do(http.MethodPost, "/posts/00000000-0000-0000-0000-000000000001/like", fan, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCommentFlowOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	author := api.signup("author")
	other := api.signup("other")
	postID := api.createPost(author)

	w := api.do(http.MethodPost, "/comments", other, map[string]string{"postId": postID})
	assert.Equal(t, http.StatusBadRequest, w.Code, "missing content")

	w = api.do(http.MethodPost, "/comments", other, map[string]string{"postId": "00000000-0000-0000-0000-000000000001", "content": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(http.MethodPost, "/comments", other, map[string]string{"postId": postID, "content": "hi"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	commentID := created["id"].(string)
	assert.Equal(t, float64(0), created["replyCount"])
	assert.Equal(t, float64(0), created["likeCount"])

	w = api.do(http.MethodPost, "/comments", author, map[string]string{"postId": postID, "content": "yo", "parentId": commentID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = api.do(http.MethodDelete, "/comments/"+commentID, author, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(http.MethodPut, "/comments/"+commentID, author, map[string]string{"content": "mine now"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(http.MethodDelete, "/comments/"+commentID, other, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "comment deleted", decode(t, w)["message"])

	w = api.do(http.MethodGet, "/posts/"+postID+"/comments", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	comments := decode(t, w)["comments"].([]interface{})
	require.Len(t, comments, 1)
	tomb := comments[0].(map[string]interface{})
	assert.Equal(t, true, tomb["deleted"])
	assert.Equal(t, "[deleted]", tomb["content"])

	w = api.do(http.MethodGet, "/comments/"+commentID+"/replies", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["comments"].([]interface{}), 1)

	w = api.do(http.MethodDelete, "/comments/00000000-0000-0000-0000-000000000001", other, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetPostCountsViewOncePerCookie(t *testing.T) {
	api := newTestAPI(t)
	author := api.signup("author")
	postID := api.createPost(author)

	w := api.do(http.MethodGet, "/posts/"+postID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["viewCount"])
	cookie := viewCookie(w)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	w = api.do(http.MethodGet, "/posts/"+postID, "", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["viewCount"])

	// a tampered cookie counts as a first view instead of failing the read
	w = api.do(http.MethodGet, "/posts/"+postID, "", nil, &http.Cookie{Name: viewCookieName, Value: "tampered"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decode(t, w)["viewCount"])

	w = api.do(http.MethodGet, "/posts/00000000-0000-0000-0000-000000000001", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPostLifecycleOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	author := api.signup("author")
	other := api.signup("other")
	postID := api.createPost(author)

	w := api.do(http.MethodPut, "/posts/"+postID, other, map[string]string{"title": "x", "content": "y"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(http.MethodPut, "/posts/"+postID, author, map[string]string{"title": "new", "content": "body"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "new", decode(t, w)["title"])

	w = api.do(http.MethodGet, "/posts?page=1&pageSize=10", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["total"])

	w = api.do(http.MethodDelete, "/posts/"+postID, author, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(http.MethodGet, "/posts/"+postID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegisterDuplicateAndBadLogin(t *testing.T) {
	api := newTestAPI(t)
	api.signup("sam")

	w := api.do(http.MethodPost, "/register", "", map[string]string{"displayName": "sam", "email": "sam@example.com", "password": "whatever1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodPost, "/login", "", map[string]string{"email": "sam@example.com", "password": "nope-nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid credentials", decode(t, w)["error"])
}
