package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/todo-app/internal/auth"
	"github.com/iliyamo/todo-app/internal/config"
)

type cacheFixture struct {
	e     *echo.Echo
	mr    *miniredis.Miniredis
	reads map[uint64]int
}

// withUser stands in for JWTAuth: the X-User header carries the caller id.
func withUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		switch c.Request().Header.Get("X-User") {
		case "1":
			SetIdentity(c, auth.Identity{Username: "alice", UserID: 1, Role: "user"})
		case "2":
			SetIdentity(c, auth.Identity{Username: "bob", UserID: 2, Role: "user"})
		case "9":
			SetIdentity(c, auth.Identity{Username: "root", UserID: 9, Role: "admin"})
		}
		return next(c)
	}
}

func newCacheFixture(t *testing.T) *cacheFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := config.CacheConfig{Enabled: true, Methods: map[string]bool{"GET": true}, TTL: time.Minute, Prefix: "cache"}
	log := logrus.New()
	f := &cacheFixture{e: echo.New(), mr: mr, reads: map[uint64]int{}}

	cache := NewRedisCache(cfg, rdb, log)
	f.e.GET("/", func(c echo.Context) error {
		id, _ := GetIdentity(c)
		f.reads[id.UserID]++
		return c.JSON(http.StatusOK, []string{id.Username})
	}, withUser, cache)
	f.e.POST("/todo", func(c echo.Context) error {
		return c.NoContent(http.StatusCreated)
	}, withUser, cache)
	f.e.DELETE("/admin/todo/:id", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, withUser, PurgeCache(cfg, rdb, log))
	return f
}

func (f *cacheFixture) do(method, path, user string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("X-User", user)
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func TestRedisCache_HitIsPerUser(t *testing.T) {
	f := newCacheFixture(t)

	first := f.do(http.MethodGet, "/", "1")
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	second := f.do(http.MethodGet, "/", "1")
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, echo.MIMEApplicationJSON, second.Header().Get(echo.HeaderContentType))
	assert.Equal(t, 1, f.reads[1])

	other := f.do(http.MethodGet, "/", "2")
	assert.Equal(t, "MISS", other.Header().Get("X-Cache"))
	assert.Contains(t, other.Body.String(), "bob")
	assert.NotContains(t, other.Body.String(), "alice")
}

func TestRedisCache_MutationDropsOnlyCallerEntries(t *testing.T) {
	f := newCacheFixture(t)
	f.do(http.MethodGet, "/", "1")
	f.do(http.MethodGet, "/", "2")

	rec := f.do(http.MethodPost, "/todo", "1")
	require.Equal(t, http.StatusCreated, rec.Code)

	assert.Equal(t, "MISS", f.do(http.MethodGet, "/", "1").Header().Get("X-Cache"))
	assert.Equal(t, "HIT", f.do(http.MethodGet, "/", "2").Header().Get("X-Cache"))
}

func TestPurgeCache_AdminMutationDropsEverything(t *testing.T) {
	f := newCacheFixture(t)
	f.do(http.MethodGet, "/", "1")
	f.do(http.MethodGet, "/", "2")
	require.Len(t, f.mr.Keys(), 2)

	rec := f.do(http.MethodDelete, "/admin/todo/3", "9")
	require.Equal(t, http.StatusNoContent, rec.Code)

	assert.Empty(t, f.mr.Keys())
}

func TestRedisCache_KeysCarryUserScope(t *testing.T) {
	f := newCacheFixture(t)
	f.do(http.MethodGet, "/", "2")

	keys := f.mr.Keys()
	require.Len(t, keys, 1)
	assert.True(t, strings.HasPrefix(keys[0], "cache:user:2:"), keys[0])
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(200, hdr, []byte(`[]`))
	require.NoError(t, err)

	status, got, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, 200, status)
	assert.Equal(t, hdr, got)
	assert.Equal(t, `[]`, string(body))

	_, _, _, ok = decodePayload([]byte{0, 1})
	assert.False(t, ok)
}
