package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/todo-app/internal/auth"
	"github.com/iliyamo/todo-app/internal/security"
)

func newCodec(t *testing.T) *security.TokenCodec {
	t.Helper()
	c, err := security.NewTokenCodec("s3cret", "HS256")
	require.NoError(t, err)
	return c
}

// serve runs mw in front of a handler that echoes the resolved identity.
func serve(t *testing.T, mw echo.MiddlewareFunc, header string) (*httptest.ResponseRecorder, *auth.Identity) {
	t.Helper()
	e := echo.New()
	var got *auth.Identity
	e.GET("/p", func(c echo.Context) error {
		id, ok := GetIdentity(c)
		require.True(t, ok)
		got = &id
		return c.NoContent(http.StatusOK)
	}, mw)

	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec, got
}

func TestJWTAuth_ValidToken(t *testing.T) {
	codec := newCodec(t)
	raw, err := codec.Encode(security.Claims{Subject: "alice", UserID: 1, Role: "user"}, time.Minute)
	require.NoError(t, err)

	rec, id := serve(t, JWTAuth(codec), "Bearer "+raw)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, id)
	assert.Equal(t, auth.Identity{Username: "alice", UserID: 1, Role: "user"}, *id)
}

func TestJWTAuth_Rejections(t *testing.T) {
	codec := newCodec(t)
	expired, err := codec.Encode(security.Claims{Subject: "alice", UserID: 1, Role: "user"}, -time.Second)
	require.NoError(t, err)
	noSubject, err := codec.Encode(security.Claims{UserID: 1, Role: "user"}, time.Minute)
	require.NoError(t, err)
	noID, err := codec.Encode(security.Claims{Subject: "alice", Role: "user"}, time.Minute)
	require.NoError(t, err)
	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "alice", "id": 1, "role": "admin", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		detail string
	}{
		{"missing header", "", `{"detail":"Not authenticated"}`},
		{"wrong scheme", "Basic YWxpY2U6c2VjcmV0", `{"detail":"Not authenticated"}`},
		{"empty bearer", "Bearer ", `{"detail":"Not authenticated"}`},
		{"garbage", "Bearer not-a-jwt", `{"detail":"Username or ID not found"}`},
		{"expired one second ago", "Bearer " + expired, `{"detail":"Username or ID not found"}`},
		{"other secret", "Bearer " + foreign, `{"detail":"Username or ID not found"}`},
		{"missing subject", "Bearer " + noSubject, `{"detail":"Username or ID not found"}`},
		{"missing id", "Bearer " + noID, `{"detail":"Username or ID not found"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, id := serve(t, JWTAuth(codec), tt.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, tt.detail, rec.Body.String())
			assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))
			assert.Nil(t, id)
		})
	}
}

func TestJWTAuth_SchemeCaseInsensitive(t *testing.T) {
	codec := newCodec(t)
	raw, err := codec.Encode(security.Claims{Subject: "alice", UserID: 1, Role: "user"}, time.Minute)
	require.NoError(t, err)

	rec, _ := serve(t, JWTAuth(codec), "bearer "+raw)
	assert.Equal(t, http.StatusOK, rec.Code)
}
