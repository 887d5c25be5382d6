package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnprocessable_ReportsJSONFieldNames(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"ab","description":"fine text","priority":9}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var body todoReq
	err := bindValid(c, &body)
	require.Error(t, err)
	require.NoError(t, unprocessable(c, err))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	out := rec.Body.String()
	assert.Contains(t, out, `"field":"title","msg":"must be at least 3"`)
	assert.Contains(t, out, `"field":"priority","msg":"must be less than 6"`)
	assert.Contains(t, out, `"field":"completed","msg":"field required"`)
}

func TestPathID(t *testing.T) {
	e := echo.New()
	for _, tc := range []struct {
		raw  string
		want uint64
		ok   bool
	}{
		{"7", 7, true},
		{"0", 0, false},
		{"-1", 0, false},
		{"x", 0, false},
		{"", 0, false},
	} {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		c.SetParamNames("id")
		c.SetParamValues(tc.raw)
		got, ok := pathID(c, "id")
		assert.Equal(t, tc.ok, ok, tc.raw)
		assert.Equal(t, tc.want, got, tc.raw)
	}
}
