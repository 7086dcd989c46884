package helper

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"news-portal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	Code        int                    `json:"code"`
	CodeType    string                 `json:"code_type"`
	CodeMessage interface{}            `json:"code_message"`
	Data        map[string]interface{} `json:"data"`
}

func TestUnderscore(t *testing.T) {
	cases := map[string]string{
		"TagIDs":     "tag_ids",
		"CategoryID": "category_id",
		"Email":      "email",
		"HTTPServer": "http_server",
		"already_ok": "already_ok",
	}
	for in, want := range cases {
		assert.Equal(t, want, Underscore(in), in)
	}
}

func TestStatusFor(t *testing.T) {
	h := NewHTTPHelper(zap.NewNop(), 10)

	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: bad", models.ErrInvalidArgument), http.StatusBadRequest},
		{models.ErrWeakPassword, http.StatusBadRequest},
		{models.ErrReferenceNotFound, http.StatusBadRequest},
		{models.ErrInvalidToken, http.StatusUnauthorized},
		{models.ErrUnauthenticated, http.StatusUnauthorized},
		{fmt.Errorf("%w: nope", models.ErrPermissionDenied), http.StatusForbidden},
		{models.ErrNotFound, http.StatusNotFound},
		{models.ErrDuplicateIdentity, http.StatusConflict},
		{models.ErrConflict, http.StatusConflict},
		{fmt.Errorf("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		status, _ := h.StatusFor(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
	}
}

func TestSendServiceErrorHidesInternals(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHTTPHelper(zap.NewNop(), 10)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	h.SendServiceError(c, fmt.Errorf("pq: password authentication failed"))

	var body envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusInternalServerError, body.Code)
	assert.Equal(t, "internal server error", body.CodeMessage)
}

func TestValidationErrorsUseFieldNames(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHTTPHelper(zap.NewNop(), 10)

	r := gin.New()
	r.POST("/register", func(c *gin.Context) {
		var req models.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.SendBindError(c, err)
			return
		}
		h.SendSuccess(c, "", req)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"email":"nope","name":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "validationError", body.CodeType)

	fields, ok := body.CodeMessage.(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "password")
}

func TestPaging(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHTTPHelper(zap.NewNop(), 10)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "http://news.local/api/v1/articles?skip=10&limit=5&q=go", nil)

	page, err := h.GetPage(c)
	require.NoError(t, err)
	assert.Equal(t, models.Page{Skip: 10, Limit: 5}, page)

	paging := h.GeneratePaging(c, page, 23)
	links := paging["links"].(map[string]interface{})
	assert.Equal(t, "http://news.local/api/v1/articles?limit=5&q=go&skip=15", links["next"])
	assert.Equal(t, "http://news.local/api/v1/articles?limit=5&q=go&skip=5", links["previous"])
	assert.Equal(t, "http://news.local/api/v1/articles?limit=5&q=go&skip=20", links["last"])

	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/articles?limit=abc", nil)
	_, err = h.GetPage(c)
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
}
