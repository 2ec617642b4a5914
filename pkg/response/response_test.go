package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	appErrors "github.com/userhubio/userhub/pkg/errors"
)

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, rec
}

func TestSuccess(t *testing.T) {
	c, rec := newTestContext(t)

	Success(c, http.StatusOK, gin.H{"id": "abc"})

	require.Equal(t, http.StatusOK, rec.Code)

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.True(t, body.Success)
	require.Nil(t, body.Error)
}

func TestSuccessWithMeta(t *testing.T) {
	c, rec := newTestContext(t)

	SuccessWithMeta(c, http.StatusOK, []string{"a"}, &Meta{Page: 2, Size: 10, Total: 50})

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Meta)
	require.Equal(t, 2, body.Meta.Page)
	require.EqualValues(t, 50, body.Meta.Total)
}

func TestErrorRendersAppError(t *testing.T) {
	c, rec := newTestContext(t)

	Error(c, appErrors.ErrAccountLocked)

	require.Equal(t, http.StatusLocked, rec.Code)

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.False(t, body.Success)
	require.Equal(t, "ACCOUNT_LOCKED", body.Error.Code)
}

func TestErrorDefaultsToInternal(t *testing.T) {
	c, rec := newTestContext(t)

	Error(c, nil)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
