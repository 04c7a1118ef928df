//go:build unit || e2e

package authtest

import (
	"net/http"
	"testing"

	"coach-booking/internal/handler/dto/request"
	"coach-booking/internal/handler/dto/response"
	"coach-booking/tests/common/dbtest"
	"coach-booking/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func LoginUser(t *testing.T, router *gin.Engine, email, password string) string {
	t.Helper()

	w := httptest.PerformRequest(t, router, http.MethodPost, "/api/users/login",
		request.LoginRequest{Email: email, Password: password}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp response.LoginResponse
	httptest.AssertSuccessResponse(t, w, http.StatusOK, &resp)
	require.NotEmpty(t, resp.AccessToken, "access token missing from login response")

	return resp.AccessToken
}

// CreateAndLogin inserts a user with dbtest.DefaultPassword and returns its access token.
func CreateAndLogin(t *testing.T, db dbtest.DBLike, router *gin.Engine, email, role string) string {
	t.Helper()
	dbtest.CreateTestUser(t, db, email, role)
	return LoginUser(t, router, email, dbtest.DefaultPassword)
}
