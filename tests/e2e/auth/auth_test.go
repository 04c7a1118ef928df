//go:build e2e

package auth_test

import (
	"net/http"
	"testing"

	"coach-booking/internal/domain/user"
	"coach-booking/internal/handler/dto/request"
	"coach-booking/internal/handler/dto/response"
	"coach-booking/tests/common/authtest"
	"coach-booking/tests/common/dbtest"
	"coach-booking/tests/common/httptest"
	"coach-booking/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	registerURL = "/api/users/register"
	loginURL    = "/api/users/login"
	meURL       = "/api/users/me"
)

type authSuite struct {
	e2e.SharedSuite
	jwt *authtest.JWTHelper
}

func TestAuthSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(authSuite))
}

func (s *authSuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	s.jwt = authtest.NewJWTHelper(s.Config.JWT)
}

func (s *authSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
	dbtest.CreateTestUser(s.T(), s.DB, "customer@example.com", user.RoleCustomer.String())
}

func (s *authSuite) TestRegister() {
	s.Run("success: new account is a customer and can log in", func() {
		t := s.T()
		reqBody := request.RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "password123"}

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, registerURL, reqBody, "")

		var res response.UserResponse
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &res)
		require.NotEqual(t, uuid.Nil, res.ID)
		require.Equal(t, "customer", res.Role)

		token := authtest.LoginUser(t, s.Router, reqBody.Email, reqBody.Password)
		require.NotEmpty(t, token)
	})

	s.Run("error: duplicate email returns 409", func() {
		t := s.T()
		reqBody := request.RegisterRequest{Name: "Dup", Email: "customer@example.com", Password: "password123"}

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, registerURL, reqBody, "")
		httptest.AssertErrorResponse(t, w, http.StatusConflict, "")
	})

	s.Run("error: short password returns 400", func() {
		t := s.T()
		reqBody := request.RegisterRequest{Name: "Short", Email: "short@example.com", Password: "short"}

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, registerURL, reqBody, "")
		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "Invalid request format")
	})
}

func (s *authSuite) TestLogin() {
	tests := []struct {
		name           string
		email          string
		password       string
		expectedStatus int
	}{
		{name: "valid credentials", email: "customer@example.com", password: dbtest.DefaultPassword, expectedStatus: http.StatusOK},
		{name: "unknown user", email: "nobody@example.com", password: dbtest.DefaultPassword, expectedStatus: http.StatusUnauthorized},
		{name: "wrong password", email: "customer@example.com", password: "wrongpassword", expectedStatus: http.StatusUnauthorized},
		{name: "empty email", email: "", password: dbtest.DefaultPassword, expectedStatus: http.StatusBadRequest},
		{name: "empty password", email: "customer@example.com", password: "", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			t := s.T()

			reqBody := request.LoginRequest{Email: tt.email, Password: tt.password}
			w := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL, reqBody, "")

			if tt.expectedStatus != http.StatusOK {
				httptest.AssertErrorResponse(t, w, tt.expectedStatus, "")
				return
			}

			var res response.LoginResponse
			httptest.AssertSuccessResponse(t, w, http.StatusOK, &res)
			require.NotEmpty(t, res.AccessToken)
			require.Equal(t, tt.email, res.User.Email)
		})
	}
}

func (s *authSuite) TestMe() {
	s.Run("success: returns the caller", func() {
		t := s.T()
		token := authtest.LoginUser(t, s.Router, "customer@example.com", dbtest.DefaultPassword)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, token)

		var res response.UserResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &res)
		require.Equal(t, "customer@example.com", res.Email)
	})

	s.Run("error: missing token returns 401", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, meURL, nil, "")
		httptest.AssertErrorResponse(s.T(), w, http.StatusUnauthorized, "Access token required")
	})

	s.Run("error: expired token returns 401", func() {
		t := s.T()
		id := dbtest.CreateTestUser(t, s.DB, "expired@example.com", user.RoleCustomer.String())
		token := s.jwt.CreateExpiredToken(t, id, user.RoleCustomer)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, token)
		httptest.AssertErrorResponse(t, w, http.StatusUnauthorized, "Invalid or expired token")
	})

	s.Run("error: token for a deleted user returns 401", func() {
		t := s.T()
		token := s.jwt.GenerateToken(t, uuid.New(), user.RoleCustomer)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, token)
		httptest.AssertErrorResponse(t, w, http.StatusUnauthorized, "")
	})
}
