//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"coach-booking/internal/domain/auth"
	"coach-booking/internal/domain/user"
	"coach-booking/internal/handler/api"
	resdto "coach-booking/internal/handler/dto/response"
	"coach-booking/internal/pkg/errs"
	"coach-booking/internal/usecase/commands"
	"coach-booking/internal/usecase/queries"
	"coach-booking/tests/common/builder"
	"coach-booking/tests/common/httptest"
	"coach-booking/tests/common/testutil"
	commandsmock "coach-booking/tests/mock/commands"
	queriesmock "coach-booking/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

var (
	meView = builder.NewUserBuilder().BuildReadModel()
	meID   = meView.ID
)

type AuthHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockAuthCommands
	mockQueries  *queriesmock.MockUserQueries
	handler      *api.AuthHandler
}

func (s *AuthHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockAuthCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockUserQueries(s.mockCtrl)
	s.handler = api.NewAuthHandler(s.mockCommands, s.mockQueries)

	s.router.POST("/api/users/register", s.handler.Register)
	s.router.POST("/api/users/login", s.handler.Login)
	s.router.GET("/api/users/me", func(c *gin.Context) {
		// Mock middleware behavior for /me
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			c.Set("principal", auth.NewPrincipal(meID, user.RoleCustomer))
		}
		s.handler.Me(c)
	})
}

func (s *AuthHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}

type testCaseAuth struct {
	name       string
	mutate     func(m map[string]any)
	expectCode int
}

func (s *AuthHandlerTestSuite) TestRegister() {
	url := "/api/users/register"
	reqBody := builder.NewAuthBuilder().BuildRegisterDTO()
	returnUser := builder.NewUserBuilder().BuildReadModel()

	s.Run("success: returns 201 Created", func() {
		s.mockCommands.EXPECT().Register(gomock.Any(), commands.RegisterInput{
			Name:     reqBody.Name,
			Email:    reqBody.Email,
			Password: reqBody.Password,
		}).Return(returnUser, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var response resdto.UserResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(returnUser.ID, response.ID)
		s.Equal("customer", response.Role)
		s.NotContains(rec.Body.String(), "password")
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		cases := []testCaseAuth{
			{name: "name too long", mutate: testutil.Field("name", strings.Repeat("a", 101)), expectCode: http.StatusBadRequest},
			{name: "missing name", mutate: testutil.Field("name", nil), expectCode: http.StatusBadRequest},
			{name: "null email", mutate: testutil.Null("email"), expectCode: http.StatusBadRequest},
			{name: "password 73 chars", mutate: testutil.Field("password", strings.Repeat("a", 73)), expectCode: http.StatusBadRequest},
			{name: "invalid email", mutate: testutil.Field("email", "invalid-email"), expectCode: http.StatusBadRequest},
			{name: "password 7 chars", mutate: testutil.Field("password", strings.Repeat("a", 7)), expectCode: http.StatusBadRequest},
		}

		for _, tc := range cases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, "Invalid request format")
			})
		}
	})

	s.Run("error: 409 Conflict when the email is taken", func() {
		s.mockCommands.EXPECT().Register(gomock.Any(), gomock.Any()).
			Return(nil, errs.WithKind(commands.ErrEmailTaken, errs.KindStoreConflict)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "")
	})
}

func (s *AuthHandlerTestSuite) TestLogin() {
	url := "/api/users/login"

	reqBody := builder.NewAuthBuilder().BuildDTO()
	returnUser := builder.NewUserBuilder().BuildReadModel()
	expectedToken := "test-jwt-token"

	s.Run("success: returns 200 OK for valid credentials", func() {
		s.mockCommands.EXPECT().Login(gomock.Any(), reqBody.Email, reqBody.Password).
			Return(&commands.LoginResult{AccessToken: expectedToken, User: returnUser}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var response resdto.LoginResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(expectedToken, response.AccessToken)
		s.Equal(returnUser.Email, response.User.Email)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		bound := []testCaseAuth{
			{name: "email boundary OK (valid email)", mutate: testutil.Field("email", "valid@example.com"), expectCode: http.StatusOK},
			{name: "email boundary invalid (invalid email)", mutate: testutil.Field("email", "invalid-email"), expectCode: http.StatusBadRequest},
			{name: "password boundary OK (8 chars)", mutate: testutil.Field("password", "password"), expectCode: http.StatusOK},
			{name: "password boundary invalid (7 chars)", mutate: testutil.Field("password", strings.Repeat("a", 7)), expectCode: http.StatusBadRequest},
		}

		missing := []testCaseAuth{
			{name: "missing field: email (required)", mutate: testutil.Field("email", nil), expectCode: http.StatusBadRequest},
			{name: "missing field: password (required)", mutate: testutil.Field("password", nil), expectCode: http.StatusBadRequest},
		}

		empty := []testCaseAuth{
			{name: "empty email", mutate: testutil.Field("email", ""), expectCode: http.StatusBadRequest},
			{name: "empty password", mutate: testutil.Field("password", ""), expectCode: http.StatusBadRequest},
		}

		allValidationTestCases := [][]testCaseAuth{bound, missing, empty}

		for _, testCaseGroup := range allValidationTestCases {
			for _, tc := range testCaseGroup {
				s.Run(tc.name, func() {
					requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)

					if tc.expectCode == http.StatusOK {
						email, _ := requestMap["email"].(string)
						password, _ := requestMap["password"].(string)
						s.mockCommands.EXPECT().Login(gomock.Any(), email, password).
							Return(&commands.LoginResult{AccessToken: expectedToken, User: returnUser}, nil)
					}
					rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "")
					if tc.expectCode == http.StatusOK {
						httptest.AssertSuccessResponse(s.T(), rec, tc.expectCode, nil)
					} else {
						httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, "")
					}
				})
			}
		}
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "invalid credentials",
				commandsError:  errs.WithKind(commands.ErrInvalidCredentials, errs.KindAuthMissing),
				expectedStatus: http.StatusUnauthorized,
				expectedMsg:    "Invalid email or password",
			},
			{
				name:           "internal server error",
				commandsError:  errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Login(gomock.Any(), reqBody.Email, reqBody.Password).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

func (s *AuthHandlerTestSuite) TestMe() {
	url := "/api/users/me"

	s.Run("success: returns current user info", func() {
		s.mockQueries.EXPECT().GetCurrentUser(gomock.Any(), meID).
			Return(meView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(meView.Email, response["email"])
	})

	s.Run("error: returns 401 when no principal is set", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Authentication required")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			queryError     error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "user deleted since the token was issued",
				queryError:     errs.WithKind(queries.ErrUserNotFound, errs.KindAuthMissing),
				expectedStatus: http.StatusUnauthorized,
				expectedMsg:    "Authentication required",
			},
			{
				name:           "internal server error",
				queryError:     errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockQueries.EXPECT().GetCurrentUser(gomock.Any(), gomock.Any()).
					Return(nil, tc.queryError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}
