//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"coach-booking/internal/domain/auth"
	"coach-booking/internal/domain/coach"
	"coach-booking/internal/domain/user"
	"coach-booking/internal/handler/api"
	reqdto "coach-booking/internal/handler/dto/request"
	resdto "coach-booking/internal/handler/dto/response"
	"coach-booking/internal/pkg/errs"
	"coach-booking/internal/usecase/commands"
	"coach-booking/internal/usecase/queries"
	"coach-booking/tests/common/builder"
	"coach-booking/tests/common/httptest"
	commandsmock "coach-booking/tests/mock/commands"
	queriesmock "coach-booking/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BookingHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockBookingCommands
	mockQueries  *queriesmock.MockSeatQueries
	handler      *api.BookingHandler
	principal    auth.Principal
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	reqdto.RegisterValidators()
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockSeatQueries(s.mockCtrl)
	s.handler = api.NewBookingHandler(s.mockCommands, s.mockQueries)
	s.principal = auth.NewPrincipal(uuid.New(), user.RoleCustomer)

	// Stands in for RequireAuth: any bearer token maps to s.principal.
	withPrincipal := func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" {
			c.Set("principal", s.principal)
		}
		c.Next()
	}

	g := s.router.Group("/api/seats", withPrincipal)
	g.GET("", s.handler.SeatStatus)
	g.POST("/bookings", s.handler.CreateBooking)
	g.GET("/bookings/me", s.handler.MyBookings)
	g.DELETE("/reset", s.handler.Reset)
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *BookingHandlerTestSuite) TestSeatStatus() {
	url := "/api/seats"

	s.Run("success: returns every seat with its status", func() {
		views := make([]queries.SeatStatusView, 0, coach.TotalSeats)
		for _, st := range coach.SeatMap([]int{1, 2}) {
			views = append(views, queries.SeatStatusView{SeatNumber: st.SeatNumber, Status: string(st.Status)})
		}
		s.mockQueries.EXPECT().SeatStatus(gomock.Any()).Return(views, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "token")

		var response []resdto.SeatStatusResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Require().Len(response, 80)
		s.Equal(resdto.SeatStatusResponse{SeatNumber: 1, Status: "booked"}, response[0])
		s.Equal(resdto.SeatStatusResponse{SeatNumber: 3, Status: "available"}, response[2])
	})

	s.Run("error: store failure is a 500", func() {
		s.mockQueries.EXPECT().SeatStatus(gomock.Any()).Return(nil, errors.New("db down")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})
}

func (s *BookingHandlerTestSuite) TestCreateBooking() {
	url := "/api/seats/bookings"

	s.Run("success: returns 201 with the booked seats", func() {
		id := uuid.New()
		s.mockCommands.EXPECT().CreateBooking(gomock.Any(), s.principal, 3).
			Return(&commands.BookingResult{
				BookingID: id,
				Seats:     []int{1, 2, 3},
				Strategy:  coach.StrategyContiguous,
				CreatedAt: time.Now(),
			}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"numSeats": 3}, "token")

		var response resdto.CreateBookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(id, response.BookingID)
		s.Equal([]int{1, 2, 3}, response.BookedSeats)
		s.Equal("contiguous", response.Strategy)
	})

	s.Run("error: 400 on invalid seat counts", func() {
		testCases := []struct {
			name string
			body any
		}{
			{name: "zero", body: map[string]any{"numSeats": 0}},
			{name: "eight", body: map[string]any{"numSeats": 8}},
			{name: "negative", body: map[string]any{"numSeats": -2}},
			{name: "fractional", body: map[string]any{"numSeats": 2.5}},
			{name: "string", body: map[string]any{"numSeats": "3"}},
			{name: "missing", body: map[string]any{}},
			{name: "null", body: map[string]any{"numSeats": nil}},
			{name: "malformed json", body: httptest.RawBody(`{"numSeats": 3`)},
			{name: "exponent", body: httptest.RawBody(`{"numSeats": 3e0}`)},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, tc.body, "token")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "between 1 and 7")
			})
		}
	})

	s.Run("success: boundary counts reach the command", func() {
		for _, n := range []int{1, 7} {
			s.mockCommands.EXPECT().CreateBooking(gomock.Any(), s.principal, n).
				Return(&commands.BookingResult{BookingID: uuid.New(), Seats: make([]int, n), Strategy: coach.StrategyFallback}, nil)

			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"numSeats": n}, "token")
			s.Equal(http.StatusCreated, rec.Code)
		}
	})

	s.Run("error: 401 without a principal", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"numSeats": 2}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Authentication required")
	})

	s.Run("error: maps usecase error kinds to statuses", func() {
		testCases := []struct {
			name           string
			err            error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "insufficient capacity",
				err:            errs.WithKind(coach.ErrInsufficientCapacity, errs.KindInsufficientCapacity),
				expectedStatus: http.StatusConflict,
				expectedMsg:    "Not enough seats available",
			},
			{
				name:           "concurrent conflict",
				err:            errs.WithKind(commands.ErrBookingConflict, errs.KindStoreConflict),
				expectedStatus: http.StatusConflict,
				expectedMsg:    "please retry",
			},
			{
				name:           "store validation",
				err:            errs.WithKind(commands.ErrBookingInvalidRecord, errs.KindStoreValidation),
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "Booking failed validation",
			},
			{
				name:           "selection internal",
				err:            errs.WithKind(commands.ErrSelectionMismatch, errs.KindSelectionInternal),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Seat selection failed",
			},
			{
				name:           "deadline",
				err:            commands.ErrBookingDeadline,
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().CreateBooking(gomock.Any(), s.principal, 4).Return(nil, tc.err).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"numSeats": 4}, "token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})

	s.Run("error: conflict bodies carry the kind tag", func() {
		s.mockCommands.EXPECT().CreateBooking(gomock.Any(), s.principal, 3).
			Return(nil, errs.WithKind(coach.ErrInsufficientCapacity, errs.KindInsufficientCapacity))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"numSeats": 3}, "token")
		httptest.AssertErrorKind(s.T(), rec, http.StatusConflict, "InsufficientCapacity")
	})
}

func (s *BookingHandlerTestSuite) TestMyBookings() {
	url := "/api/seats/bookings/me"

	s.Run("success: lists the caller's bookings", func() {
		b := builder.NewBookingBuilder().WithRequester(s.principal.UserID).WithSeats(10, 11)
		s.mockQueries.EXPECT().MyBookings(gomock.Any(), s.principal.UserID).
			Return([]*queries.BookingView{b.BuildView()}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "token")

		var response []resdto.BookingItemResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Require().Len(response, 1)
		s.Equal(b.ID, response[0].ID)
		s.Equal([]int{10, 11}, response[0].SeatNumbers)
	})

	s.Run("success: empty list is an empty array", func() {
		s.mockQueries.EXPECT().MyBookings(gomock.Any(), s.principal.UserID).
			Return([]*queries.BookingView{}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "token")

		s.Equal(http.StatusOK, rec.Code)
		s.JSONEq(`[]`, rec.Body.String())
	})
}

func (s *BookingHandlerTestSuite) TestReset() {
	url := "/api/seats/reset"

	s.Run("success: reports the deleted count", func() {
		s.mockCommands.EXPECT().ResetBookings(gomock.Any(), s.principal).
			Return(&commands.ResetResult{DeletedCount: 5}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "token")

		var response resdto.ResetResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(int64(5), response.DeletedCount)
	})

	s.Run("error: non-admin is forbidden", func() {
		s.mockCommands.EXPECT().ResetBookings(gomock.Any(), s.principal).
			Return(nil, errs.WithKind(commands.ErrAdminRequired, errs.KindForbidden)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Insufficient permissions")
	})
}
