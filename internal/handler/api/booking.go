package api

import (
	"net/http"

	reqdto "coach-booking/internal/handler/dto/request"
	resdto "coach-booking/internal/handler/dto/response"
	"coach-booking/internal/handler/httperr"
	"coach-booking/internal/handler/middleware"
	"coach-booking/internal/pkg/errs"
	"coach-booking/internal/usecase/commands"
	"coach-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
)

var errNoPrincipal = errs.WithKind(errs.New("no authenticated principal"), errs.KindAuthMissing)

type BookingHandler struct {
	cmds commands.BookingCommands
	q    queries.SeatQueries
}

func NewBookingHandler(cmds commands.BookingCommands, q queries.SeatQueries) *BookingHandler {
	return &BookingHandler{cmds: cmds, q: q}
}

// @Summary Seat status
// @Description List all 80 seats with their availability
// @Tags seats
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.SeatStatusResponse
// @Failure 401 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /api/seats [get]
func (h *BookingHandler) SeatStatus(c *gin.Context) {
	views, err := h.q.SeatStatus(c.Request.Context())
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}

	resp := make([]resdto.SeatStatusResponse, 0, len(views))
	if err := copier.Copy(&resp, &views); err != nil {
		httperr.AbortWithKind(c, errs.Wrap(err, "map seat status"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Create booking
// @Description Book numSeats seats, preferring a contiguous block within one row
// @Tags seats
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.CreateBookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /api/seats/bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		httperr.AbortWithKind(c, errNoPrincipal)
		return
	}

	var req reqdto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest,
			errs.WithKind(err, errs.KindInvalidRequest), "Number of seats must be an integer between 1 and 7", nil)
		return
	}

	result, err := h.cmds.CreateBooking(c.Request.Context(), principal, req.Count())
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.CreateBookingResponse{
		BookingID:   result.BookingID,
		BookedSeats: result.Seats,
		Strategy:    result.Strategy.String(),
	})
}

// @Summary My bookings
// @Description List the caller's bookings, newest first
// @Tags seats
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.BookingItemResponse
// @Failure 401 {object} httperr.Response
// @Router /api/seats/bookings/me [get]
func (h *BookingHandler) MyBookings(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		httperr.AbortWithKind(c, errNoPrincipal)
		return
	}

	views, err := h.q.MyBookings(c.Request.Context(), principal.UserID)
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}

	resp := make([]resdto.BookingItemResponse, 0, len(views))
	if err := copier.Copy(&resp, &views); err != nil {
		httperr.AbortWithKind(c, errs.Wrap(err, "map bookings"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Reset bookings
// @Description Delete every booking (admin only)
// @Tags seats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.ResetResponse
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /api/seats/reset [delete]
func (h *BookingHandler) Reset(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		httperr.AbortWithKind(c, errNoPrincipal)
		return
	}

	result, err := h.cmds.ResetBookings(c.Request.Context(), principal)
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.ResetResponse{DeletedCount: result.DeletedCount})
}
