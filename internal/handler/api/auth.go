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

type AuthHandler struct {
	cmds commands.AuthCommands
	q    queries.UserQueries
}

func NewAuthHandler(cmds commands.AuthCommands, q queries.UserQueries) *AuthHandler {
	return &AuthHandler{
		cmds: cmds,
		q:    q,
	}
}

// @Summary Register
// @Description Create a customer account
// @Tags users
// @Accept json
// @Produce json
// @Param request body reqdto.RegisterRequest true "Register request"
// @Success 201 {object} resdto.UserResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/users/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req reqdto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	view, err := h.cmds.Register(c.Request.Context(), commands.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}

	var resp resdto.UserResponse
	if err := copier.Copy(&resp, view); err != nil {
		httperr.AbortWithKind(c, errs.Wrap(err, "map user"))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// @Summary User login
// @Description Login with email and password
// @Tags users
// @Accept json
// @Produce json
// @Param request body reqdto.LoginRequest true "Login request"
// @Success 200 {object} resdto.LoginResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Router /api/users/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req reqdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	result, err := h.cmds.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errs.KindOf(err) == errs.KindAuthMissing {
			httperr.AbortWithError(c, http.StatusUnauthorized, err, "Invalid email or password", nil)
			return
		}
		httperr.AbortWithKind(c, err)
		return
	}

	resp := resdto.LoginResponse{AccessToken: result.AccessToken}
	if err := copier.Copy(&resp.User, result.User); err != nil {
		httperr.AbortWithKind(c, errs.Wrap(err, "map user"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Get current user
// @Description Get current authenticated user information
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} resdto.UserResponse
// @Failure 401 {object} httperr.Response
// @Router /api/users/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		httperr.AbortWithKind(c, errNoPrincipal)
		return
	}

	view, err := h.q.GetCurrentUser(c.Request.Context(), principal.UserID)
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}

	var resp resdto.UserResponse
	if err := copier.Copy(&resp, view); err != nil {
		httperr.AbortWithKind(c, errs.Wrap(err, "map user"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
