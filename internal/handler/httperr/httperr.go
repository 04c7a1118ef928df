package httperr

import (
	"net/http"

	"coach-booking/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
		Kind    string `json:"kind,omitempty"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// StatusOf maps an error kind to its HTTP status.
func StatusOf(kind errs.Kind) int {
	switch kind {
	case errs.KindAuthMissing:
		return http.StatusUnauthorized
	case errs.KindForbidden:
		return http.StatusForbidden
	case errs.KindInvalidRequest, errs.KindStoreValidation:
		return http.StatusBadRequest
	case errs.KindInsufficientCapacity, errs.KindStoreConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

var defaultMessages = map[errs.Kind]string{
	errs.KindAuthMissing:          "Authentication required",
	errs.KindForbidden:            "Insufficient permissions",
	errs.KindInvalidRequest:       "Invalid request",
	errs.KindInsufficientCapacity: "Not enough seats available",
	errs.KindSelectionInternal:    "Seat selection failed",
	errs.KindStoreConflict:        "Request conflicted with a concurrent update, please retry",
	errs.KindStoreValidation:      "Booking failed validation",
	errs.KindInternal:             "Internal server error",
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

// AbortWithKind derives status and message from the kind carried by err.
func AbortWithKind(c *gin.Context, err error) {
	if err == nil {
		panic("AbortWithKind: err cannot be nil")
	}

	kind := errs.KindOf(err)
	resp := Response{Status: StatusOf(kind)}
	resp.Error.Message = defaultMessages[kind]
	if kind != errs.KindInternal {
		resp.Error.Kind = kind.String()
	}

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(resp.Status, resp)
}
