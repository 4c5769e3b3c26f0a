package api

import (
	"errors"
	"net/http"

	"github.com/Giggibubbu/airpermit/internal/domain"
	"github.com/gin-gonic/gin"
)

// Caller identity arrives pre-authenticated from the upstream gateway.
const (
	headerAccountEmail = "X-Account-Email"
	headerAccountRole  = "X-Account-Role"

	roleUser     = "user"
	roleOperator = "operator"
	roleAdmin    = "admin"
)

func callerEmail(c *gin.Context) string {
	return c.GetHeader(headerAccountEmail)
}

func callerRole(c *gin.Context) string {
	role := c.GetHeader(headerAccountRole)
	if role == "" {
		role = roleUser
	}
	return role
}

// writeError maps the core's typed failures to transport status codes.
func writeError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInsufficientCredit):
		return http.StatusPaymentRequired
	case errors.Is(err, domain.ErrInvalidLeadTime),
		errors.Is(err, domain.ErrForbiddenArea),
		errors.Is(err, domain.ErrInvalidValidity):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrTemporalConflict),
		errors.Is(err, domain.ErrZoneConflict),
		errors.Is(err, domain.ErrForbiddenTransition):
		return http.StatusConflict
	case errors.Is(err, domain.ErrPlanNotFound),
		errors.Is(err, domain.ErrZoneNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbiddenOwnership):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
