package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"chamasave-backend/internal/domain/guarantee"
	"chamasave-backend/internal/domain/loan"
	"chamasave-backend/internal/domain/member"
	"chamasave-backend/internal/domain/transaction"
)

// respondDomainError maps domain errors onto HTTP codes. Precondition
// violations (wrong lifecycle state, lost compare-and-set races) are
// conflicts; bad monetary input is unprocessable.
func respondDomainError(c echo.Context, err error) error {
	var cov *loan.InsufficientCoverageError
	switch {
	case errors.As(err, &cov):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:     cov.Error(),
			Shortfall: cov.Shortfall(),
		})
	case errors.Is(err, loan.ErrNotFound),
		errors.Is(err, member.ErrNotFound),
		errors.Is(err, guarantee.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, loan.ErrInvalidState):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, loan.ErrInvalidAmount),
		errors.Is(err, transaction.ErrInvalidAmount),
		errors.Is(err, member.ErrInsufficientFunds),
		errors.Is(err, member.ErrInactive):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
