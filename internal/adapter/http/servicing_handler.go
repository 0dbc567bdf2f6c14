package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"chamasave-backend/internal/usecase/servicing"
)

type ServicingHandler struct{ uc *servicing.Usecase }

func NewServicingHandler(uc *servicing.Usecase) *ServicingHandler {
	return &ServicingHandler{uc: uc}
}

func (h *ServicingHandler) DisburseLoan(c echo.Context) error {
	loanID := c.Param("loan_id")
	if loanID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing loan_id path param"})
	}
	res, err := h.uc.Disburse(c.Request().Context(), loanID, actorID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

type repaymentReq struct {
	Amount float64 `json:"amount" validate:"required,gt=0,dec2"`
	Notes  string  `json:"notes"`
}

func (h *ServicingHandler) RecordRepayment(c echo.Context) error {
	loanID := c.Param("loan_id")
	if loanID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing loan_id path param"})
	}
	var req repaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	res, err := h.uc.RecordRepayment(c.Request().Context(), loanID, req.Amount, req.Notes, actorID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}
