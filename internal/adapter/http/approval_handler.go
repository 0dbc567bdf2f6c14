package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"chamasave-backend/internal/usecase/approval"
)

type ApprovalHandler struct{ uc *approval.Usecase }

func NewApprovalHandler(uc *approval.Usecase) *ApprovalHandler {
	return &ApprovalHandler{uc: uc}
}

type approveLoanReq struct {
	ApprovedAmount float64 `json:"approved_amount" validate:"required,gt=0,dec2"`
	InterestRate   float64 `json:"interest_rate"   validate:"gte=0,lte=100,dec2"`
	TermMonths     int     `json:"term_months"     validate:"required,gt=0"`
}

func (h *ApprovalHandler) ApproveLoan(c echo.Context) error {
	loanID := c.Param("loan_id")
	if loanID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing loan_id path param"})
	}
	var req approveLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	l, err := h.uc.Approve(c.Request().Context(), approval.ApproveInput{
		LoanID:         loanID,
		ApprovedAmount: req.ApprovedAmount,
		InterestRate:   req.InterestRate,
		TermMonths:     req.TermMonths,
		ActorID:        actorID(c),
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(http.StatusOK, l)
}

func (h *ApprovalHandler) RejectLoan(c echo.Context) error {
	loanID := c.Param("loan_id")
	if loanID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing loan_id path param"})
	}
	l, err := h.uc.Reject(c.Request().Context(), loanID, actorID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(http.StatusOK, l)
}
