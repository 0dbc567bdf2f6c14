package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"chamasave-backend/internal/usecase/loan"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type guarantorReq struct {
	GuarantorID string  `json:"guarantor_id" validate:"required,hex32"`
	Amount      float64 `json:"amount"       validate:"gte=0,dec2"`
}

type createLoanReq struct {
	BorrowerID string         `json:"borrower_id" validate:"required,hex32"`
	Amount     float64        `json:"amount"      validate:"required,gt=0,dec2"`
	TermMonths int            `json:"term_months" validate:"required,gt=0"`
	Purpose    string         `json:"purpose"`
	Guarantors []guarantorReq `json:"guarantors"  validate:"dive"`
}

func (h *LoanHandler) CreateLoan(c echo.Context) error {
	var req createLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	in := loan.CreateLoanInput{
		BorrowerID: req.BorrowerID,
		Amount:     req.Amount,
		TermMonths: req.TermMonths,
		Purpose:    req.Purpose,
	}
	for _, g := range req.Guarantors {
		in.Guarantors = append(in.Guarantors, loan.GuarantorInput{GuarantorID: g.GuarantorID, Amount: g.Amount})
	}

	l, err := h.uc.Create(c.Request().Context(), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, l)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	l, err := h.uc.Get(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(http.StatusOK, l)
}

func (h *LoanHandler) ListMemberLoans(c echo.Context) error {
	ls, err := h.uc.ListByBorrower(c.Request().Context(), c.Param("member_id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(http.StatusOK, ls)
}

func (h *LoanHandler) ListGuarantees(c echo.Context) error {
	gs, err := h.uc.Guarantees(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(http.StatusOK, gs)
}
