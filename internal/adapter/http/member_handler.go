package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"chamasave-backend/internal/usecase/ledger"
	"chamasave-backend/internal/usecase/member"
)

type MemberHandler struct {
	uc     *member.Usecase
	ledger *ledger.Service
}

func NewMemberHandler(uc *member.Usecase, svc *ledger.Service) *MemberHandler {
	return &MemberHandler{uc: uc, ledger: svc}
}

type registerMemberReq struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email"     validate:"omitempty,email"`
}

func (h *MemberHandler) RegisterMember(c echo.Context) error {
	var req registerMemberReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	m, err := h.uc.Register(c.Request().Context(), member.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *MemberHandler) GetMember(c echo.Context) error {
	m, err := h.uc.Get(c.Request().Context(), c.Param("member_id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

type depositReq struct {
	Amount       float64 `json:"amount" validate:"required,gt=0,dec2"`
	Contribution bool    `json:"contribution"`
}

func (h *MemberHandler) Deposit(c echo.Context) error {
	var req depositReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	t, err := h.ledger.Deposit(c.Request().Context(), c.Param("member_id"), req.Amount, req.Contribution, actorID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

type withdrawReq struct {
	Amount float64 `json:"amount" validate:"required,gt=0,dec2"`
}

func (h *MemberHandler) Withdraw(c echo.Context) error {
	var req withdrawReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	t, err := h.ledger.Withdraw(c.Request().Context(), c.Param("member_id"), req.Amount, actorID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *MemberHandler) ListTransactions(c echo.Context) error {
	ts, err := h.ledger.Transactions(c.Request().Context(), c.Param("member_id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(http.StatusOK, ts)
}
