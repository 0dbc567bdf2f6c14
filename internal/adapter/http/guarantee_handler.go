package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"chamasave-backend/internal/usecase/guarantee"
)

type GuaranteeHandler struct{ uc *guarantee.Usecase }

func NewGuaranteeHandler(uc *guarantee.Usecase) *GuaranteeHandler {
	return &GuaranteeHandler{uc: uc}
}

type decisionReq struct {
	// pointer so an explicit false survives required validation
	Accept *bool `json:"accept" validate:"required"`
}

// SubmitDecision records a guarantor's accept/decline for a loan in
// guarantor review and returns where the decision left the loan.
func (h *GuaranteeHandler) SubmitDecision(c echo.Context) error {
	loanID := c.Param("loan_id")
	guarantorID := c.Param("member_id")
	if loanID == "" || !reHex32.MatchString(guarantorID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid path params"})
	}

	var req decisionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	res, err := h.uc.SubmitDecision(c.Request().Context(), loanID, guarantorID, *req.Accept)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
