package http

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// ---- helpers ----

// actorID extracts the acting member for audit attribution. The
// idempotency middleware has already validated the header format on
// mutating routes.
func actorID(c echo.Context) string {
	return strings.TrimSpace(c.Request().Header.Get("X-Member-Id"))
}

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
