package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/postboard/internal/core/domain"
	"github.com/sirpyerre/postboard/internal/core/identity"
)

// currentUser returns the identity stored by the Auth middleware. A protected
// route reached without one is a wiring fault, answered as a 401 rather than
// served anonymously.
func currentUser(c echo.Context) (domain.User, error) {
	user, ok := identity.FromContext(c.Request().Context())
	if !ok {
		return domain.User{}, domain.ErrUnauthorized
	}
	return user, nil
}

// postIDParam parses the :postId path segment.
func postIDParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("postId"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "postId must be a positive integer")
	}
	return id, nil
}

// bindAndValidate decodes the request body into req and runs the registered
// validator on it.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}
