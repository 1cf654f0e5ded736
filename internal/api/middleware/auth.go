package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sirpyerre/postboard/internal/core/domain"
	"github.com/sirpyerre/postboard/internal/core/identity"
	"github.com/sirpyerre/postboard/internal/core/ports"
	"github.com/sirpyerre/postboard/internal/pkg/metrics"
)

const loginRequired = "login required"

// Auth resolves the bearer token to a user and stores it in the request
// context. Every rejection answers 401 with the same message; the failing
// stage is only logged and counted.
func Auth(authn ports.Authenticator, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return reject(c, log, domain.StageMissingToken, nil)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return reject(c, log, domain.StageMalformedHeader, nil)
			}

			ctx := c.Request().Context()
			user, err := authn.Authenticate(ctx, strings.TrimSpace(parts[1]))
			if err != nil {
				var rej *domain.AuthRejection
				if errors.As(err, &rej) {
					return reject(c, log, rej.Stage, rej.Err)
				}
				return err
			}

			c.SetRequest(c.Request().WithContext(identity.WithUser(ctx, *user)))
			return next(c)
		}
	}
}

func reject(c echo.Context, log zerolog.Logger, stage string, cause error) error {
	metrics.AuthRejectionsTotal.WithLabelValues(stage).Inc()
	log.Debug().
		Err(cause).
		Str("stage", stage).
		Str("path", c.Path()).
		Msg("request rejected")
	return echo.NewHTTPError(http.StatusUnauthorized, loginRequired)
}
