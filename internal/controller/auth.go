package controller

import (
	"errors"
	"net/http"

	"openbid/internal/auth"

	"github.com/labstack/echo"
)

const identityContextKey = "identity"

// identityMiddleware resolves the request's identity when credentials
// are present and stashes it in the echo context. Requests without
// credentials pass through unauthenticated; routes that need an
// identity enforce it via requireIdentity.
func identityMiddleware(verifier auth.Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, err := verifier.Verify(c.Request())
			if err != nil {
				if errors.Is(err, auth.ErrNoCredentials) {
					return next(c)
				}

				return c.JSON(http.StatusUnauthorized, errorResponse{Code: "unauthorized", Reason: "Credentials failed verification"})
			}

			c.Set(identityContextKey, identity)

			return next(c)
		}
	}
}

func currentIdentity(c echo.Context) (*auth.Identity, bool) {
	identity, ok := c.Get(identityContextKey).(*auth.Identity)
	return identity, ok
}

// requireIdentity returns the identity or writes the 401. Callers
// must stop when ok is false.
func requireIdentity(c echo.Context) (*auth.Identity, bool, error) {
	identity, ok := currentIdentity(c)
	if !ok {
		return nil, false, c.JSON(http.StatusUnauthorized, errorResponse{Code: "unauthorized", Reason: "Authentication required"})
	}

	return identity, true, nil
}
