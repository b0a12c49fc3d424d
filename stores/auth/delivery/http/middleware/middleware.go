package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/x-xyz/editionmarket/base/ctx"
	"github.com/x-xyz/editionmarket/base/delivery"
	"github.com/x-xyz/editionmarket/domain"
	"github.com/x-xyz/editionmarket/domain/access"
)

// AddressKey is where the authenticated caller is stored in the echo context
const AddressKey = "address"

type AuthMiddleware struct {
	auth     domain.AuthUsecase
	controls access.Controls
}

func New(auth domain.AuthUsecase, controls access.Controls) *AuthMiddleware {
	return &AuthMiddleware{
		auth:     auth,
		controls: controls,
	}
}

func (m *AuthMiddleware) Auth() echo.MiddlewareFunc {
	return middleware.KeyAuth(m.validateAuthToken)
}

func (m *AuthMiddleware) OptionalAuth() echo.MiddlewareFunc {
	return middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		Skipper: func(c echo.Context) bool {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			return len(auth) == 0
		},
		Validator: m.validateAuthToken,
	})
}

// IsAdmin must run after Auth
func (m *AuthMiddleware) IsAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Get("ctx").(ctx.Ctx)

			address := c.Get(AddressKey).(domain.Address)

			if ok, err := m.controls.HasAdminRole(ctx, address); err != nil {
				ctx.WithField("err", err).Error("controls.HasAdminRole failed")
				return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
			} else if !ok {
				return delivery.MakeJsonResp(c, http.StatusForbidden, "require admin privilege")
			}
			return next(c)
		}
	}
}

func (m *AuthMiddleware) validateAuthToken(key string, c echo.Context) (bool, error) {
	ctx := c.Get("ctx").(ctx.Ctx)
	if ads, err := m.auth.ParseToken(ctx, key); err != nil {
		ctx.WithField("err", err).Info("auth.ParseToken failed")
		return false, err
	} else {
		c.Set(AddressKey, ads)
		return true, nil
	}
}
