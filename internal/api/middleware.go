package api

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ougirez/mapwizard/internal/pkg/constants"
	"github.com/ougirez/mapwizard/internal/pkg/logger"
)

// SessionMiddleware only lets requests through whose token was issued for
// the session named in the path.
func (svc *APIService) SessionMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		raw := ""
		if cookie, err := ctx.Cookie(constants.CookieKeySessionToken); err == nil {
			raw = cookie.Value
		}
		if auth := ctx.Request().Header.Get(echo.HeaderAuthorization); raw == "" && strings.HasPrefix(auth, "Bearer ") {
			raw = strings.TrimPrefix(auth, "Bearer ")
		}

		sessionID := ctx.Param("id")
		if err := svc.authService.VerifySessionToken(raw, sessionID); err != nil {
			return err
		}

		ctx.Set(constants.CtxKeySessionID, sessionID)
		reqCtx := logger.With(ctx.Request().Context(), constants.CtxKeySessionID, sessionID)
		ctx.SetRequest(ctx.Request().WithContext(reqCtx))

		return next(ctx)
	}
}
