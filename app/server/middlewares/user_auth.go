package middlewares

import (
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"net/http"
	"user-registration/app/server/constants"
	"user-registration/app/server/jwt"
	"user-registration/app/server/types"
)

// UserAuth 校验 Authorization: Bearer <token> ，成功后把 *jwt.User 放在 constants.ContextKeyUser 下
func UserAuth(j *jwt.JWT, l *zap.Logger) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey: constants.ContextKeyUser,
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			return j.ParseUser(auth)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			l.Debug("failed to authenticate user", zap.Error(err))
			return c.JSON(http.StatusUnauthorized, &types.ErrorMessage{
				Message: http.StatusText(http.StatusUnauthorized),
			})
		},
	})
}

// JWTUser 取出 UserAuth 放入的用户
func JWTUser(c echo.Context) (*jwt.User, bool) {
	user, ok := c.Get(constants.ContextKeyUser).(*jwt.User)
	return user, ok
}
