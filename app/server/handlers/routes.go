package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"user-registration/app/server/constants"
	"user-registration/app/server/middlewares"
	"user-registration/app/server/models"
)

type formValidator struct{}

func (formValidator) Validate(i interface{}) error {
	return models.Validate(i)
}

// RegisterHandlers 绑定所有路由，registerRateLimit 为注册接口每个客户端每秒的请求数
func RegisterHandlers(e *echo.Echo, a *App, registerRateLimit float64) {
	e.Validator = formValidator{}

	api := e.Group("/api")
	api.GET("/healthcheck", a.HealthCheck)

	auth := api.Group("/auth")
	auth.POST("/register", a.Register,
		middlewares.RegisterRateLimit(registerRateLimit),
		middleware.BodyLimit(constants.RegisterBodySize),
	)
	auth.GET("/user", a.UserInfoGetSelf, middlewares.UserAuth(a.jwt, a.l))

	// 头像文件
	e.Static(a.avatars.URLPrefix(), a.avatars.Root())
}
