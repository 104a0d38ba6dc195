package handlers

import (
	"errors"
	"github.com/labstack/echo/v4"
	"net/http"
	"user-registration/app/server/models"
	"user-registration/app/server/types"
)

func (a *App) er(c echo.Context, statusCode int) error {
	return c.JSON(statusCode, &types.ErrorMessage{
		Message: http.StatusText(statusCode),
	})
}

func (a *App) erd(c echo.Context, statusCode int, message string, details string) error {
	return c.JSON(statusCode, &types.ErrorMessage{
		Message:      message,
		ExtraDetails: details,
	})
}

// erValidation 字段校验失败，详细信息放在 extraDetails 中由客户端展示
func (a *App) erValidation(c echo.Context, err error) error {
	var ve *models.ValidationError
	if !errors.As(err, &ve) {
		return a.er(c, http.StatusBadRequest)
	}
	return a.erd(c, http.StatusBadRequest, "Fill the input properly", ve.Error())
}
