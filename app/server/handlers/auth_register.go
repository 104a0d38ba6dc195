package handlers

import (
	"errors"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"net/http"
	"user-registration/app/server/events"
	"user-registration/app/server/models"
	"user-registration/app/server/storage"
	"user-registration/app/server/types"
	"user-registration/app/server/utils"
)

func (a *App) Register(c echo.Context) error {
	rctx := c.Request().Context()

	// 绑定表单
	var req models.RegisterInput
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind register form", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	// 校验文本字段与头像，一次性返回所有缺失的字段
	var fields []models.FieldError
	if err := c.Validate(&req); err != nil {
		var ve *models.ValidationError
		if !errors.As(err, &ve) {
			a.l.Error("failed to validate register form", zap.Error(err))
			return a.er(c, http.StatusInternalServerError)
		}
		fields = append(fields, ve.Fields...)
	}

	fh, err := c.FormFile("image")
	if err != nil {
		if !errors.Is(err, http.ErrMissingFile) {
			a.l.Error("failed to get image from form", zap.Error(err))
			return a.er(c, http.StatusBadRequest)
		}
		fields = append(fields, models.FieldError{Field: "image", Rule: "required"})
	}

	if len(fields) > 0 {
		return a.erValidation(c, &models.ValidationError{Fields: fields})
	}

	// 保存头像
	f, err := fh.Open()
	if err != nil {
		a.l.Error("failed to open uploaded image", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}
	imageRef, err := a.avatars.SaveAvatar(f)
	_ = f.Close()
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotImage):
			return a.erValidation(c, &models.ValidationError{Fields: []models.FieldError{{Field: "image", Rule: "image"}}})
		case errors.Is(err, storage.ErrTooLarge):
			return a.erd(c, http.StatusRequestEntityTooLarge, http.StatusText(http.StatusRequestEntityTooLarge), "image is too large")
		default:
			a.l.Error("failed to save avatar", zap.Error(err))
			return a.er(c, http.StatusInternalServerError)
		}
	}

	// 创建用户，密码在这里转换为哈希
	user, err := models.NewUser(req, imageRef)
	if err != nil {
		a.removeAvatar(imageRef)
		if errors.Is(err, models.ErrValidation) {
			return a.erValidation(c, err)
		}
		a.l.Error("failed to build user", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	if err = a.users.Create(rctx, user); err != nil {
		a.removeAvatar(imageRef)
		if errors.Is(err, models.ErrValidation) {
			return a.erValidation(c, err)
		}
		a.l.Error("failed to create user", zap.String("username", user.Username), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	res := types.RegisterResponse{
		Message: "Registration successful",
		UserID:  utils.UintToString(user.ID),
	}

	// 签出 JWT ，失败时用户已经创建，只是不返回令牌
	if token, err := a.jwt.SignUser(user); err != nil {
		a.l.Error("failed to sign token", zap.Uint("id", user.ID), zap.Error(err))
	} else {
		res.Token = token.Value
	}

	// 发布注册事件，失败不影响注册结果
	if err := a.events.PublishUserRegistered(rctx, events.NewUserRegistered(user)); err != nil {
		a.l.Error("failed to publish user registered event", zap.Uint("id", user.ID), zap.Error(err))
	}

	return c.JSON(http.StatusCreated, &res)
}

func (a *App) removeAvatar(ref string) {
	if err := a.avatars.Remove(ref); err != nil {
		a.l.Error("failed to remove avatar", zap.String("ref", ref), zap.Error(err))
	}
}
