package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"net/http"
	"user-registration/app/server/constants"
	"user-registration/app/server/middlewares"
	"user-registration/app/server/repositories"
	"user-registration/app/server/types"
	"user-registration/app/server/utils"
)

func (a *App) UserInfoGetSelf(c echo.Context) error {
	jwtUser, ok := middlewares.JWTUser(c)
	if !ok {
		return a.er(c, http.StatusUnauthorized)
	}

	rctx := c.Request().Context()

	// 查询缓存
	var info types.UserInfo
	cacheKey := fmt.Sprintf(constants.CacheKeyUserInfo, jwtUser.ID)
	if cacheBytes, err := a.rdb.Get(rctx, cacheKey).Bytes(); err != nil {
		if !errors.Is(err, redis.Nil) {
			a.l.Error("failed to query cache for user info", zap.Uint("id", jwtUser.ID), zap.Error(err))
		}
	} else if err = json.Unmarshal(cacheBytes, &info); err != nil {
		a.l.Error("failed to unmarshal user info", zap.Uint("id", jwtUser.ID), zap.ByteString("cacheBytes", cacheBytes), zap.Error(err))
		// 可能是无效的缓存，清理掉
		a.rdb.Del(rctx, cacheKey)
	} else {
		return c.JSON(http.StatusOK, &info)
	}

	// 从数据库中获得指定的用户
	user, err := a.users.Get(rctx, jwtUser.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return a.er(c, http.StatusNotFound)
		}
		a.l.Error("failed to get user", zap.Uint("id", jwtUser.ID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	res := utils.UserInfo(user)

	// 格式化并加入缓存，方便下一次查询
	if cacheBytes, err := json.Marshal(res); err != nil {
		a.l.Error("failed to marshal user info", zap.Uint("id", jwtUser.ID), zap.Error(err))
	} else if err = a.rdb.Set(rctx, cacheKey, cacheBytes, constants.CacheExpireUserInfo).Err(); err != nil {
		a.l.Error("failed to cache user info", zap.Uint("id", jwtUser.ID), zap.Error(err))
	}

	return c.JSON(http.StatusOK, res)
}
