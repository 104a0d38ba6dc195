package handlers

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"user-registration/app/server/events"
	"user-registration/app/server/jwt"
	"user-registration/app/server/repositories"
	"user-registration/app/server/storage"
)

type App struct {
	l       *zap.Logger            // 日志
	users   repositories.UserStore // 用户记录
	rdb     *redis.Client          // Redis ，缓存用户信息
	jwt     *jwt.JWT               // JWT ，用于无状态验证
	avatars *storage.LocalStore    // 头像文件
	events  events.Publisher       // 注册事件
}

func NewApp(l *zap.Logger, users repositories.UserStore, rdb *redis.Client, j *jwt.JWT, avatars *storage.LocalStore, ev events.Publisher) *App {
	return &App{
		l:       l,
		users:   users,
		rdb:     rdb,
		jwt:     j,
		avatars: avatars,
		events:  ev,
	}
}
