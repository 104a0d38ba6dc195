package repositories

import (
	"context"
	"errors"
	"user-registration/app/server/models"
)

var ErrUserNotFound = errors.New("user not found")

// UserStore 用户记录的持久化
type UserStore interface {
	// Create 保存新用户并回填 ID ，缺少必填字段时返回 models.ErrValidation
	Create(ctx context.Context, user *models.User) error
	Get(ctx context.Context, id uint) (*models.User, error)
}
