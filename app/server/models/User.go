package models

import (
	"fmt"
	"github.com/alexedwards/argon2id"
	"gorm.io/gorm"
)

// HashParams 密码哈希使用的参数
var HashParams = argon2id.DefaultParams

type User struct {
	gorm.Model

	// 基础信息
	Username string `gorm:"column:username;not null" json:"username" validate:"required"` // 用户名，本层不要求唯一
	Email    string `gorm:"column:email;not null" json:"email" validate:"required"`       // 邮箱，本层只检查非空
	Phone    string `gorm:"column:phone;not null" json:"phone" validate:"required"`       // 手机号
	IsAdmin  bool   `gorm:"column:is_admin;not null;default:false" json:"isAdmin"`        // 是否为管理员，注册流程不会设置

	// 头像，只储存地址而非文件本身
	Image string `gorm:"column:image;not null" json:"image" validate:"required"`

	// 密码，使用 argon2id 储存，永远不会是明文
	Password string `gorm:"column:password;not null" json:"-" validate:"required"`
}

// RegisterInput 注册表单中的文本字段
type RegisterInput struct {
	Username string `form:"username" validate:"required"`
	Email    string `form:"email" validate:"required"`
	Phone    string `form:"phone" validate:"required,len=10,number"`
	Password string `form:"password" validate:"required"`
}

// NewUser 校验注册信息并产生待保存的用户，密码在这里转换为哈希
func NewUser(input RegisterInput, imageRef string) (*User, error) {
	if err := Validate(&input); err != nil {
		return nil, err
	}
	if imageRef == "" {
		return nil, &ValidationError{Fields: []FieldError{{Field: "image", Rule: "required"}}}
	}

	passwordHash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	return &User{
		Username: input.Username,
		Email:    input.Email,
		Phone:    input.Phone,
		Password: passwordHash,
		Image:    imageRef,
	}, nil
}

func HashPassword(password string) (string, error) {
	hash, err := argon2id.CreateHash(password, HashParams)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}

// CheckPassword 使用储存的盐与参数重新计算哈希并比较
func (u *User) CheckPassword(password string) (bool, error) {
	match, err := argon2id.ComparePasswordAndHash(password, u.Password)
	if err != nil {
		return false, fmt.Errorf("failed to check password: %w", err)
	}
	return match, nil
}

// Validate 检查保存前必须存在的字段
func (u *User) Validate() error {
	return Validate(u)
}
