package jwt

import (
	"errors"
	"fmt"
	"github.com/golang-jwt/jwt/v5"
	"strconv"
	"time"
	"user-registration/app/server/constants"
	"user-registration/app/server/models"
)

var (
	ErrEmptyKey     = errors.New("key is empty")
	ErrNotPersisted = errors.New("user has not been persisted")
)

type JWT struct {
	key []byte
	now func() time.Time
}

// Claims 令牌中携带的身份信息
type Claims struct {
	UserID  string `json:"userId"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

type User struct {
	ID      uint
	Email   string
	IsAdmin bool
	Expires int64 // Unix second
}

// Token 签发结果
type Token struct {
	Value     string
	ExpiresAt time.Time
}

func New(key string) (*JWT, error) {
	if len(key) == 0 {
		return nil, ErrEmptyKey
	}

	return &JWT{key: []byte(key), now: time.Now}, nil
}

func (j *JWT) ParseUser(tokenString string) (*User, error) {
	// 检查是否有效
	if len(tokenString) == 0 {
		return nil, errors.New("token string is empty")
	}

	// 映射字段
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.key, nil
	}, jwt.WithTimeFunc(j.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("parse jwt failed: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	// 匹配内容
	id, err := strconv.ParseUint(claims.UserID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid user id in token: %w", err)
	}

	return &User{
		ID:      uint(id),
		Email:   claims.Email,
		IsAdmin: claims.IsAdmin,
		Expires: claims.ExpiresAt.Unix(),
	}, nil
}

// SignUser 为已经保存的用户签发令牌，有效期为 constants.AuthTokenDuration
func (j *JWT) SignUser(user *models.User) (*Token, error) {
	if user == nil || user.ID == 0 {
		return nil, ErrNotPersisted
	}

	now := j.now()
	expires := now.Add(constants.AuthTokenDuration)

	// 创建声明
	claims := &Claims{
		UserID:  strconv.FormatUint(uint64(user.ID), 10),
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    constants.AuthTokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	// 创建令牌并签名
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.key)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &Token{
		Value:     signed,
		ExpiresAt: time.Unix(expires.Unix(), 0),
	}, nil
}
