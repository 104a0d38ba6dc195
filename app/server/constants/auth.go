package constants

import "time"

const (
	AuthTokenDuration = 30 * 24 * time.Hour // 注册后签发的令牌有效期 30 天
	AuthTokenIssuer   = "user-registration"
)

// echo context 中使用的键
const (
	ContextKeyUser = "user"
)
