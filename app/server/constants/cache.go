package constants

import "time"

const (
	CacheKeyUserInfo = "auth:user:info:%d"
)

const (
	CacheExpireUserInfo = 1 * time.Hour
)
