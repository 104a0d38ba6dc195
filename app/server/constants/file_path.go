package constants

// 头像文件
const (
	AvatarSubDir     = "avatars"
	AvatarMaxSize    = 5 << 20 // 5 MiB
	RegisterBodySize = "8M"    // 注册请求体上限，需要能放下头像与其他字段
)
