package config

import "net/netip"

type Config struct {
	System struct {
		IsProd                bool           // 是否为生产环境
		Listen                string         // 监听地址
		DBConnectionString    string         // Postgres 数据库的连接字符串
		RedisConnectionString string         // Redis 数据库的连接字符串（ redis:// 格式）
		KafkaBrokers          []string       // Kafka 节点列表，为空时不发布注册事件
		APIDocsAllowedNets    []netip.Prefix // 允许访问 API 文档的网段，为空时不限制
	}
	Security struct {
		SignatureSecretKey string  // 签名密钥，用于签发 JWT ，更新会导致旧有会话失效
		RegisterRateLimit  float64 // 注册接口每个客户端每秒允许的请求数
	}
	Storage struct {
		UploadDir       string // 头像文件在本地的储存目录
		UploadURLPrefix string // 头像文件对外访问的路径前缀
	}
}
