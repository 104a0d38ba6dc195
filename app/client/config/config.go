package config

type Config struct {
	// 基础配置
	IsProd bool

	// 与 Server 通信配置
	ServerEndpoint string // 注册请求发往 {ServerEndpoint}/api/auth/register

	// 注册成功后跳转的页面
	LandingRoute string
}
