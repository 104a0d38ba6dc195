package inits

import (
	"errors"
	"fmt"
	"github.com/joho/godotenv"
	"io/fs"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"user-registration/app/server/config"
)

func Config() (*config.Config, error) {
	// 如果有 .env 文件就先加载，已经存在的环境变量不会被覆盖
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg config.Config
	{
		mode, exist := os.LookupEnv("MODE")
		cfg.System.IsProd = exist && strings.HasPrefix(strings.ToLower(mode), "p")
	}

	if listen, exist := os.LookupEnv("LISTEN"); !exist {
		cfg.System.Listen = ":1323" // 默认监听地址
	} else {
		cfg.System.Listen = listen
	}

	if dbconn, exist := os.LookupEnv("DB_CONN"); !exist {
		return nil, fmt.Errorf("DB_CONN environment variable not set")
	} else {
		cfg.System.DBConnectionString = dbconn
	}

	if redisconn, exist := os.LookupEnv("REDIS_CONN"); !exist {
		return nil, fmt.Errorf("REDIS_CONN environment variable not set")
	} else {
		cfg.System.RedisConnectionString = redisconn
	}

	if brokers, exist := os.LookupEnv("KAFKA_BROKERS"); exist && brokers != "" {
		for _, broker := range strings.Split(brokers, ",") {
			if broker = strings.TrimSpace(broker); broker != "" {
				cfg.System.KafkaBrokers = append(cfg.System.KafkaBrokers, broker)
			}
		}
	}

	if nets, exist := os.LookupEnv("APIDOCS_ALLOW"); exist && nets != "" {
		for _, n := range strings.Split(nets, ",") {
			if n = strings.TrimSpace(n); n == "" {
				continue
			}
			prefix, err := parsePrefix(n)
			if err != nil {
				return nil, fmt.Errorf("APIDOCS_ALLOW should be a list of IPs or CIDRs: %w", err)
			}
			cfg.System.APIDocsAllowedNets = append(cfg.System.APIDocsAllowedNets, prefix)
		}
	}

	if sigsk, exist := os.LookupEnv("JWT_SECRET_KEY"); !exist {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable not set")
	} else {
		cfg.Security.SignatureSecretKey = sigsk
	}

	if limitStr, exist := os.LookupEnv("REGISTER_RATE_LIMIT"); !exist {
		cfg.Security.RegisterRateLimit = 1 // 默认每秒一次
	} else if limit, err := strconv.ParseFloat(limitStr, 64); err != nil || limit <= 0 {
		return nil, fmt.Errorf("REGISTER_RATE_LIMIT should be a positive number")
	} else {
		cfg.Security.RegisterRateLimit = limit
	}

	if dir, exist := os.LookupEnv("UPLOAD_DIR"); !exist {
		cfg.Storage.UploadDir = "./uploads"
	} else {
		cfg.Storage.UploadDir = dir
	}

	if prefix, exist := os.LookupEnv("UPLOAD_URL_PREFIX"); !exist {
		cfg.Storage.UploadURLPrefix = "/uploads"
	} else {
		cfg.Storage.UploadURLPrefix = "/" + strings.Trim(prefix, "/")
	}

	return &cfg, nil
}

// parsePrefix 单个地址视为只包含自身的网段
func parsePrefix(s string) (netip.Prefix, error) {
	if strings.Contains(s, "/") {
		return netip.ParsePrefix(s)
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Prefix{}, err
	}
	return netip.PrefixFrom(addr, addr.BitLen()), nil
}
