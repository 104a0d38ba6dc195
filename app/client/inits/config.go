package inits

import (
	"errors"
	"fmt"
	"github.com/joho/godotenv"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"user-registration/app/client/config"
)

func Config() (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg config.Config
	{
		mode, exist := os.LookupEnv("MODE")
		cfg.IsProd = exist && strings.HasPrefix(strings.ToLower(mode), "p")
	}

	if serverEp, exist := os.LookupEnv("SERVER_ENDPOINT"); !exist {
		return nil, fmt.Errorf("SERVER_ENDPOINT environment variable not set")
	} else if _, err := url.ParseRequestURI(serverEp); err != nil {
		return nil, fmt.Errorf("SERVER_ENDPOINT should be a valid url: %w", err)
	} else {
		cfg.ServerEndpoint = serverEp
	}

	if landing, exist := os.LookupEnv("LANDING_ROUTE"); !exist {
		cfg.LandingRoute = "/" // 默认回到首页
	} else {
		cfg.LandingRoute = landing
	}

	return &cfg, nil
}
