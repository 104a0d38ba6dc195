package main

import (
	"context"
	"errors"
	"fmt"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"log"
	"net/http"
	"net/netip"
	"os"
	"os/signal"
	"syscall"
	"time"
	"user-registration/app/server/apidocs"
	"user-registration/app/server/handlers"
	"user-registration/app/server/inits"
	"user-registration/app/server/jwt"
	"user-registration/app/server/repositories"
	"user-registration/app/server/storage"
)

func main() {
	// 初始化配置
	cfg, err := inits.Config()
	if err != nil {
		log.Fatal(fmt.Errorf("error loading config: %w", err))
	}

	// 初始化日志
	l, err := inits.Logger(!cfg.System.IsProd)
	if err != nil {
		log.Fatal(fmt.Errorf("error initializing logger: %w", err))
	}
	defer l.Sync()

	// 切换日志系统
	l.Debug("logger initialized")

	// 初始化数据库连接
	db, err := inits.DB(cfg.System.DBConnectionString, !cfg.System.IsProd)
	if err != nil {
		l.Fatal("error initializing DB connection", zap.Error(err))
	}
	defer inits.CloseDB(db, l)

	// 初始化 redis 连接
	rdb, err := inits.Redis(cfg.System.RedisConnectionString)
	if err != nil {
		l.Fatal("error initializing Redis connection", zap.Error(err))
	}
	defer rdb.Close()

	// 初始化 JWT ，密钥在这里注入
	j, err := jwt.New(cfg.Security.SignatureSecretKey)
	if err != nil {
		l.Fatal("error initializing JWT", zap.Error(err))
	}

	// 初始化头像储存
	avatars, err := storage.NewLocalStore(cfg.Storage.UploadDir, cfg.Storage.UploadURLPrefix)
	if err != nil {
		l.Fatal("error initializing avatar storage", zap.Error(err))
	}

	// 初始化注册事件
	ev := inits.Events(cfg.System.KafkaBrokers, l)
	defer func() {
		if err := ev.Close(); err != nil {
			l.Error("error closing event publisher", zap.Error(err))
		}
	}()

	// 准备 handler app
	handlerApp := handlers.NewApp(l, repositories.NewGormUserStore(db), rdb, j, avatars, ev)

	// 准备 echo 服务
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			l.Info("request",
				zap.String("method", v.Method),
				zap.String("URI", v.URI),
				zap.Int("status", v.Status),
			)

			return nil
		},
	}))
	e.Use(middleware.Recover())

	// 绑定 echo 服务
	handlers.RegisterHandlers(e, handlerApp, cfg.Security.RegisterRateLimit)

	// 添加 API 文档
	if !cfg.System.IsProd {
		if doc, err := apidocs.Load(context.Background()); err != nil {
			l.Error("error loading api document", zap.Error(err))
		} else if mw, err := apidocs.Doc("/api/auth", doc, docsOpts(cfg.System.APIDocsAllowedNets)...); err != nil {
			l.Error("error initializing api docs", zap.Error(err))
		} else {
			e.Pre(mw)
		}
	}

	// 启动 echo 服务
	go func() {
		if err := e.Start(cfg.System.Listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	// 等待退出信号
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		l.Error("error shutting down the server", zap.Error(err))
	}
}

func docsOpts(nets []netip.Prefix) []apidocs.Opts {
	if len(nets) == 0 {
		return nil
	}
	return []apidocs.Opts{apidocs.WithAuthorizer(apidocs.AllowNetworks(nets))}
}
