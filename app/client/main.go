package main

import (
	"context"
	"flag"
	"fmt"
	"go.uber.org/zap"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"user-registration/app/client/form"
	"user-registration/app/client/inits"
)

func main() {
	username := flag.String("username", "", "username")
	email := flag.String("email", "", "email address")
	phone := flag.String("phone", "", "phone number")
	password := flag.String("password", "", "password")
	image := flag.String("image", "", "path to avatar image")
	flag.Parse()

	// 初始化配置
	cfg, err := inits.Config()
	if err != nil {
		log.Fatal(fmt.Errorf("error loading config: %w", err))
	}

	// 初始化日志
	l, err := inits.Logger(!cfg.IsProd)
	if err != nil {
		log.Fatal(fmt.Errorf("error initializing logger: %w", err))
	}
	defer l.Sync()

	l.Debug("logger initialized")

	// 准备表单
	navigator := form.NewLogNavigator(l, "/register")
	f := form.New(cfg, form.NewLogNotifier(l), navigator, l,
		form.WithLoadingHook(func(loading bool) {
			if loading {
				l.Info("submitting...")
			}
		}),
	)

	for name, value := range map[string]string{
		"username": *username,
		"email":    *email,
		"phone":    *phone,
		"password": *password,
	} {
		if err = f.HandleInput(name, value); err != nil {
			l.Fatal("failed to fill form", zap.String("field", name), zap.Error(err))
		}
	}

	if *image != "" {
		data, err := os.ReadFile(*image)
		if err != nil {
			l.Fatal("failed to read image", zap.String("path", *image), zap.Error(err))
		}
		if err = f.HandleFile("image", filepath.Base(*image), data); err != nil {
			l.Fatal("failed to attach image", zap.Error(err))
		}
	}

	// 提交
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	outcome := f.Submit(ctx)
	stop()

	l.Debug("register finished", zap.Stringer("outcome", outcome), zap.String("page", navigator.Current()))
	if outcome != form.Succeeded {
		_ = l.Sync()
		os.Exit(1)
	}
}
