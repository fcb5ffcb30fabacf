package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"taskboard/internal/app"
	"taskboard/internal/config"
	"taskboard/internal/logger"
)

func main() {
	migrateDirection := flag.String("migrate", "", "применить миграции (up|down) и выйти")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *migrateDirection != "" {
		if err := logger.Init(cfg.Logging.Development, cfg.Logging.Level); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer logger.Sync()

		if err := app.RunMigrations(ctx, cfg, *migrateDirection); err != nil {
			logger.Error("App: Ошибка миграции", err)
			os.Exit(1)
		}
		logger.Info("App: Миграции выполнены")
		return
	}

	application, err := app.New(cfg).Init(ctx)
	if err != nil {
		logger.Error("App: Ошибка инициализации", err)
		logger.Sync()
		os.Exit(1)
	}

	if err := application.Run(ctx); err != nil {
		logger.Error("App: Сервер остановлен с ошибкой", err)
		os.Exit(1)
	}
}
