package main

import (
	"context"
	"fmt"
	"focusFlow/internal/app"
	"focusFlow/internal/config"
	"focusFlow/internal/logger"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
)

var (
	cli        = kingpin.New("focusflow", "Personal task timer with focus and learning budgets")
	configPath = cli.Flag("config", "Path to config.yml").Short('c').Envar("FOCUSFLOW_CONFIG").Default("config.yml").String()
	port       = cli.Flag("port", "Override server port").String()
	storage    = cli.Flag("storage", "Override storage type (memory, local, postgres, s3)").String()
)

func main() {
	kingpin.MustParse(cli.Parse(os.Args[1:]))

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "загрузка конфигурации: %v\n", err)
		os.Exit(1)
	}
	if *port != "" {
		cfg.Server.Port = *port
	}
	if *storage != "" {
		cfg.Storage.Type = *storage
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "конфигурация: %v\n", err)
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := app.New(cfg)
	if err := a.Init(ctx); err != nil {
		a.Shutdown()
		fmt.Fprintf(os.Stderr, "инициализация: %v\n", err)
		os.Exit(1)
	}

	if err := a.Run(ctx); err != nil {
		logger.Error("Сервер остановлен с ошибкой", err)
		a.Shutdown()
		os.Exit(1)
	}

	logger.Info("Сервер остановлен")
	a.Shutdown()
}
