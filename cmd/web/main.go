package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"kgeyst.com/iris/pkg/common"
	"kgeyst.com/iris/pkg/iris/api"
	"kgeyst.com/iris/pkg/iris/infrastructure/web"
)

func main() {
	err := mainImpl()
	if err != nil {
		panic(err)
	}
}

func mainImpl() error {
	_ = godotenv.Load() // .env is optional
	config, err := common.LoadConfig("config.yaml")
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := api.NewLogger(config)
	registry := prometheus.NewRegistry()
	player := web.NewPlayer(config)
	iris, err := api.NewAPI(ctx, config, player, logger, registry)
	if err != nil {
		return err
	}
	server := web.NewServer(iris, player, registry, config, logger)
	return server.ListenAndServe(ctx, config.GetStringOrDefault(web.ConfigKeyAddress, "localhost:8080"))
}
