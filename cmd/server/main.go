package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"droneDispatch/internal/app"
	"droneDispatch/internal/config"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	log.Printf("configuration loaded: %v", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := app.NewContainerBuilder(cfg).Build(ctx)
	if err != nil {
		log.Fatalf("build container: %v", err)
	}
	if err := app.Run(container); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("run: %v", err)
	}
	log.Println("shutdown complete")
}
