package main

import (
	"context"
	"log"

	"stockreport-backend/internal/bootstrap"
	"stockreport-backend/internal/shared/config"
	"stockreport-backend/internal/shared/server"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	app, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close(ctx)

	addr := server.Addr(cfg.Port)
	log.Printf("Starting API server on %s (store=%s)", addr, app.StoreName)

	if err := app.Router.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
