package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/inkblot-io/inkblot/internal/api"
	"github.com/inkblot-io/inkblot/internal/config"
	"github.com/inkblot-io/inkblot/internal/infrastructure"
	"github.com/inkblot-io/inkblot/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed:", err)
	}

	if err := cfg.Finalize(); err != nil {
		log.Fatal("config finalize failed:", err)
	}

	infra, err := infrastructure.New(cfg)
	if err != nil {
		log.Fatal("infrastructure init failed:", err)
	}

	if err := infra.Start(); err != nil {
		log.Fatal("infrastructure start failed:", err)
	}

	handler, domain := api.New(cfg, infra)

	if err := domain.Start(infra.Lifecycle); err != nil {
		log.Fatal("domain start failed:", err)
	}

	srv := server.New(&cfg.Server, handler, infra.Logger)
	if err := srv.Start(infra.Lifecycle); err != nil {
		log.Fatal("server start failed:", err)
	}

	infra.Lifecycle.WaitForStartup()
	infra.Logger.Info("service ready", "addr", cfg.Server.Addr())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan

	if err := infra.Lifecycle.Shutdown(cfg.Server.ShutdownTimeoutDuration()); err != nil {
		log.Fatal("shutdown failed:", err)
	}

	infra.Logger.Info("service stopped gracefully")
}
