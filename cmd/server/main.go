package main

import (
	"fmt"

	appbuilder "github.com/amirasaad/walletchat/app"
	"github.com/amirasaad/walletchat/infra/initializer"
	"github.com/amirasaad/walletchat/pkg/config"
	log "github.com/charmbracelet/log"
)

// @title Wallet Chat Demo API
// @version 1.0.0
// @description Demo API connecting a payment wallet to a metered AI chat.
// @host localhost:3000
// @BasePath /
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	deps.Logger.Info(
		"starting server",
		"env", cfg.Env,
		"scheme", cfg.Server.Scheme,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	fiberApp := appbuilder.New(deps)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	return fiberApp.Listen(addr)
}
