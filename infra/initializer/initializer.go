// Package initializer builds the process-wide dependencies from config.
package initializer

import (
	"github.com/amirasaad/walletchat/app"
	"github.com/amirasaad/walletchat/pkg/config"
	"github.com/amirasaad/walletchat/pkg/lava"
	"github.com/amirasaad/walletchat/pkg/provider/openai"
)

// InitializeDependencies wires the payments client and the model-completion
// client from config. The model client is rooted at the payments proxy's
// forward URL so every completion is metered.
func InitializeDependencies(cfg *config.App) (app.Deps, error) {
	logger := setupLogger(cfg.Log)

	lavaClient := lava.NewClient(cfg.Lava, logger)
	completions := openai.NewClient(lavaClient.ForwardURL(), logger)

	return app.Deps{
		Lava:        lavaClient,
		Completions: completions,
		Logger:      logger,
		Config:      cfg,
	}, nil
}
