package commands

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/leapstack-labs/starlint/internal/cli/config"
	"github.com/leapstack-labs/starlint/internal/cli/output"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the command's configuration.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// Helper functions shared across commands

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	// Fallback: read from environment with defaults
	outputFormat := getEnvOrDefault("STARLINT_OUTPUT", config.DefaultOutput)
	failOn := getEnvOrDefault("STARLINT_FAIL_ON", config.DefaultFailOn)
	verbose := os.Getenv("STARLINT_VERBOSE") == "true"
	jobs, _ := strconv.Atoi(os.Getenv("STARLINT_JOBS"))

	return &config.Config{
		Verbose:      verbose,
		OutputFormat: outputFormat,
		FailOn:       failOn,
		Jobs:         jobs,
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
