package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/starlint/internal/cli/config"
	"github.com/leapstack-labs/starlint/internal/cli/output"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a starter starlint configuration",
		Long: `Create a starter starlint.yaml in the target directory.

The generated file documents the available settings: output format,
failure threshold, disabled rules, per-rule severity overrides, and
per-rule options.`,
		Example: `  # Initialize in current directory
  starlint init

  # Initialize in a new directory
  starlint init my-project

  # Force overwrite existing config
  starlint init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			// Create renderer
			cfg := getConfig()
			mode := output.Mode(cfg.OutputFormat)
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

			return runInit(r, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

// starterConfig mirrors the configuration file layout for scaffolding.
// config.Config carries koanf tags, so the starter needs its own yaml view.
type starterConfig struct {
	Output string      `yaml:"output"`
	FailOn string      `yaml:"fail_on"`
	Lint   starterLint `yaml:"lint"`
}

type starterLint struct {
	Disabled []string                  `yaml:"disabled"`
	Severity map[string]string         `yaml:"severity"`
	Rules    map[string]map[string]any `yaml:"rules"`
}

const starterHeader = `# starlint configuration.
#
# output:   auto|text|markdown|json
# fail_on:  minimum severity that fails the run (error|warning|info|hint)
# lint:
#   disabled:  rule ids to turn off, e.g. [unused_import]
#   severity:  per-rule overrides, e.g. {duplicate_dict_keys: error}
#   rules:     per-rule options; run 'starlint rules <rule-id>' for the keys
`

func defaultStarter() starterConfig {
	return starterConfig{
		Output: config.DefaultOutput,
		FailOn: config.DefaultFailOn,
		Lint: starterLint{
			Disabled: []string{},
			Severity: map[string]string{},
			Rules: map[string]map[string]any{
				"unused_variable": {"ignore_prefix": "_"},
			},
		},
	}
}

func runInit(r *output.Renderer, dir string, force bool) error {
	// Create directory if specified and doesn't exist
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	// Check if config already exists
	configPath := filepath.Join(dir, "starlint.yaml")
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("starlint.yaml already exists. Use --force to overwrite")
	}

	data, err := yaml.Marshal(defaultStarter())
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}

	if err := os.WriteFile(configPath, append([]byte(starterHeader), data...), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}

	r.StatusLine(configPath, "success", "")
	r.Println("")
	r.Success("starlint configuration created!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Run 'starlint check <path>' to lint your Starlark files")
	r.Println("  2. Run 'starlint rules' to see available rules")
	r.Println("  3. Adjust starlint.yaml to disable rules or change severities")

	return nil
}
