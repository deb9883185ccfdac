package cli

import (
	"fmt"
	"os"

	"github.com/semmy-space/kc/internal/config"
	"github.com/semmy-space/kc/internal/output"
)

// ConfigGetCmd implements config get command
type ConfigGetCmd struct {
	Key string `arg:"" help:"Config key to get (e.g., namespace, backend)" predictor:"configkey"`
}

// Run executes the get command
func (cmd *ConfigGetCmd) Run(cfg *config.Config, fp *FormatterProvider) error {
	value, err := cfg.Get(cmd.Key)
	if err != nil {
		return unknownKeyError(cmd.Key)
	}

	return fp.Formatter.PrintValue(cmd.Key, value)
}

// ConfigSetCmd implements config set command
type ConfigSetCmd struct {
	Key   string `arg:"" help:"Config key to set" predictor:"configkey"`
	Value string `arg:"" help:"Value to set"`
}

// Run executes the set command
func (cmd *ConfigSetCmd) Run(cfg *config.Config, fp *FormatterProvider) error {
	if _, err := cfg.Get(cmd.Key); err != nil {
		return unknownKeyError(cmd.Key)
	}

	if err := cfg.Validate(cmd.Key, cmd.Value); err != nil {
		return &output.CLIError{
			Message:  err.Error(),
			ExitCode: output.ExitUsage,
		}
	}

	if err := cfg.Set(cmd.Key, cmd.Value); err != nil {
		return &output.CLIError{
			Message:  fmt.Sprintf("Failed to set config: %v", err),
			ExitCode: output.ExitError,
		}
	}

	return fp.Formatter.PrintResult(output.Result{
		Action:  "config set",
		Key:     cmd.Key,
		Message: fmt.Sprintf("Set %s = %s", cmd.Key, cmd.Value),
	})
}

// ConfigUnsetCmd implements config unset command
type ConfigUnsetCmd struct {
	Key string `arg:"" help:"Config key to remove" predictor:"configkey"`
}

// Run executes the unset command
func (cmd *ConfigUnsetCmd) Run(cfg *config.Config, fp *FormatterProvider) error {
	if _, err := cfg.Get(cmd.Key); err != nil {
		return unknownKeyError(cmd.Key)
	}

	if err := cfg.Unset(cmd.Key); err != nil {
		return &output.CLIError{
			Message:  fmt.Sprintf("Failed to unset config: %v", err),
			ExitCode: output.ExitError,
		}
	}

	return fp.Formatter.PrintResult(output.Result{
		Action:  "config unset",
		Key:     cmd.Key,
		Message: fmt.Sprintf("Unset %s", cmd.Key),
	})
}

// ConfigListConfigCmd implements config list command
type ConfigListConfigCmd struct{}

// Run executes the list command
func (cmd *ConfigListConfigCmd) Run(cfg *config.Config, fp *FormatterProvider) error {
	type ConfigItem struct {
		Key   string
		Value string
	}

	var items []ConfigItem
	for _, key := range config.Keys() {
		value, _ := cfg.Get(key)
		items = append(items, ConfigItem{Key: key, Value: value})
	}

	cols := []output.Column{
		{Name: "Key", Key: "Key"},
		{Name: "Value", Key: "Value", Width: 60},
	}

	return fp.Formatter.PrintList(items, cols)
}

// ConfigPathCmd implements config path command
type ConfigPathCmd struct{}

// Run executes the path command
func (cmd *ConfigPathCmd) Run(cfg *config.Config, fp *FormatterProvider) error {
	path := cfg.Path()

	if err := fp.Formatter.PrintValue("path", path); err != nil {
		return err
	}

	// Existence hint goes to stderr so stdout stays scriptable
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fp.Formatter.PrintHint("file does not exist yet - will be created on first write")
	}

	return nil
}

func unknownKeyError(key string) *output.CLIError {
	return output.NewCLIError(output.ExitUsage, fmt.Sprintf("Unknown config key: %s", key)).
		WithHint(fmt.Sprintf("Valid keys: %v", config.Keys()))
}
