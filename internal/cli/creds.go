package cli

import (
	"errors"
	"fmt"

	"github.com/semmy-space/kc/internal/output"
	"github.com/semmy-space/kc/internal/secrets"
)

// SetCmd implements the set command
type SetCmd struct {
	Key   string `arg:"" help:"Name of the secret"`
	Value string `arg:"" help:"Secret value"`
}

// Run executes the set command
func (cmd *SetCmd) Run(stores *StoreProvider, fp *FormatterProvider) error {
	if cmd.Key == "" {
		return emptyKeyError("set")
	}

	store, err := stores.Open(false)
	if err != nil {
		return err
	}

	if err := store.Set(cmd.Key, cmd.Value); err != nil {
		return storeError("set", cmd.Key, err)
	}

	return fp.Formatter.PrintResult(output.Result{
		Action:  "set",
		Key:     cmd.Key,
		Message: fmt.Sprintf("Successfully set '%s' in keychain", cmd.Key),
	})
}

// GetCmd implements the get command
type GetCmd struct {
	Key    string `arg:"" help:"Name of the secret"`
	Silent bool   `help:"Suppress error messages"`
}

// Run executes the get command
func (cmd *GetCmd) Run(stores *StoreProvider, fp *FormatterProvider) error {
	if cmd.Key == "" {
		return emptyKeyError("get").Quiet(cmd.Silent)
	}

	store, err := stores.Open(cmd.Silent)
	if err != nil {
		return err
	}

	value, err := store.Get(cmd.Key)
	if err != nil {
		return storeError("get", cmd.Key, err).Quiet(cmd.Silent)
	}

	return fp.Formatter.PrintValue(cmd.Key, value)
}

// DeleteCmd implements the delete command
type DeleteCmd struct {
	Key string `arg:"" help:"Name of the secret"`
}

// Run executes the delete command
func (cmd *DeleteCmd) Run(stores *StoreProvider, fp *FormatterProvider) error {
	if cmd.Key == "" {
		return emptyKeyError("delete")
	}

	store, err := stores.Open(false)
	if err != nil {
		return err
	}

	if err := store.Delete(cmd.Key); err != nil {
		return storeError("delete", cmd.Key, err)
	}

	return fp.Formatter.PrintResult(output.Result{
		Action:  "delete",
		Key:     cmd.Key,
		Message: fmt.Sprintf("Successfully deleted '%s' from keychain", cmd.Key),
	})
}

func emptyKeyError(action string) *output.CLIError {
	return output.NewCLIError(output.ExitUsage, fmt.Sprintf("'%s' command requires a non-empty KEY", action))
}

// storeError maps credential store errors to user-facing errors
func storeError(action, key string, err error) *output.CLIError {
	var unexpected *secrets.UnexpectedError

	switch {
	case errors.Is(err, secrets.ErrNotFound):
		return output.NewCLIError(output.ExitError, fmt.Sprintf("Key '%s' not found in keychain", key))
	case errors.Is(err, secrets.ErrInvalidKey):
		return emptyKeyError(action)
	case errors.As(err, &unexpected):
		return output.NewCLIError(output.ExitError, fmt.Sprintf("Failed to %s key - %v", action, err)).
			WithHint("Run with --verbose for details from the credential store")
	default:
		return output.NewCLIError(output.ExitError, fmt.Sprintf("Failed to %s key - %v", action, err))
	}
}
