package cli

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/semmy-space/kc/internal/config"
	"github.com/semmy-space/kc/internal/secrets"
)

// Globals holds global flags available to all commands
type Globals struct {
	Namespace   string      `help:"Keychain service name credentials are stored under" env:"KC_NAMESPACE"`
	Backend     string      `help:"Credential backend" default:"" enum:"auto,keychain,keyring,file," env:"KC_BACKEND"`
	NoSync      bool        `help:"Store new keys as local-only entries" name:"no-sync" env:"KC_NO_SYNC"`
	Output      string      `help:"Output format" default:"" enum:"json,plain,rich,auto," short:"o" env:"KC_OUTPUT"`
	Verbose     bool        `help:"Log credential store activity to stderr" env:"KC_VERBOSE"`
	ShowVersion versionFlag `help:"Show version information" name:"version" short:"v"`
}

// ResolvedOutput returns the effective output mode.
// Flag > config default > auto; "auto" picks rich when out is a terminal, else plain.
func (g *Globals) ResolvedOutput(configured string, out io.Writer) string {
	mode := g.Output
	if mode == "" {
		mode = configured
	}
	if mode != "" && mode != "auto" {
		return mode
	}

	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "rich"
	}

	return "plain"
}

// StoreOptions resolves store settings: flag > config > default
func (g *Globals) StoreOptions(cfg *config.Config, logger *slog.Logger) secrets.Options {
	opts := secrets.DefaultOptions()

	if g.Namespace != "" {
		opts.Namespace = g.Namespace
	} else if cfg.Namespace != "" {
		opts.Namespace = cfg.Namespace
	}

	if g.Backend != "" {
		opts.Backend = g.Backend
	} else if cfg.Backend != "" {
		opts.Backend = cfg.Backend
	}

	opts.Sync = !g.NoSync && !cfg.DisableSync
	opts.FileDir = cfg.FileDir
	opts.FilePassword = os.Getenv("KC_FILE_PASSWORD")
	opts.Logger = logger

	return opts
}
