package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/99designs/keyring"
	"github.com/alecthomas/kong"
	"github.com/posener/complete"
	"github.com/willabides/kongplete"

	"github.com/semmy-space/kc/internal/config"
	"github.com/semmy-space/kc/internal/output"
	"github.com/semmy-space/kc/internal/secrets"
)

// FormatterProvider wraps the formatter interface for Kong binding
type FormatterProvider struct {
	Formatter output.Formatter
}

// CLI is the root command structure
type CLI struct {
	Globals

	Set    SetCmd    `cmd:"" help:"Set a key in the keychain (creates or updates)"`
	Get    GetCmd    `cmd:"" help:"Get a key from the keychain"`
	Delete DeleteCmd `cmd:"" help:"Delete a key from the keychain"`

	Config             ConfigCmd                    `cmd:"" help:"Configuration commands"`
	InstallCompletions kongplete.InstallCompletions `cmd:"" help:"Install shell completions"`
	Help               HelpCmd                      `cmd:"" help:"Show usage"`
	Version            VersionCmd                   `cmd:"" help:"Show version information"`
	Schema             SchemaCmd                    `cmd:"" hidden:"" help:"Print the command tree as JSON"`
}

// ConfigCmd holds configuration subcommands
type ConfigCmd struct {
	Get   ConfigGetCmd        `cmd:"" help:"Get a configuration value"`
	Set   ConfigSetCmd        `cmd:"" help:"Set a configuration value"`
	Unset ConfigUnsetCmd      `cmd:"" help:"Remove a configuration value"`
	List  ConfigListConfigCmd `cmd:"" name:"list" help:"List all configuration values"`
	Path  ConfigPathCmd       `cmd:"" help:"Show config file path"`
}

// Env carries the process dependencies of a single invocation.
// Zero fields fall back to the real process: os.Stdout, os.Stderr,
// the XDG config file and secrets.NewStore.
type Env struct {
	Stdout     io.Writer
	Stderr     io.Writer
	Version    string
	ConfigPath string
	OpenStore  func(secrets.Options) (secrets.Store, error)
}

func (e Env) withDefaults() Env {
	if e.Stdout == nil {
		e.Stdout = os.Stdout
	}
	if e.Stderr == nil {
		e.Stderr = os.Stderr
	}
	if e.Version == "" {
		e.Version = "dev"
	}
	if e.ConfigPath == "" {
		e.ConfigPath = config.ConfigPath()
	}
	if e.OpenStore == nil {
		e.OpenStore = secrets.NewStore
	}
	return e
}

// exitRequest is raised through kong's Exit hook so --help and --version
// unwind back to Execute instead of terminating the process.
type exitRequest struct {
	code int
}

// Execute parses args, runs the selected command and returns the process exit code.
func Execute(args []string, env Env) (code int) {
	env = env.withDefaults()

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("kc"),
		kong.Description("Store, retrieve and delete secrets in the system keychain"),
		kong.Writers(env.Stdout, env.Stderr),
		kong.Exit(func(code int) { panic(exitRequest{code: code}) }),
		kong.Help(printUsage),
		kong.Vars{
			"version": env.Version,
		},
	)
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return output.ExitError
	}

	defer func() {
		if r := recover(); r != nil {
			req, ok := r.(exitRequest)
			if !ok {
				panic(r)
			}
			code = req.code
		}
	}()

	kongplete.Complete(parser,
		kongplete.WithPredictor("configkey", complete.PredictSet(config.Keys()...)),
	)

	if len(args) == 0 {
		fmt.Fprint(env.Stderr, usage)
		return output.ExitUsage
	}

	ctx, err := parser.Parse(literalSetValue(parser, args))
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		fmt.Fprint(env.Stderr, usage)
		return output.ExitUsage
	}

	cfg, err := config.LoadFrom(env.ConfigPath)
	if err != nil {
		formatter := output.New(cli.ResolvedOutput("", env.Stdout), env.Stdout, env.Stderr)
		return output.Report(formatter, output.NewCLIError(output.ExitError, err.Error()).
			WithHint("Fix or remove "+env.ConfigPath))
	}

	formatter := &FormatterProvider{
		Formatter: output.New(cli.ResolvedOutput(cfg.DefaultOutput, env.Stdout), env.Stdout, env.Stderr),
	}

	logger := newLogger(env.Stderr, cli.Verbose)
	keyring.Debug = cli.Verbose

	options := cli.StoreOptions(cfg, logger)
	options.Stderr = env.Stderr
	stores := &StoreProvider{
		options: options,
		open:    env.OpenStore,
	}

	// Bind dependencies to kong context
	ctx.Bind(cfg)
	ctx.Bind(formatter)
	ctx.Bind(&cli.Globals)
	ctx.Bind(stores)

	return output.Report(formatter.Formatter, ctx.Run())
}

// literalSetValue inserts "--" ahead of a set VALUE that starts with a dash,
// so secrets such as "-abc" or "-v" are stored verbatim rather than parsed as flags.
func literalSetValue(app *kong.Kong, args []string) []string {
	valued := map[string]bool{}
	for _, flag := range app.Model.Flags {
		if flag.IsBool() {
			continue
		}
		valued["--"+flag.Name] = true
		if flag.Short != 0 {
			valued["-"+string(flag.Short)] = true
		}
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return args
		}
		if len(arg) > 1 && arg[0] == '-' {
			// Global flag before the command; skip its separate value
			if valued[arg] {
				i++
			}
			continue
		}
		if arg != "set" || len(args) < i+3 || strings.HasPrefix(args[i+1], "-") {
			return args
		}

		value := args[i+2]
		if len(value) < 2 || value[0] != '-' || value == "--" {
			return args
		}
		out := append([]string{}, args[:i+2]...)
		out = append(out, "--")
		return append(out, args[i+2:]...)
	}

	return args
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// StoreProvider opens the credential store on first use, so commands that
// never touch it (help, version, config) work without a keychain.
type StoreProvider struct {
	options secrets.Options
	open    func(secrets.Options) (secrets.Store, error)
}

// Open returns the configured store; quiet suppresses backend warnings.
func (p *StoreProvider) Open(quiet bool) (secrets.Store, error) {
	opts := p.options
	opts.Quiet = opts.Quiet || quiet

	store, err := p.open(opts)
	if err != nil {
		cliErr := output.NewCLIError(output.ExitError, fmt.Sprintf("Failed to open credential store: %v", err))
		if errors.Is(err, secrets.ErrBackendUnavailable) {
			cliErr.WithHint("Choose another backend: kc config set backend auto")
		}
		return nil, cliErr.Quiet(quiet)
	}
	return store, nil
}

// HelpCmd prints usage
type HelpCmd struct{}

func (cmd *HelpCmd) Run(ctx *kong.Context) error {
	return ctx.PrintUsage(false)
}

// VersionCmd shows version information
type VersionCmd struct{}

func (cmd *VersionCmd) Run(ctx *kong.Context) error {
	version := ctx.Model.Vars()["version"]
	_, err := fmt.Fprintf(ctx.Stdout, "kc version %s\n", version)
	return err
}

// versionFlag implements -v/--version
type versionFlag bool

func (v versionFlag) BeforeReset(app *kong.Kong, vars kong.Vars) error {
	fmt.Fprintf(app.Stdout, "kc version %s\n", vars["version"])
	app.Exit(output.ExitOK)
	return nil
}

func printUsage(_ kong.HelpOptions, ctx *kong.Context) error {
	_, err := fmt.Fprint(ctx.Stdout, usage)
	return err
}

const usage = `Usage:
  kc set <KEY> <VALUE>         Set a key in the keychain (creates or updates)
  kc get <KEY> [--silent]      Get a key from the keychain
  kc delete <KEY>              Delete a key from the keychain
  kc config <get|set|unset|list|path>
                               Manage kc configuration
  kc install-completions       Install shell completions

Options:
  --silent                     Suppress error messages (use with get command)
  --namespace <NAME>           Keychain service name (default "kc-cli")
  --backend <NAME>             auto, keychain, keyring or file
  --no-sync                    Store new keys as local-only entries
  -o, --output <MODE>          auto, plain, rich or json
  --verbose                    Log credential store activity to stderr
  -h, --help                   Show this help
  -v, --version                Show version information

Examples:
  kc set OPENAI_API_KEY sk-1234567890
  kc get OPENAI_API_KEY
  kc get OPENAI_API_KEY --silent
  kc delete OPENAI_API_KEY

Note: Keys are stored as synchronizable items, which means they sync to
      iCloud Keychain when available, and stay local-only otherwise.
`
