// Package cli turns command-line arguments into a command run.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vessel/internal/commands"
	"vessel/internal/config"
	"vessel/internal/exitcode"
	"vessel/internal/logging"
	"vessel/internal/service"
)

// DefaultCommand runs when no command is given.
const DefaultCommand = "tui"

// BackendFactory creates a Backend from config.
// Used to inject the backend during dispatch.
type BackendFactory func(ctx context.Context, cfg *config.Config, log *zap.Logger) (service.Backend, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  BackendFactory
}

// NewDispatcher creates a new dispatcher with the given registry and backend factory.
func NewDispatcher(registry *commands.Registry, factory BackendFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// commonFlags are accepted by every command.
type commonFlags struct {
	configFile string
	baseURL    string
	quiet      bool
	debug      bool
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		name := args[0]
		switch {
		case name == "-h" || name == "--help":
			args = append([]string{"help"}, args[1:]...)
		case strings.HasPrefix(name, "-"):
			// Flags require a command.
			fmt.Fprintf(errOut, "error: unknown command: %s\n", name)
			return exitcode.UserError
		default:
			if _, ok := d.registry.Find(name); !ok {
				fmt.Fprintf(errOut, "error: unknown command: %s\n", name)
				return exitcode.UserError
			}
		}
	}

	code := exitcode.Success
	root := d.rootCommand(&code, out, errOut)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	return code
}

// rootCommand builds a cobra tree over the registry. The exit code of the
// command that ran is stored in code.
func (d *Dispatcher) rootCommand(code *int, out, errOut io.Writer) *cobra.Command {
	flags := &commonFlags{}
	root := &cobra.Command{
		Use:               config.AppName,
		SilenceUsage:      true,
		SilenceErrors:     true,
		Args:              cobra.NoArgs,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.SetHelpFunc(func(*cobra.Command, []string) {
		fmt.Fprint(out, commands.HelpText)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", "", "config file")
	pf.StringVar(&flags.baseURL, "base-url", "", "backend URL")
	pf.BoolVar(&flags.quiet, "quiet", false, "suppress informational output")
	pf.BoolVar(&flags.debug, "debug", false, "print debug logs to stderr")

	for _, c := range d.registry.All() {
		sub := &cobra.Command{
			Use:     c.Name(),
			Aliases: c.Aliases(),
			Short:   c.Synopsis(),
			RunE:    d.runE(c, flags, code, out, errOut),
		}
		c.RegisterFlags(sub.Flags())
		if c.Name() == "help" {
			root.SetHelpCommand(sub)
			continue
		}
		root.AddCommand(sub)
	}

	if def, ok := d.registry.Find(DefaultCommand); ok {
		root.RunE = d.runE(def, flags, code, out, errOut)
	}
	return root
}

func (d *Dispatcher) runE(c commands.Command, flags *commonFlags, code *int, out, errOut io.Writer) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		*code = d.execute(cmd.Context(), c, flags, args, out, errOut)
		return nil
	}
}

func (d *Dispatcher) execute(ctx context.Context, c commands.Command, flags *commonFlags, args []string, out, errOut io.Writer) int {
	if !c.NeedsBackend() {
		return c.Run(ctx, &commands.Env{Log: zap.NewNop()}, args, out, errOut)
	}

	cfg, err := config.Load(config.Options{File: flags.configFile, BaseURL: flags.baseURL})
	if err != nil {
		fmt.Fprintf(errOut, "error: config error: %v\n", err)
		return exitcode.ConfigError
	}
	cfg.Quiet = flags.quiet
	if flags.debug {
		cfg.Debug = true
	}

	mode := logging.ModeStderr
	if ic, ok := c.(commands.Interactive); (ok && ic.Interactive()) || cfg.Quiet {
		mode = logging.ModeFile
	}
	log, err := logging.New(cfg, mode)
	if err != nil {
		fmt.Fprintf(errOut, "error: config error: %v\n", err)
		return exitcode.ConfigError
	}
	defer func() { _ = log.Sync() }()

	if d.factory == nil {
		fmt.Fprintln(errOut, "error: no backend configured")
		return exitcode.ConfigError
	}
	backend, err := d.factory(ctx, cfg, log)
	if err != nil {
		if errors.Is(err, service.ErrTransport) {
			fmt.Fprintf(errOut, "error: backend error: %v\n", err)
			return exitcode.BackendError
		}
		fmt.Fprintf(errOut, "error: config error: %v\n", err)
		return exitcode.ConfigError
	}

	log.Debug("dispatch", zap.String("command", c.Name()), zap.String("base_url", cfg.BaseURL))
	return c.Run(ctx, &commands.Env{Config: cfg, Log: log, Backend: backend}, args, out, errOut)
}
