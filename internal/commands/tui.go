package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"vessel/internal/exitcode"
	"vessel/internal/tui"
)

func init() {
	Register(&TUICmd{})
}

// TUICmd implements the tui command, the default when no command is given.
type TUICmd struct{}

func (c *TUICmd) Name() string       { return "tui" }
func (c *TUICmd) Aliases() []string  { return []string{"dash"} }
func (c *TUICmd) Synopsis() string   { return "Open the interactive dashboard" }
func (c *TUICmd) Usage() string      { return "vessel tui" }
func (c *TUICmd) NeedsBackend() bool { return true }
func (c *TUICmd) Interactive() bool  { return true }

func (c *TUICmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *TUICmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	if err := tui.Run(ctx, env.Backend, env.Logger()); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
