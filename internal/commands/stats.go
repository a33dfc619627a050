package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"vessel/internal/dashboard"
	"vessel/internal/exitcode"
	"vessel/internal/output"
)

func init() {
	Register(&StatsCmd{})
}

// StatsCmd implements the stats command.
type StatsCmd struct{}

func (c *StatsCmd) Name() string       { return "stats" }
func (c *StatsCmd) Aliases() []string  { return []string{"analytics"} }
func (c *StatsCmd) Synopsis() string   { return "Show search and storage statistics" }
func (c *StatsCmd) Usage() string      { return "vessel stats" }
func (c *StatsCmd) NeedsBackend() bool { return true }

func (c *StatsCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *StatsCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	a := dashboard.NewAnalytics(env.Backend, env.Logger())
	_ = a.Load(ctx)
	view := a.Project()
	if view.Stats == nil {
		fmt.Fprintf(errOut, "error: %s\n", view.Message)
		return exitcode.BackendError
	}
	output.FormatStats(out, view.Stats)
	return exitcode.Success
}
