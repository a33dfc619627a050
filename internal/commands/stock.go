package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"vessel/internal/dashboard"
	"vessel/internal/exitcode"
	"vessel/internal/output"
	"vessel/internal/service"
)

func init() {
	Register(&StockCmd{})
}

// StockCmd implements the stock command.
type StockCmd struct {
	width int
}

func (c *StockCmd) Name() string       { return "stock" }
func (c *StockCmd) Aliases() []string  { return []string{"quote"} }
func (c *StockCmd) Synopsis() string   { return "Show a stock overview and its daily closes" }
func (c *StockCmd) Usage() string      { return "vessel stock [--width <n>] <symbol>" }
func (c *StockCmd) NeedsBackend() bool { return true }

func (c *StockCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.IntVarP(&c.width, "width", "w", output.SparklineWidth, "sparkline width")
}

func (c *StockCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: exactly one symbol required")
		return exitcode.UserError
	}
	if c.width < 1 {
		fmt.Fprintf(errOut, "error: invalid width: %d\n", c.width)
		return exitcode.UserError
	}

	orch := dashboard.NewOrchestrator(env.Backend, env.Logger())
	err := orch.SearchStock(ctx, args[0])
	view := dashboard.Project(orch.Snapshot())

	if view.Error != "" {
		fmt.Fprintf(errOut, "error: %s\n", view.Error)
		if errors.Is(err, service.ErrNotFound) {
			return exitcode.UserError
		}
		return exitcode.BackendError
	}
	if err != nil {
		return backendError(errOut, err)
	}

	if view.Stock != nil {
		output.FormatStock(out, view.Stock)
	}
	output.FormatHistory(out, view.History, c.width)
	if env.Quiet() {
		return exitcode.Success
	}
	if view.HistoryEmpty != "" {
		fmt.Fprintln(out, view.HistoryEmpty)
	}
	if view.Empty != "" {
		fmt.Fprintln(out, view.Empty)
	}
	return exitcode.Success
}
