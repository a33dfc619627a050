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
	Register(&ShowCmd{})
}

// ShowCmd implements the show command: it replays the articles stored for
// a task.
type ShowCmd struct{}

func (c *ShowCmd) Name() string       { return "show" }
func (c *ShowCmd) Aliases() []string  { return nil }
func (c *ShowCmd) Synopsis() string   { return "Show the articles stored for a task" }
func (c *ShowCmd) Usage() string      { return "vessel show <id>" }
func (c *ShowCmd) NeedsBackend() bool { return true }

func (c *ShowCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *ShowCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	id, err := parseTaskID(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	orch := dashboard.NewOrchestrator(env.Backend, env.Logger())
	if err := orch.SelectTask(ctx, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			fmt.Fprintf(errOut, "error: task not found: %d\n", id)
			return exitcode.UserError
		}
		return backendError(errOut, err)
	}

	view := dashboard.Project(orch.Snapshot())
	for i, a := range view.Articles {
		output.FormatArticle(out, i+1, a)
	}
	if len(view.Articles) == 0 && !env.Quiet() {
		fmt.Fprintf(out, "no articles stored for task #%d\n", id)
	}
	return exitcode.Success
}
