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
	Register(&TasksCmd{})
}

// TasksCmd implements the tasks command.
type TasksCmd struct{}

func (c *TasksCmd) Name() string       { return "tasks" }
func (c *TasksCmd) Aliases() []string  { return []string{"ls"} }
func (c *TasksCmd) Synopsis() string   { return "List recorded searches" }
func (c *TasksCmd) Usage() string      { return "vessel tasks" }
func (c *TasksCmd) NeedsBackend() bool { return true }

func (c *TasksCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *TasksCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	reg := dashboard.NewRegistry(env.Backend, nil, env.Logger())
	if err := reg.Refresh(ctx); err != nil {
		return backendError(errOut, err)
	}

	tasks := reg.Tasks()
	for _, t := range tasks {
		output.FormatTask(out, t)
	}
	if len(tasks) == 0 && !env.Quiet() {
		fmt.Fprintln(out, "no tasks found")
	}
	return exitcode.Success
}
