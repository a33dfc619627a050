package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"vessel/internal/dashboard"
	"vessel/internal/exitcode"
	"vessel/internal/output"
)

func init() {
	Register(&NewsCmd{})
}

// NewsCmd implements the news command. Every search is recorded by the
// backend as a task.
type NewsCmd struct{}

func (c *NewsCmd) Name() string       { return "news" }
func (c *NewsCmd) Aliases() []string  { return []string{"search"} }
func (c *NewsCmd) Synopsis() string   { return "Search news and record the search as a task" }
func (c *NewsCmd) Usage() string      { return "vessel news <topic...>" }
func (c *NewsCmd) NeedsBackend() bool { return true }

func (c *NewsCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *NewsCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	topic := strings.TrimSpace(strings.Join(args, " "))
	if topic == "" {
		fmt.Fprintln(errOut, "error: topic required")
		return exitcode.UserError
	}

	orch := dashboard.NewOrchestrator(env.Backend, env.Logger())
	reg := dashboard.NewRegistry(env.Backend, orch, env.Logger())

	if err := orch.SearchNews(ctx, topic); err != nil {
		return backendError(errOut, err)
	}

	view := dashboard.Project(orch.Snapshot())
	for i, a := range view.Articles {
		output.FormatArticle(out, i+1, a)
	}
	if env.Quiet() {
		return exitcode.Success
	}
	if view.Empty != "" {
		fmt.Fprintln(out, view.Empty)
	}
	if tasks := reg.Tasks(); len(tasks) > 0 {
		fmt.Fprintf(out, "recorded as task #%d (%d tasks)\n", tasks[0].ID, len(tasks))
	}
	return exitcode.Success
}
