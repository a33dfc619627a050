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
	Register(&KnowledgeCmd{})
}

// KnowledgeCmd implements the kb command: a search over previously stored
// articles.
type KnowledgeCmd struct{}

func (c *KnowledgeCmd) Name() string       { return "kb" }
func (c *KnowledgeCmd) Aliases() []string  { return []string{"history"} }
func (c *KnowledgeCmd) Synopsis() string   { return "Search the knowledge base of past results" }
func (c *KnowledgeCmd) Usage() string      { return "vessel kb <query...>" }
func (c *KnowledgeCmd) NeedsBackend() bool { return true }

func (c *KnowledgeCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *KnowledgeCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		fmt.Fprintln(errOut, "error: query required")
		return exitcode.UserError
	}

	orch := dashboard.NewOrchestrator(env.Backend, env.Logger())
	if err := orch.SearchKnowledge(ctx, query); err != nil {
		return backendError(errOut, err)
	}

	view := dashboard.Project(orch.Snapshot())
	for i, d := range view.Documents {
		output.FormatDocument(out, i+1, d)
	}
	if view.Empty != "" && !env.Quiet() {
		fmt.Fprintln(out, view.Empty)
	}
	return exitcode.Success
}
