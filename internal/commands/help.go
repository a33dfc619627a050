package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"vessel/internal/exitcode"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "vessel help" }
func (c *HelpCmd) NeedsBackend() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, HelpText)
	return exitcode.Success
}

// HelpText is the usage printed by help, -h and --help.
const HelpText = `Usage:
  vessel                                   Open the interactive dashboard
  vessel tui [common flags]                Open the interactive dashboard
  vessel news [common flags] <topic...>    Search news (recorded as a task)
  vessel tasks [common flags]              List recorded searches
  vessel show [common flags] <id>          Show the articles stored for a task
  vessel rm [common flags] <id>            Delete a task
  vessel kb [common flags] <query...>      Search the knowledge base
  vessel stock [common flags] [--width <n>] <symbol>
  vessel stats [common flags]              Show search statistics
  vessel help
  vessel version

Common flags:
  --config <file>     Read settings from this config file
  --base-url <url>    Backend URL (default http://localhost:8000)
  --quiet             Suppress informational output
  --debug             Print debug logs to stderr
`
