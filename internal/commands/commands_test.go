package commands_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"vessel/internal/commands"
	"vessel/internal/config"
	"vessel/internal/exitcode"
	"vessel/internal/service"
	"vessel/internal/testutil"
)

// runCommand parses args against the command's flags and runs it.
func runCommand(t *testing.T, cmd commands.Command, backend service.Backend, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()

	fs := pflag.NewFlagSet(cmd.Name(), pflag.ContinueOnError)
	cmd.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	var outBuf, errBuf bytes.Buffer
	env := &commands.Env{
		Config:  &config.Config{Dir: t.TempDir(), Quiet: quiet},
		Backend: backend,
	}
	code = cmd.Run(context.Background(), env, fs.Args(), &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func expectCode(t *testing.T, want, got int) {
	t.Helper()
	if got != want {
		t.Errorf("expected exit code %d, got %d", want, got)
	}
}

func expectOutput(t *testing.T, name, want, got string) {
	t.Helper()
	if got != want {
		t.Errorf("expected %s %q, got %q", name, want, got)
	}
}

func chipsArticle() service.Article {
	return service.Article{
		Title:       "AI chips",
		URL:         "https://example.com/chips",
		Description: "<p>Faster <b>chips</b></p>",
		Topics:      "ai, hardware",
	}
}

func appleOverview() *service.StockOverview {
	return &service.StockOverview{
		Symbol:               "AAPL",
		Name:                 "Apple Inc",
		Industry:             "Electronic Computers",
		Description:          "Consumer electronics.",
		MarketCapitalization: "3000000000000",
		PERatio:              "31.2",
		DividendYield:        "0.0044",
		WeekHigh52:           "199.62",
		WeekLow52:            "164.08",
		AnalystTargetPrice:   "210.5",
	}
}

func TestVersionCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.VersionCmd{}, nil, nil, false)

	expectCode(t, exitcode.Success, code)
	expectOutput(t, "stderr", "", stderr)
	expectOutput(t, "stdout", "vessel 0.1.0\n", stdout)
}

func TestHelpCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.HelpCmd{}, nil, nil, false)

	expectCode(t, exitcode.Success, code)
	expectOutput(t, "stderr", "", stderr)
	testutil.GoldenString(t, "help", stdout)
}

func TestNewsCommand(t *testing.T) {
	fake := testutil.NewFakeBackend()
	fake.AddTask(1, "go")
	fake.SetNews("ai", chipsArticle())

	stdout, stderr, code := runCommand(t, &commands.NewsCmd{}, fake, []string{"ai"}, false)

	expectCode(t, exitcode.Success, code)
	expectOutput(t, "stderr", "", stderr)
	testutil.GoldenString(t, "news_ai", stdout)
	if n := fake.Calls(testutil.MethodListTasks); n != 1 {
		t.Errorf("expected one task refresh, got %d", n)
	}
}

func TestNewsCommand_MultiWordTopic(t *testing.T) {
	fake := testutil.NewFakeBackend()
	fake.SetNews("machine learning", chipsArticle())

	stdout, _, code := runCommand(t, &commands.NewsCmd{}, fake, []string{"machine", "learning"}, true)

	expectCode(t, exitcode.Success, code)
	if !strings.HasPrefix(stdout, "   1  AI chips\n") {
		t.Errorf("expected article output, got %q", stdout)
	}
	if strings.Contains(stdout, "recorded as task") {
		t.Errorf("quiet output should omit the task line, got %q", stdout)
	}
}

func TestNewsCommand_NoResults(t *testing.T) {
	fake := testutil.NewFakeBackend()

	stdout, stderr, code := runCommand(t, &commands.NewsCmd{}, fake, []string{"ai"}, false)

	expectCode(t, exitcode.Success, code)
	expectOutput(t, "stderr", "", stderr)
	expectOutput(t, "stdout", "No results found for 'ai'.\nrecorded as task #1 (1 tasks)\n", stdout)
}

func TestNewsCommand_NoTopic(t *testing.T) {
	fake := testutil.NewFakeBackend()

	stdout, stderr, code := runCommand(t, &commands.NewsCmd{}, fake, []string{"  "}, false)

	expectCode(t, exitcode.UserError, code)
	expectOutput(t, "stdout", "", stdout)
	expectOutput(t, "stderr", "error: topic required\n", stderr)
	if n := fake.Calls(testutil.MethodSearchNews); n != 0 {
		t.Errorf("expected no search, got %d", n)
	}
}

func TestNewsCommand_BackendError(t *testing.T) {
	fake := testutil.NewFakeBackend()
	fake.SearchNewsErr = errors.New("boom")

	stdout, stderr, code := runCommand(t, &commands.NewsCmd{}, fake, []string{"ai"}, false)

	expectCode(t, exitcode.BackendError, code)
	expectOutput(t, "stdout", "", stdout)
	expectOutput(t, "stderr", "error: backend error: boom\n", stderr)
	if n := fake.Calls(testutil.MethodListTasks); n != 1 {
		t.Errorf("a failed search still refreshes tasks, got %d refreshes", n)
	}
}

func TestTasksCommand(t *testing.T) {
	fake := testutil.NewFakeBackend()
	fake.AddTask(1, "go")
	fake.AddTask(2, "rust")

	stdout, stderr, code := runCommand(t, &commands.TasksCmd{}, fake, nil, false)

	expectCode(t, exitcode.Success, code)
	expectOutput(t, "stderr", "", stderr)
	expectOutput(t, "stdout", "   2  rust\n   1  go\n", stdout)
}

func TestTasksCommand_Empty(t *testing.T) {
	tests := []struct {
		name  string
		quiet bool
		want  string
	}{
		{"normal", false, "no tasks found\n"},
		{"quiet", true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, code := runCommand(t, &commands.TasksCmd{}, testutil.NewFakeBackend(), nil, tt.quiet)
			expectCode(t, exitcode.Success, code)
			expectOutput(t, "stdout", tt.want, stdout)
		})
	}
}

func TestTasksCommand_BackendError(t *testing.T) {
	fake := testutil.NewFakeBackend()
	fake.ListTasksErr = fmt.Errorf("dial: %w", service.ErrTransport)

	_, stderr, code := runCommand(t, &commands.TasksCmd{}, fake, nil, false)

	expectCode(t, exitcode.BackendError, code)
	expectOutput(t, "stderr", "error: backend error: refresh tasks: dial: transport error\n", stderr)
}

func TestShowCommand(t *testing.T) {
	fake := testutil.NewFakeBackend()
	fake.AddTask(3, "ai", chipsArticle())

	stdout, stderr, code := runCommand(t, &commands.ShowCmd{}, fake, []string{"3"}, false)

	expectCode(t, exitcode.Success, code)
	expectOutput(t, "stderr", "", stderr)
	want := "   1  AI chips\n      https://example.com/chips\n      Faster chips\n      topics: ai, hardware\n"
	expectOutput(t, "stdout", want, stdout)
	if n := fake.Calls(testutil.MethodListTasks); n != 0 {
		t.Errorf("show should not refresh tasks, got %d", n)
	}
}

func TestShowCommand_Errors(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStderr string
	}{
		{"no id", nil, exitcode.UserError, "error: task id required\n"},
		{"not a number", []string{"abc"}, exitcode.UserError, "error: invalid task id: abc\n"},
		{"zero", []string{"0"}, exitcode.UserError, "error: invalid task id: 0\n"},
		{"extra", []string{"1", "2"}, exitcode.UserError, "error: unexpected argument: 2\n"},
		{"unknown task", []string{"9"}, exitcode.UserError, "error: task not found: 9\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, code := runCommand(t, &commands.ShowCmd{}, testutil.NewFakeBackend(), tt.args, false)
			expectCode(t, tt.wantCode, code)
			expectOutput(t, "stdout", "", stdout)
			expectOutput(t, "stderr", tt.wantStderr, stderr)
		})
	}
}

func TestShowCommand_HashPrefix(t *testing.T) {
	fake := testutil.NewFakeBackend()
	fake.AddTask(4, "go")

	stdout, _, code := runCommand(t, &commands.ShowCmd{}, fake, []string{"#4"}, false)

	expectCode(t, exitcode.Success, code)
	expectOutput(t, "stdout", "no articles stored for task #4\n", stdout)
}

func TestRmCommand(t *testing.T) {
	fake := testutil.NewFakeBackend()
	fake.AddTask(1, "go")
	fake.AddTask(2, "rust")

	stdout, stderr, code := runCommand(t, &commands.RmCmd{}, fake, []string{"2"}, false)

	expectCode(t, exitcode.Success, code)
	expectOutput(t, "stderr", "", stderr)
	expectOutput(t, "stdout", "ok\n", stdout)

	tasks, _ := fake.ListTasks(context.Background())
	if len(tasks) != 1 || tasks[0].ID != 1 {
		t.Errorf("expected only task 1 to remain, got %+v", tasks)
	}
}

func TestRmCommand_Quiet(t *testing.T) {
	fake := testutil.NewFakeBackend()
	fake.AddTask(1, "go")

	stdout, _, code := runCommand(t, &commands.RmCmd{}, fake, []string{"1"}, true)

	expectCode(t, exitcode.Success, code)
	expectOutput(t, "stdout", "", stdout)
}

func TestRmCommand_NotFound(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.RmCmd{}, testutil.NewFakeBackend(), []string{"7"}, false)

	expectCode(t, exitcode.UserError, code)
	expectOutput(t, "stderr", "error: task not found: 7\n", stderr)
}

func TestRmCommand_BackendErrorKeepsTask(t *testing.T) {
	fake := testutil.NewFakeBackend()
	fake.AddTask(1, "go")
	fake.DeleteTaskErr = &service.StatusError{Status: 500}

	_, stderr, code := runCommand(t, &commands.RmCmd{}, fake, []string{"1"}, false)

	expectCode(t, exitcode.BackendError, code)
	expectOutput(t, "stderr", "error: backend error: delete task 1: 500 Internal Server Error\n", stderr)

	fake.DeleteTaskErr = nil
	tasks, _ := fake.ListTasks(context.Background())
	if len(tasks) != 1 {
		t.Errorf("expected task to remain, got %+v", tasks)
	}
}

func TestKnowledgeCommand(t *testing.T) {
	summary := "Go generics in practice"
	fake := testutil.NewFakeBackend()
	fake.AddDocument(service.Document{ID: 1, Content: service.DocumentContent{Title: "Generics", URL: "https://go.dev/generics"}, Summary: &summary})
	fake.AddDocument(service.Document{ID: 2, Content: service.DocumentContent{Title: "No link"}, Summary: &summary})

	stdout, stderr, code := runCommand(t, &commands.KnowledgeCmd{}, fake, []string{"generics"}, false)

	expectCode(t, exitcode.Success, code)
	expectOutput(t, "stderr", "", stderr)
	expectOutput(t, "stdout", "   1  Generics\n      https://go.dev/generics\n      Go generics in practice\n", stdout)
}

func TestKnowledgeCommand_NoResults(t *testing.T) {
	stdout, _, code := runCommand(t, &commands.KnowledgeCmd{}, testutil.NewFakeBackend(), []string{"zig"}, false)

	expectCode(t, exitcode.Success, code)
	expectOutput(t, "stdout", "No past results match 'zig'.\n", stdout)
}

func TestKnowledgeCommand_NoQuery(t *testing.T) {
	fake := testutil.NewFakeBackend()

	_, stderr, code := runCommand(t, &commands.KnowledgeCmd{}, fake, nil, false)

	expectCode(t, exitcode.UserError, code)
	expectOutput(t, "stderr", "error: query required\n", stderr)
	if n := fake.Calls(testutil.MethodSearchKnowledge); n != 0 {
		t.Errorf("expected no request, got %d", n)
	}
}

func TestStockCommand(t *testing.T) {
	fake := testutil.NewFakeBackend()
	fake.SetStock(appleOverview(),
		service.HistoryPoint{Date: "2024-01-02", Close: 1},
		service.HistoryPoint{Date: "2024-01-03", Close: 2},
		service.HistoryPoint{Date: "2024-01-04", Close: 3},
	)

	stdout, stderr, code := runCommand(t, &commands.StockCmd{}, fake, []string{"aapl"}, false)

	expectCode(t, exitcode.Success, code)
	expectOutput(t, "stderr", "", stderr)
	testutil.GoldenString(t, "stock_aapl", stdout)
}

func TestStockCommand_NoHistory(t *testing.T) {
	fake := testutil.NewFakeBackend()
	fake.SetStock(&service.StockOverview{Symbol: "AAPL", Name: "Apple Inc"})
	fake.StockHistoryErr = errors.New("rate limited")

	stdout, stderr, code := runCommand(t, &commands.StockCmd{}, fake, []string{"AAPL"}, false)

	expectCode(t, exitcode.Success, code)
	expectOutput(t, "stderr", "", stderr)
	if !strings.HasSuffix(stdout, "No historical data available to display chart.\n") {
		t.Errorf("expected empty history message, got %q", stdout)
	}
}

func TestStockCommand_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   int
		wantStderr string
	}{
		{"detail", nil, exitcode.UserError, "error: Could not retrieve data for symbol ZZZZ\n"},
		{"no detail", &service.StatusError{Status: 404}, exitcode.UserError, "error: Stock symbol not found.\n"},
		{"server error", &service.StatusError{Status: 502}, exitcode.BackendError, "error: Stock symbol not found.\n"},
		{"transport", fmt.Errorf("dial: %w", service.ErrTransport), exitcode.BackendError, "error: An unknown error occurred.\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := testutil.NewFakeBackend()
			fake.StockOverviewErr = tt.err

			stdout, stderr, code := runCommand(t, &commands.StockCmd{}, fake, []string{"zzzz"}, false)

			expectCode(t, tt.wantCode, code)
			expectOutput(t, "stdout", "", stdout)
			expectOutput(t, "stderr", tt.wantStderr, stderr)
		})
	}
}

func TestStockCommand_BadArgs(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantStderr string
	}{
		{"none", nil, "error: exactly one symbol required\n"},
		{"two", []string{"AAPL", "MSFT"}, "error: exactly one symbol required\n"},
		{"width", []string{"--width", "0", "AAPL"}, "error: invalid width: 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, code := runCommand(t, &commands.StockCmd{}, testutil.NewFakeBackend(), tt.args, false)
			expectCode(t, exitcode.UserError, code)
			expectOutput(t, "stderr", tt.wantStderr, stderr)
		})
	}
}

func TestStatsCommand(t *testing.T) {
	fake := testutil.NewFakeBackend()
	fake.AddTask(1, "ai", chipsArticle())
	fake.AddTask(2, "ai")

	stdout, stderr, code := runCommand(t, &commands.StatsCmd{}, fake, nil, false)

	expectCode(t, exitcode.Success, code)
	expectOutput(t, "stderr", "", stderr)
	want := "Total searches:   2\nTotal documents:  1\n------------\nTop topics\n------------\n   2  ai\n"
	expectOutput(t, "stdout", want, stdout)
}

func TestStatsCommand_Failure(t *testing.T) {
	fake := testutil.NewFakeBackend()
	fake.StatsErr = &service.StatusError{Status: 500}

	stdout, stderr, code := runCommand(t, &commands.StatsCmd{}, fake, nil, false)

	expectCode(t, exitcode.BackendError, code)
	expectOutput(t, "stdout", "", stdout)
	expectOutput(t, "stderr", "error: Could not load analytics data.\n", stderr)
}

func TestRegistry(t *testing.T) {
	r := commands.NewRegistry()
	if err := r.Register(&commands.NewsCmd{}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.Register(&commands.NewsCmd{}); err == nil {
		t.Error("expected duplicate registration to fail")
	}

	cmd, ok := r.Find("search")
	if !ok || cmd.Name() != "news" {
		t.Errorf("expected alias lookup to find news, got %v", cmd)
	}
	if got := len(r.All()); got != 1 {
		t.Errorf("All() = %d commands, want 1", got)
	}

	for _, name := range []string{"news", "tasks", "show", "rm", "kb", "stock", "stats", "tui", "help", "version"} {
		if _, ok := commands.DefaultRegistry.Find(name); !ok {
			t.Errorf("command %q not registered", name)
		}
	}
}
