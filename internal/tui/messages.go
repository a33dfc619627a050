package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"vessel/internal/service"
)

// changedMsg is sent when the orchestrator state changed.
type changedMsg struct{}

// opDoneMsg is sent when a query or task selection finished.
type opDoneMsg struct {
	err error
}

// tasksMsg is sent after a refresh or delete of the task list.
type tasksMsg struct {
	tasks []service.Task
	err   error
}

// statsMsg is sent when analytics finished loading.
type statsMsg struct{}

// waitForChange listens for the next orchestrator state change.
func (m Model) waitForChange() tea.Cmd {
	changes := m.orch.Changes()
	ctx := m.ctx
	return func() tea.Msg {
		select {
		case <-changes:
			return changedMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

// runOp runs an orchestrator operation off the update loop.
func (m Model) runOp(op func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return opDoneMsg{err: op(ctx)}
	}
}

func (m Model) refreshTasks() tea.Cmd {
	ctx, reg := m.ctx, m.reg
	return func() tea.Msg {
		err := reg.Refresh(ctx)
		return tasksMsg{tasks: reg.Tasks(), err: err}
	}
}

func (m Model) deleteTask(id int) tea.Cmd {
	ctx, reg := m.ctx, m.reg
	return func() tea.Msg {
		err := reg.Delete(ctx, id)
		return tasksMsg{tasks: reg.Tasks(), err: err}
	}
}

func (m Model) loadStats() tea.Cmd {
	ctx, a := m.ctx, m.analytics
	return func() tea.Msg {
		_ = a.Load(ctx)
		return statsMsg{}
	}
}
