package dashboard

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"vessel/internal/service"
)

// Registry keeps the client-side copy of the server's task list.
type Registry struct {
	backend service.Backend
	orch    *Orchestrator
	log     *zap.Logger

	mu      sync.Mutex
	tasks   []service.Task
	seq     uint64 // latest refresh started
	applied uint64 // refresh whose list is held
}

// NewRegistry returns an empty registry. When orch is non-nil the registry
// refreshes after every news search it runs.
func NewRegistry(backend service.Backend, orch *Orchestrator, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Registry{backend: backend, orch: orch, log: log.Named("registry")}
	if orch != nil {
		orch.Subscribe(r.onEvent)
	}
	return r
}

func (r *Registry) onEvent(ctx context.Context, ev Event) {
	if ev.Kind != EventTaskPossiblyCreated {
		return
	}
	_ = r.Refresh(ctx)
}

// Tasks returns a copy of the current list, in server order.
func (r *Registry) Tasks() []service.Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]service.Task(nil), r.tasks...)
}

// Find returns the task with id.
func (r *Registry) Find(id int) (service.Task, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return service.Task{}, false
}

// Refresh replaces the list with the server's. On failure the previous list
// is kept. A successful refresh is dropped only when one started after it
// has already been applied.
func (r *Registry) Refresh(ctx context.Context) error {
	r.mu.Lock()
	r.seq++
	seq := r.seq
	r.mu.Unlock()

	tasks, err := r.backend.ListTasks(ctx)
	if err != nil {
		r.log.Warn("task refresh failed", zap.Error(err))
		return fmt.Errorf("refresh tasks: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if seq < r.applied {
		return nil
	}
	r.applied = seq
	r.tasks = append([]service.Task(nil), tasks...)
	r.log.Debug("tasks refreshed", zap.Int("count", len(tasks)))
	return nil
}

// Delete removes a task on the server and, once confirmed, locally.
func (r *Registry) Delete(ctx context.Context, id int) error {
	if err := r.backend.DeleteTask(ctx, id); err != nil {
		r.log.Warn("task delete failed", zap.Int("task", id), zap.Error(err))
		return fmt.Errorf("delete task %d: %w", id, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i, t := range r.tasks {
		if t.ID == id {
			r.tasks = append(r.tasks[:i:i], r.tasks[i+1:]...)
			break
		}
	}
	return nil
}

// Select replays the task's stored articles into the news lane. It does
// not touch the task list.
func (r *Registry) Select(ctx context.Context, id int) error {
	if r.orch == nil {
		return fmt.Errorf("select task %d: no orchestrator", id)
	}
	label := fmt.Sprintf("task #%d", id)
	if t, ok := r.Find(id); ok {
		label = t.Topic
	}
	return r.orch.replay(ctx, id, label)
}
