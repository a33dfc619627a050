// Package service defines the backend-agnostic types and interface for dashboard queries.
package service

import "context"

// Backend defines the research backend operations the dashboard consumes.
// All HTTP traffic goes through this interface; the dashboard core never
// imports the transport directly.
type Backend interface {
	// SearchNews runs a live news search. The backend records a Task for it.
	SearchNews(ctx context.Context, topic string) ([]Article, error)

	// ListTasks returns all recorded tasks in server order.
	ListTasks(ctx context.Context) ([]Task, error)

	// TaskArticles returns the articles stored for a task.
	TaskArticles(ctx context.Context, taskID int) ([]Article, error)

	// DeleteTask deletes a task.
	DeleteTask(ctx context.Context, taskID int) error

	// SearchKnowledge searches previously stored documents.
	SearchKnowledge(ctx context.Context, query string) ([]Document, error)

	// StockOverview returns the overview for an upper-case symbol.
	StockOverview(ctx context.Context, symbol string) (*StockOverview, error)

	// StockHistory returns one year of daily closes, oldest first.
	StockHistory(ctx context.Context, symbol string) ([]HistoryPoint, error)

	// Stats returns the analytics summary.
	Stats(ctx context.Context) (*Stats, error)
}
