// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"

	"vessel/internal/service"
)

// Method names used for error injection, call counting and gates.
const (
	MethodSearchNews      = "SearchNews"
	MethodListTasks       = "ListTasks"
	MethodTaskArticles    = "TaskArticles"
	MethodDeleteTask      = "DeleteTask"
	MethodSearchKnowledge = "SearchKnowledge"
	MethodStockOverview   = "StockOverview"
	MethodStockHistory    = "StockHistory"
	MethodStats           = "Stats"
)

// FakeBackend is an in-memory implementation of service.Backend for testing.
// Like the real backend, a news search records a new task at the head of
// the task list.
type FakeBackend struct {
	mu       sync.Mutex
	tasks    []service.Task
	articles map[int][]service.Article    // task id -> stored articles
	news     map[string][]service.Article // topic -> live results
	docs     []service.Document
	stocks   map[string]*service.StockOverview
	history  map[string][]service.HistoryPoint
	nextID   int
	calls    map[string]int
	gates    map[string]*Gate

	// Error injection for testing
	SearchNewsErr      error
	ListTasksErr       error
	TaskArticlesErr    error
	DeleteTaskErr      error
	SearchKnowledgeErr error
	StockOverviewErr   error
	StockHistoryErr    error
	StatsErr           error
}

// NewFakeBackend creates an empty FakeBackend.
func NewFakeBackend() *FakeBackend {
	return &FakeBackend{
		articles: make(map[int][]service.Article),
		news:     make(map[string][]service.Article),
		stocks:   make(map[string]*service.StockOverview),
		history:  make(map[string][]service.HistoryPoint),
		nextID:   1,
		calls:    make(map[string]int),
		gates:    make(map[string]*Gate),
	}
}

// Gate holds calls of one method open until released.
type Gate struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

// Entered receives once per call that reached the gate.
func (g *Gate) Entered() <-chan struct{} { return g.entered }

// Release lets every held and future call through.
func (g *Gate) Release() { g.once.Do(func() { close(g.release) }) }

// Hold installs a gate on method. Calls block until the gate is released
// or their context ends.
func (f *FakeBackend) Hold(method string) *Gate {
	g := &Gate{entered: make(chan struct{}, 16), release: make(chan struct{})}
	f.mu.Lock()
	f.gates[method] = g
	f.mu.Unlock()
	return g
}

// SetNews sets the live results served for a topic.
func (f *FakeBackend) SetNews(topic string, articles ...service.Article) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.news[topic] = articles
}

// AddTask records a task with its stored articles, newest first.
func (f *FakeBackend) AddTask(id int, topic string, articles ...service.Article) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append([]service.Task{{ID: id, Topic: topic}}, f.tasks...)
	f.articles[id] = articles
	if id >= f.nextID {
		f.nextID = id + 1
	}
}

// AddDocument adds a document to the knowledge base.
func (f *FakeBackend) AddDocument(doc service.Document) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs = append(f.docs, doc)
}

// SetStock sets the overview and history served for a symbol.
func (f *FakeBackend) SetStock(overview *service.StockOverview, history ...service.HistoryPoint) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stocks[overview.Symbol] = overview
	f.history[overview.Symbol] = history
}

// Calls returns how many times method was invoked.
func (f *FakeBackend) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

// enter counts the call and waits on the method's gate, if any.
func (f *FakeBackend) enter(ctx context.Context, method string) error {
	f.mu.Lock()
	f.calls[method]++
	g := f.gates[method]
	f.mu.Unlock()

	if g == nil {
		return nil
	}
	select {
	case g.entered <- struct{}{}:
	default:
	}
	select {
	case <-g.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SearchNews implements service.Backend.
func (f *FakeBackend) SearchNews(ctx context.Context, topic string) ([]service.Article, error) {
	if err := f.enter(ctx, MethodSearchNews); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	// The real backend records the task before fetching, so it exists even
	// when the search fails.
	id := f.nextID
	f.nextID++
	f.tasks = append([]service.Task{{ID: id, Topic: topic}}, f.tasks...)

	if f.SearchNewsErr != nil {
		return nil, f.SearchNewsErr
	}
	articles := append([]service.Article(nil), f.news[topic]...)
	f.articles[id] = articles
	return articles, nil
}

// ListTasks implements service.Backend.
func (f *FakeBackend) ListTasks(ctx context.Context) ([]service.Task, error) {
	if err := f.enter(ctx, MethodListTasks); err != nil {
		return nil, err
	}
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]service.Task, len(f.tasks))
	copy(result, f.tasks)
	return result, nil
}

// TaskArticles implements service.Backend.
func (f *FakeBackend) TaskArticles(ctx context.Context, taskID int) ([]service.Article, error) {
	if err := f.enter(ctx, MethodTaskArticles); err != nil {
		return nil, err
	}
	if f.TaskArticlesErr != nil {
		return nil, f.TaskArticlesErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	articles, ok := f.articles[taskID]
	if !ok {
		return nil, &service.StatusError{Status: 404, Detail: "Task not found"}
	}
	return append([]service.Article{}, articles...), nil
}

// DeleteTask implements service.Backend.
func (f *FakeBackend) DeleteTask(ctx context.Context, taskID int) error {
	if err := f.enter(ctx, MethodDeleteTask); err != nil {
		return err
	}
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == taskID {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			delete(f.articles, taskID)
			return nil
		}
	}
	return &service.StatusError{Status: 404, Detail: "Task not found"}
}

// SearchKnowledge implements service.Backend. Matches the query
// case-insensitively against summaries.
func (f *FakeBackend) SearchKnowledge(ctx context.Context, query string) ([]service.Document, error) {
	if err := f.enter(ctx, MethodSearchKnowledge); err != nil {
		return nil, err
	}
	if f.SearchKnowledgeErr != nil {
		return nil, f.SearchKnowledgeErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	q := strings.ToLower(query)
	result := []service.Document{}
	for _, d := range f.docs {
		if d.Summary != nil && strings.Contains(strings.ToLower(*d.Summary), q) {
			result = append(result, d)
		}
	}
	return result, nil
}

// StockOverview implements service.Backend.
func (f *FakeBackend) StockOverview(ctx context.Context, symbol string) (*service.StockOverview, error) {
	if err := f.enter(ctx, MethodStockOverview); err != nil {
		return nil, err
	}
	if f.StockOverviewErr != nil {
		return nil, f.StockOverviewErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.stocks[symbol]
	if !ok {
		return nil, &service.StatusError{Status: 404, Detail: "Could not retrieve data for symbol " + symbol}
	}
	cp := *s
	return &cp, nil
}

// StockHistory implements service.Backend.
func (f *FakeBackend) StockHistory(ctx context.Context, symbol string) ([]service.HistoryPoint, error) {
	if err := f.enter(ctx, MethodStockHistory); err != nil {
		return nil, err
	}
	if f.StockHistoryErr != nil {
		return nil, f.StockHistoryErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.history[symbol]
	if !ok {
		return nil, &service.StatusError{Status: 404, Detail: "No history for symbol " + symbol}
	}
	return append([]service.HistoryPoint{}, h...), nil
}

// Stats implements service.Backend. Top topics are counted from the task
// list, most frequent first, at most five.
func (f *FakeBackend) Stats(ctx context.Context) (*service.Stats, error) {
	if err := f.enter(ctx, MethodStats); err != nil {
		return nil, err
	}
	if f.StatsErr != nil {
		return nil, f.StatsErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	counts := make(map[string]int)
	var order []string
	for _, t := range f.tasks {
		if counts[t.Topic] == 0 {
			order = append(order, t.Topic)
		}
		counts[t.Topic]++
	}
	top := make([]service.TopicCount, 0, len(order))
	for _, topic := range order {
		top = append(top, service.TopicCount{Topic: topic, Count: counts[topic]})
	}
	sort.SliceStable(top, func(i, j int) bool { return top[i].Count > top[j].Count })
	if len(top) > 5 {
		top = top[:5]
	}

	docs := len(f.docs)
	for _, a := range f.articles {
		docs += len(a)
	}
	return &service.Stats{TotalTasks: len(f.tasks), TotalDocuments: docs, TopTopics: top}, nil
}
