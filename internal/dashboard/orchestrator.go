package dashboard

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"vessel/internal/service"
)

// Stock lane error texts used when the backend gives no detail.
const (
	StockNotFoundMessage = "Stock symbol not found."
	UnknownErrorMessage  = "An unknown error occurred."
)

// EventKind identifies an orchestrator event.
type EventKind int

const (
	// EventTaskPossiblyCreated follows every news search, successful or not:
	// the backend records the task before it fetches articles.
	EventTaskPossiblyCreated EventKind = iota + 1
)

// Event is delivered to subscribers.
type Event struct {
	Kind  EventKind
	Topic string
}

// Listener receives orchestrator events. It is called synchronously on the
// goroutine of the operation that produced the event.
type Listener func(ctx context.Context, ev Event)

// Orchestrator runs queries for the three lanes and owns their state.
// Operations block until their requests resolve; a shell wanting
// concurrency runs them on its own goroutines.
type Orchestrator struct {
	backend service.Backend
	log     *zap.Logger

	mu        sync.Mutex
	state     OrchestratorState
	listeners []Listener

	changes chan struct{}
}

// NewOrchestrator returns an orchestrator with all lanes empty.
func NewOrchestrator(backend service.Backend, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		backend: backend,
		log:     log.Named("orchestrator"),
		changes: make(chan struct{}, 1),
	}
}

// Snapshot returns a copy of the current state.
func (o *Orchestrator) Snapshot() OrchestratorState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state.clone()
}

// Subscribe registers l for all subsequent events.
func (o *Orchestrator) Subscribe(l Listener) {
	o.mu.Lock()
	o.listeners = append(o.listeners, l)
	o.mu.Unlock()
}

// Changes returns a channel that receives after state changes. Sends are
// coalesced: a reader that falls behind sees one pending notification.
func (o *Orchestrator) Changes() <-chan struct{} {
	return o.changes
}

// SearchNews runs a news search for topic. The returned error is the
// backend failure, if any; the lane itself records no error.
func (o *Orchestrator) SearchNews(ctx context.Context, topic string) error {
	if strings.TrimSpace(topic) == "" {
		return nil
	}
	token := o.begin(LaneNews, topic)
	articles, err := o.backend.SearchNews(ctx, topic)
	if err != nil {
		o.log.Warn("news search failed", zap.String("lane", LaneNews.String()), zap.String("topic", topic), zap.Error(err))
	}
	o.commit(LaneNews, token, true, func(s *OrchestratorState) {
		s.News.Result = articles
	})
	o.emit(ctx, Event{Kind: EventTaskPossiblyCreated, Topic: topic})
	return err
}

// SelectTask replays the articles stored for a task into the news lane.
func (o *Orchestrator) SelectTask(ctx context.Context, taskID int) error {
	return o.replay(ctx, taskID, "task #"+strconv.Itoa(taskID))
}

func (o *Orchestrator) replay(ctx context.Context, taskID int, label string) error {
	token := o.begin(LaneNews, label)
	articles, err := o.backend.TaskArticles(ctx, taskID)
	if err != nil {
		o.log.Warn("task replay failed", zap.String("lane", LaneNews.String()), zap.Int("task", taskID), zap.Error(err))
	}
	o.commit(LaneNews, token, true, func(s *OrchestratorState) {
		s.News.Result = articles
	})
	return err
}

// SearchKnowledge searches the knowledge base. An empty query does nothing.
func (o *Orchestrator) SearchKnowledge(ctx context.Context, query string) error {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	token := o.begin(LaneKnowledge, query)
	docs, err := o.backend.SearchKnowledge(ctx, query)
	if err != nil {
		o.log.Warn("knowledge search failed", zap.String("lane", LaneKnowledge.String()), zap.String("query", query), zap.Error(err))
	}
	o.commit(LaneKnowledge, token, true, func(s *OrchestratorState) {
		s.Knowledge.Result = docs
	})
	return err
}

// SearchStock fetches the overview and history of symbol concurrently.
// The overview is committed as soon as it arrives; the lane stops loading
// once both requests have resolved. A history failure is not an error.
func (o *Orchestrator) SearchStock(ctx context.Context, symbol string) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil
	}
	token := o.begin(LaneStock, symbol)

	var (
		g        errgroup.Group
		ovErr    error
		history  []service.HistoryPoint
		histErr  error
		laneAttr = zap.String("lane", LaneStock.String())
	)
	g.Go(func() error {
		overview, err := o.backend.StockOverview(ctx, symbol)
		if err != nil {
			ovErr = err
			o.log.Warn("stock overview failed", laneAttr, zap.String("symbol", symbol), zap.Error(err))
			o.commit(LaneStock, token, false, func(s *OrchestratorState) {
				s.Stock.Err = StockErrorMessage(err)
			})
			return nil
		}
		o.commit(LaneStock, token, false, func(s *OrchestratorState) {
			s.Stock.Result.Overview = overview
		})
		return nil
	})
	g.Go(func() error {
		history, histErr = o.backend.StockHistory(ctx, symbol)
		return nil
	})
	_ = g.Wait()

	if histErr != nil {
		o.log.Warn("stock history failed", laneAttr, zap.String("symbol", symbol), zap.Error(histErr))
	}
	o.commit(LaneStock, token, true, func(s *OrchestratorState) {
		if ovErr != nil || histErr != nil {
			return
		}
		s.Stock.Result.History = history
	})
	return ovErr
}

// StockErrorMessage maps an overview failure to the text shown to the user.
func StockErrorMessage(err error) string {
	if detail := service.ErrorDetail(err); detail != "" {
		return detail
	}
	var se *service.StatusError
	if errors.As(err, &se) {
		return StockNotFoundMessage
	}
	return UnknownErrorMessage
}

func (o *Orchestrator) begin(lane LaneID, query string) uint64 {
	o.mu.Lock()
	token := o.state.beginQuery(lane, query)
	o.mu.Unlock()
	o.log.Debug("query started", zap.String("lane", lane.String()), zap.String("query", query), zap.Uint64("token", token))
	o.changed()
	return token
}

// commit applies a completion for lane. A completion that is no longer the
// lane's latest query is dropped. One that is the lane's latest but older
// than a query since started elsewhere only clears the loading flag, so at
// most one lane ever holds a result.
func (o *Orchestrator) commit(lane LaneID, token uint64, done bool, apply func(*OrchestratorState)) {
	o.mu.Lock()
	st := o.state.status(lane)
	if st.seq != token {
		o.mu.Unlock()
		o.log.Debug("stale completion dropped", zap.String("lane", lane.String()), zap.Uint64("token", token))
		return
	}
	if done {
		st.Loading = false
	}
	superseded := token != o.state.gen
	if !superseded {
		apply(&o.state)
	}
	o.mu.Unlock()
	if superseded {
		o.log.Debug("superseded completion dropped", zap.String("lane", lane.String()), zap.Uint64("token", token))
		if !done {
			return
		}
	}
	o.changed()
}

func (o *Orchestrator) changed() {
	select {
	case o.changes <- struct{}{}:
	default:
	}
}

func (o *Orchestrator) emit(ctx context.Context, ev Event) {
	o.mu.Lock()
	listeners := append([]Listener(nil), o.listeners...)
	o.mu.Unlock()
	for _, l := range listeners {
		l(ctx, ev)
	}
}
