package dashboard

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"vessel/internal/service"
)

// Analytics texts.
const (
	StatsLoadingText = "Loading stats..."
	StatsErrorText   = "Could not load analytics data."
)

// Analytics loads and holds the backend's summary statistics.
type Analytics struct {
	backend service.Backend
	log     *zap.Logger

	mu      sync.Mutex
	loading bool
	stats   *service.Stats
}

// NewAnalytics returns an Analytics that reports loading until the first
// Load completes.
func NewAnalytics(backend service.Backend, log *zap.Logger) *Analytics {
	if log == nil {
		log = zap.NewNop()
	}
	return &Analytics{backend: backend, log: log.Named("analytics"), loading: true}
}

// Load fetches the stats. Any failure leaves no stats.
func (a *Analytics) Load(ctx context.Context) error {
	a.mu.Lock()
	a.loading = true
	a.mu.Unlock()

	stats, err := a.backend.Stats(ctx)
	if err != nil {
		a.log.Warn("stats load failed", zap.Error(err))
		stats = nil
	}

	a.mu.Lock()
	a.loading = false
	a.stats = stats
	a.mu.Unlock()
	return err
}

// AnalyticsView is the render decision for the analytics page.
type AnalyticsView struct {
	Loading bool
	Stats   *service.Stats
	Message string
}

// Project returns the current render decision.
func (a *Analytics) Project() AnalyticsView {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch {
	case a.loading:
		return AnalyticsView{Loading: true, Message: StatsLoadingText}
	case a.stats == nil:
		return AnalyticsView{Message: StatsErrorText}
	}
	st := *a.stats
	st.TopTopics = append([]service.TopicCount(nil), a.stats.TopTopics...)
	return AnalyticsView{Stats: &st}
}
