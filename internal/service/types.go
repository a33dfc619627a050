// Package service defines the backend-agnostic types and interface for dashboard queries.
package service

// Task is a server-recorded news search.
type Task struct {
	ID    int    `json:"id"`
	Topic string `json:"topic"`
}

// Article is a news result. URL is unique within a result set.
type Article struct {
	Title       string
	Description string // may contain HTML
	URL         string
	ImageURL    string
	Summary     string
	Topics      string // comma-separated
}

// DocumentContent is the stored article reference of a knowledge document.
type DocumentContent struct {
	Title string
	URL   string
}

// Document is a knowledge base search hit.
type Document struct {
	ID      int
	Content DocumentContent
	Summary *string
	Score   *float64
}

// StockOverview is the descriptive stock snapshot.
// Numeric-looking fields are kept as served; see output for display parsing.
type StockOverview struct {
	Symbol               string
	Name                 string
	Industry             string
	Description          string
	MarketCapitalization string
	PERatio              string
	DividendYield        string
	WeekHigh52           string
	WeekLow52            string
	AnalystTargetPrice   string
}

// HasData reports whether the overview carries a symbol.
// A missing symbol is how the backend says "no data".
func (s *StockOverview) HasData() bool {
	return s != nil && s.Symbol != ""
}

// HistoryPoint is one daily close, chronological within a series.
type HistoryPoint struct {
	Date  string
	Close float64
}

// TopicCount is a topic with the number of tasks recorded for it.
type TopicCount struct {
	Topic string
	Count int
}

// Stats summarises the backend's stored data.
type Stats struct {
	TotalTasks     int
	TotalDocuments int
	TopTopics      []TopicCount
}
