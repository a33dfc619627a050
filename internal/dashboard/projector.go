package dashboard

import (
	"fmt"

	"vessel/internal/service"
)

// Texts shown by the results pane.
const (
	LoadingNewsText      = "Loading articles..."
	LoadingKnowledgeText = "Searching knowledge base..."
	LoadingStockText     = "Loading stock data..."
	HistoryEmptyText     = "No historical data available to display chart."
)

// LoadingIndicator is one lane's loading message.
type LoadingIndicator struct {
	Lane LaneID
	Text string
}

// View is what a shell should render for an OrchestratorState.
type View struct {
	Loading []LoadingIndicator
	Error   string
	Active  LaneID

	Articles     []service.Article
	Documents    []service.Document
	Stock        *service.StockOverview
	History      []service.HistoryPoint
	HistoryEmpty string

	// Empty is the "nothing found" message of the lane that was searched, if any.
	Empty string
}

// Project derives the render decisions from s. It does not modify s.
func Project(s OrchestratorState) View {
	var v View

	if s.News.Loading {
		v.Loading = append(v.Loading, LoadingIndicator{Lane: LaneNews, Text: LoadingNewsText})
	}
	if s.Knowledge.Loading {
		v.Loading = append(v.Loading, LoadingIndicator{Lane: LaneKnowledge, Text: LoadingKnowledgeText})
	}
	if s.Stock.Loading {
		v.Loading = append(v.Loading, LoadingIndicator{Lane: LaneStock, Text: LoadingStockText})
	}
	v.Error = s.Stock.Err

	v.Active = s.ActiveLane()
	switch v.Active {
	case LaneNews:
		v.Articles = s.News.Result
	case LaneKnowledge:
		v.Documents = linkedDocuments(s.Knowledge.Result)
	case LaneStock:
		if s.Stock.Result.Overview.HasData() {
			v.Stock = s.Stock.Result.Overview
			if len(s.Stock.Result.History) == 0 {
				v.HistoryEmpty = HistoryEmptyText
			}
		}
		v.History = s.Stock.Result.History
	}

	switch {
	case showEmpty(s.News.LaneStatus, len(s.News.Result) == 0):
		v.Empty = fmt.Sprintf("No results found for '%s'.", s.News.Query)
	case showEmpty(s.Knowledge.LaneStatus, len(linkedDocuments(s.Knowledge.Result)) == 0):
		v.Empty = fmt.Sprintf("No past results match '%s'.", s.Knowledge.Query)
	case showEmpty(s.Stock.LaneStatus, s.Stock.Result.Empty()):
		v.Empty = fmt.Sprintf("No data available for '%s'.", s.Stock.Query)
	}
	return v
}

func showEmpty(st LaneStatus, empty bool) bool {
	return st.Submitted && !st.Loading && st.Err == "" && empty
}
