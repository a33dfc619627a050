// Package dashboard is the client-side query orchestration core: it owns the
// state of the news, knowledge and stock lanes, the task registry and the
// projection of that state into render decisions.
package dashboard

import "vessel/internal/service"

// LaneID names a query lane.
type LaneID int

const (
	LaneNone LaneID = iota
	LaneNews
	LaneKnowledge
	LaneStock
)

// Lanes lists the query lanes in display order.
var Lanes = []LaneID{LaneNews, LaneKnowledge, LaneStock}

func (l LaneID) String() string {
	switch l {
	case LaneNews:
		return "news"
	case LaneKnowledge:
		return "knowledge"
	case LaneStock:
		return "stock"
	default:
		return "none"
	}
}

// LaneStatus is the part of a lane's state that does not depend on its
// result type.
type LaneStatus struct {
	Loading   bool
	Err       string // user-visible error; only the stock lane sets it
	Query     string // last submitted query, as sent
	Submitted bool   // a query was submitted and its result not cleared since

	seq uint64 // generation of the lane's latest query
}

// Lane is one query lane.
type Lane[T any] struct {
	LaneStatus
	Result T
}

// StockResult is the stock lane's result: an overview plus its history.
type StockResult struct {
	Overview *service.StockOverview
	History  []service.HistoryPoint
}

// Empty reports whether there is nothing to show.
func (r StockResult) Empty() bool {
	return !r.Overview.HasData() && len(r.History) == 0
}

// OrchestratorState aggregates the three lanes. It is owned by an
// Orchestrator; callers only ever see copies from Snapshot.
type OrchestratorState struct {
	News      Lane[[]service.Article]
	Knowledge Lane[[]service.Document]
	Stock     Lane[StockResult]

	gen uint64 // generation of the most recent query on any lane
}

func (s *OrchestratorState) status(id LaneID) *LaneStatus {
	switch id {
	case LaneNews:
		return &s.News.LaneStatus
	case LaneKnowledge:
		return &s.Knowledge.LaneStatus
	case LaneStock:
		return &s.Stock.LaneStatus
	}
	return nil
}

// clearResult drops a lane's result, error and submitted query. The loading
// flag belongs to the lane's in-flight request and is left alone.
func (s *OrchestratorState) clearResult(id LaneID) {
	st := s.status(id)
	st.Err = ""
	st.Query = ""
	st.Submitted = false
	switch id {
	case LaneNews:
		s.News.Result = nil
	case LaneKnowledge:
		s.Knowledge.Result = nil
	case LaneStock:
		s.Stock.Result = StockResult{}
	}
}

// beginQuery is the single transition every query starts with: the other
// lanes' results are cleared, the target lane is reset and marked loading.
// The returned token identifies the query for its completion.
func (s *OrchestratorState) beginQuery(id LaneID, query string) uint64 {
	s.gen++
	for _, other := range Lanes {
		s.clearResult(other)
	}
	st := s.status(id)
	st.Loading = true
	st.Query = query
	st.Submitted = true
	st.seq = s.gen
	return s.gen
}

// ActiveLane returns the lane holding a displayable result, or LaneNone.
// Knowledge documents without a content URL do not count.
func (s OrchestratorState) ActiveLane() LaneID {
	switch {
	case len(s.News.Result) > 0:
		return LaneNews
	case len(linkedDocuments(s.Knowledge.Result)) > 0:
		return LaneKnowledge
	case !s.Stock.Result.Empty():
		return LaneStock
	}
	return LaneNone
}

// linkedDocuments returns the documents that carry a content URL.
func linkedDocuments(docs []service.Document) []service.Document {
	var linked []service.Document
	for _, d := range docs {
		if d.Content.URL != "" {
			linked = append(linked, d)
		}
	}
	return linked
}

// clone returns a deep copy safe to hand out.
func (s *OrchestratorState) clone() OrchestratorState {
	c := *s
	if s.News.Result != nil {
		c.News.Result = append([]service.Article(nil), s.News.Result...)
	}
	if s.Knowledge.Result != nil {
		c.Knowledge.Result = append([]service.Document(nil), s.Knowledge.Result...)
	}
	if s.Stock.Result.Overview != nil {
		ov := *s.Stock.Result.Overview
		c.Stock.Result.Overview = &ov
	}
	if s.Stock.Result.History != nil {
		c.Stock.Result.History = append([]service.HistoryPoint(nil), s.Stock.Result.History...)
	}
	return c
}
