package dashboard

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"vessel/internal/service"
)

func TestProject(t *testing.T) {
	summary := "summary"
	docs := []service.Document{
		{ID: 1, Content: service.DocumentContent{Title: "A", URL: "https://a"}, Summary: &summary},
		{ID: 2, Content: service.DocumentContent{Title: "no url"}},
	}
	overview := &service.StockOverview{Symbol: "AAPL", Name: "Apple"}
	history := []service.HistoryPoint{{Date: "2024-01-02", Close: 185.64}}

	tests := []struct {
		name  string
		state func(*OrchestratorState)
		want  View
	}{
		{
			name:  "initial",
			state: func(*OrchestratorState) {},
			want:  View{Active: LaneNone},
		},
		{
			name: "all lanes loading",
			state: func(s *OrchestratorState) {
				s.News.Loading = true
				s.Knowledge.Loading = true
				s.Stock.Loading = true
			},
			want: View{Loading: []LoadingIndicator{
				{Lane: LaneNews, Text: LoadingNewsText},
				{Lane: LaneKnowledge, Text: LoadingKnowledgeText},
				{Lane: LaneStock, Text: LoadingStockText},
			}},
		},
		{
			name: "news results",
			state: func(s *OrchestratorState) {
				s.News.Submitted = true
				s.News.Query = "ai"
				s.News.Result = []service.Article{{Title: "t", URL: "https://t"}}
			},
			want: View{Active: LaneNews, Articles: []service.Article{{Title: "t", URL: "https://t"}}},
		},
		{
			name: "documents without url are hidden",
			state: func(s *OrchestratorState) {
				s.Knowledge.Submitted = true
				s.Knowledge.Result = docs
			},
			want: View{Active: LaneKnowledge, Documents: docs[:1]},
		},
		{
			name: "only documents without url count as empty",
			state: func(s *OrchestratorState) {
				s.Knowledge.Submitted = true
				s.Knowledge.Query = "chips"
				s.Knowledge.Result = docs[1:]
			},
			want: View{Active: LaneNone, Empty: "No past results match 'chips'."},
		},
		{
			name: "stock with history",
			state: func(s *OrchestratorState) {
				s.Stock.Submitted = true
				s.Stock.Result = StockResult{Overview: overview, History: history}
			},
			want: View{Active: LaneStock, Stock: overview, History: history},
		},
		{
			name: "stock without history",
			state: func(s *OrchestratorState) {
				s.Stock.Submitted = true
				s.Stock.Result = StockResult{Overview: overview}
			},
			want: View{Active: LaneStock, Stock: overview, HistoryEmpty: HistoryEmptyText},
		},
		{
			name: "history only",
			state: func(s *OrchestratorState) {
				s.Stock.Submitted = true
				s.Stock.Query = "AAPL"
				s.Stock.Result = StockResult{Overview: &service.StockOverview{}, History: history}
			},
			want: View{Active: LaneStock, History: history},
		},
		{
			name: "overview without symbol is no data",
			state: func(s *OrchestratorState) {
				s.Stock.Submitted = true
				s.Stock.Query = "ZZZZ"
				s.Stock.Result = StockResult{Overview: &service.StockOverview{Name: "?"}}
			},
			want: View{Empty: "No data available for 'ZZZZ'."},
		},
		{
			name: "stock error suppresses empty message",
			state: func(s *OrchestratorState) {
				s.Stock.Submitted = true
				s.Stock.Query = "ZZZZ"
				s.Stock.Err = "not found"
			},
			want: View{Error: "not found"},
		},
		{
			name: "news empty",
			state: func(s *OrchestratorState) {
				s.News.Submitted = true
				s.News.Query = "ai"
			},
			want: View{Empty: "No results found for 'ai'."},
		},
		{
			name: "news empty while loading",
			state: func(s *OrchestratorState) {
				s.News.Submitted = true
				s.News.Loading = true
				s.News.Query = "ai"
			},
			want: View{Loading: []LoadingIndicator{{Lane: LaneNews, Text: LoadingNewsText}}},
		},
		{
			name: "knowledge empty",
			state: func(s *OrchestratorState) {
				s.Knowledge.Submitted = true
				s.Knowledge.Query = "agents"
			},
			want: View{Empty: "No past results match 'agents'."},
		},
		{
			name: "not submitted",
			state: func(s *OrchestratorState) {
				s.Knowledge.Query = "agents"
			},
			want: View{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s OrchestratorState
			tt.state(&s)
			if diff := cmp.Diff(tt.want, Project(s)); diff != "" {
				t.Errorf("Project() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBeginQuery(t *testing.T) {
	var s OrchestratorState
	s.News.Result = []service.Article{{URL: "u"}}
	s.News.Submitted = true
	s.Stock.Err = "not found"
	s.Stock.Loading = true
	s.Stock.seq = 1
	s.gen = 1

	token := s.beginQuery(LaneKnowledge, "agents")

	if token != 2 {
		t.Errorf("token = %d, want 2", token)
	}
	if s.News.Result != nil || s.News.Submitted {
		t.Errorf("news lane not cleared: %+v", s.News)
	}
	if s.Stock.Err != "" || !s.Stock.Loading {
		t.Errorf("stock lane: err %q loading %v, want cleared error and loading kept", s.Stock.Err, s.Stock.Loading)
	}
	if !s.Knowledge.Loading || s.Knowledge.Query != "agents" || !s.Knowledge.Submitted || s.Knowledge.seq != 2 {
		t.Errorf("knowledge lane not started: %+v", s.Knowledge)
	}
}

func TestCloneIsDeep(t *testing.T) {
	var s OrchestratorState
	s.News.Result = []service.Article{{Title: "a"}}
	s.Stock.Result = StockResult{Overview: &service.StockOverview{Symbol: "X"}, History: []service.HistoryPoint{{Close: 1}}}

	c := s.clone()
	c.News.Result[0].Title = "b"
	c.Stock.Result.Overview.Symbol = "Y"
	c.Stock.Result.History[0].Close = 2

	if s.News.Result[0].Title != "a" || s.Stock.Result.Overview.Symbol != "X" || s.Stock.Result.History[0].Close != 1 {
		t.Errorf("clone shares memory with the original")
	}
}
