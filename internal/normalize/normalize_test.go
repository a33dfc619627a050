package normalize_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vessel/internal/normalize"
	"vessel/internal/service"
)

func TestNews_MissingArticles(t *testing.T) {
	var p normalize.NewsPayload
	require.NoError(t, json.Unmarshal([]byte(`{}`), &p))

	got := normalize.News(p)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestNews_ImageURLPassThrough(t *testing.T) {
	var p normalize.NewsPayload
	body := `{"articles":[
		{"title":"A","description":"<b>d</b>","url":"https://a","urlToImage":"https://img/a.png","summary":"s","topics":"ai, chips"},
		{"title":"B","url":"https://b"}
	]}`
	require.NoError(t, json.Unmarshal([]byte(body), &p))

	got := normalize.News(p)
	require.Len(t, got, 2)
	assert.Equal(t, service.Article{
		Title:       "A",
		Description: "<b>d</b>",
		URL:         "https://a",
		ImageURL:    "https://img/a.png",
		Summary:     "s",
		Topics:      "ai, chips",
	}, got[0])
	assert.Equal(t, "https://b", got[1].URL)
	assert.Empty(t, got[1].ImageURL)
}

func TestKnowledge_DropsEntriesWithoutID(t *testing.T) {
	var docs []normalize.RawDocument
	body := `[
		{"id":1,"content":{"title":"one","url":"https://one"},"summary":null},
		{"content":{"title":"no id","url":"https://x"}},
		{"id":0,"summary":"orphan"}
	]`
	require.NoError(t, json.Unmarshal([]byte(body), &docs))

	got := normalize.Knowledge(docs)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].ID)
	assert.Equal(t, "https://one", got[0].Content.URL)
	assert.Nil(t, got[0].Summary)
	assert.Equal(t, 0, got[1].ID)
	assert.Empty(t, got[1].Content.URL)
	require.NotNil(t, got[1].Summary)
	assert.Equal(t, "orphan", *got[1].Summary)
}

func TestStockOverview_Verbatim(t *testing.T) {
	raw := map[string]any{
		"Symbol":               "AAPL",
		"Name":                 "Apple Inc",
		"MarketCapitalization": "3000000000000",
		"PERatio":              "None",
		"DividendYield":        0.0044,
		"52WeekHigh":           "199.62",
		"52WeekLow":            "164.08",
	}

	got := normalize.StockOverview(raw)
	assert.Equal(t, "AAPL", got.Symbol)
	assert.Equal(t, "3000000000000", got.MarketCapitalization)
	assert.Equal(t, "None", got.PERatio)
	assert.Equal(t, "0.0044", got.DividendYield)
	assert.Equal(t, "199.62", got.WeekHigh52)
	assert.Equal(t, "164.08", got.WeekLow52)
	assert.Empty(t, got.AnalystTargetPrice)
}

func TestStockOverview_NoSymbolIsNoData(t *testing.T) {
	got := normalize.StockOverview(map[string]any{})
	assert.False(t, got.HasData())
}

func TestStockHistory_NumberOrString(t *testing.T) {
	var pts []normalize.RawHistoryPoint
	body := `[
		{"Date":"2024-01-02","Close":185.64},
		{"Date":"2024-01-03","Close":"184.25"},
		{"Date":"2024-01-04","Close":null},
		{"Date":"2024-01-05","Close":"n/a"}
	]`
	require.NoError(t, json.Unmarshal([]byte(body), &pts))

	got := normalize.StockHistory(pts)
	assert.Equal(t, []service.HistoryPoint{
		{Date: "2024-01-02", Close: 185.64},
		{Date: "2024-01-03", Close: 184.25},
	}, got)
}

func TestStockHistory_Nil(t *testing.T) {
	got := normalize.StockHistory(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestStats(t *testing.T) {
	var raw normalize.RawStats
	body := `{"total_tasks":4,"total_documents":9,"top_topics":[{"topic":"ai","count":3},{"topic":"chips","count":1}]}`
	require.NoError(t, json.Unmarshal([]byte(body), &raw))

	got := normalize.Stats(raw)
	assert.Equal(t, 4, got.TotalTasks)
	assert.Equal(t, 9, got.TotalDocuments)
	assert.Equal(t, []service.TopicCount{{Topic: "ai", Count: 3}, {Topic: "chips", Count: 1}}, got.TopTopics)
}

func TestErrorDetail(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"string detail", `{"detail":"not found"}`, "not found"},
		{"validation list", `{"detail":[{"loc":["query","q"],"msg":"field required"}]}`, "field required"},
		{"no detail", `{"error":"x"}`, ""},
		{"not json", `<html>502</html>`, ""},
		{"empty", ``, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalize.ErrorDetail([]byte(tt.body)))
		})
	}
}
