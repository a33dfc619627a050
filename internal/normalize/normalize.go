// Package normalize shapes raw backend payloads into service types.
// Functions here are pure and tolerate missing or partial fields.
package normalize

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"vessel/internal/service"
)

// RawArticle is an article as served by the news and task endpoints.
type RawArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	Summary     string `json:"summary"`
	Topics      string `json:"topics"`
}

// NewsPayload is the body of /api/search/{topic} and /api/tasks/{id}.
type NewsPayload struct {
	Articles []RawArticle `json:"articles"`
}

// RawDocument is a knowledge search hit. ID is a pointer so a missing id
// can be told apart from id 0.
type RawDocument struct {
	ID      *int `json:"id"`
	Content *struct {
		Title string `json:"title"`
		URL   string `json:"url"`
	} `json:"content"`
	Summary *string  `json:"summary"`
	Score   *float64 `json:"score"`
}

// RawHistoryPoint accepts Close as a JSON number or a numeric string.
type RawHistoryPoint struct {
	Date  string      `json:"Date"`
	Close json.Number `json:"Close"`
}

// UnmarshalJSON accepts "Close": 1.5 as well as "Close": "1.5".
func (p *RawHistoryPoint) UnmarshalJSON(data []byte) error {
	var raw struct {
		Date  string          `json:"Date"`
		Close json.RawMessage `json:"Close"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Date = raw.Date
	p.Close = ""
	c := strings.TrimSpace(string(raw.Close))
	if c == "" || c == "null" {
		return nil
	}
	if strings.HasPrefix(c, `"`) {
		var s string
		if err := json.Unmarshal(raw.Close, &s); err != nil {
			return err
		}
		c = strings.TrimSpace(s)
	}
	p.Close = json.Number(c)
	return nil
}

// RawStats is the body of /api/analytics/stats.
type RawStats struct {
	TotalTasks     int `json:"total_tasks"`
	TotalDocuments int `json:"total_documents"`
	TopTopics      []struct {
		Topic string `json:"topic"`
		Count int    `json:"count"`
	} `json:"top_topics"`
}

// News extracts the articles of a payload, never returning nil.
func News(p NewsPayload) []service.Article {
	articles := make([]service.Article, 0, len(p.Articles))
	for _, a := range p.Articles {
		articles = append(articles, service.Article{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			ImageURL:    a.URLToImage,
			Summary:     a.Summary,
			Topics:      a.Topics,
		})
	}
	return articles
}

// Knowledge passes documents through in order. Entries without an id are
// dropped; entries without content are kept with empty content.
func Knowledge(docs []RawDocument) []service.Document {
	out := make([]service.Document, 0, len(docs))
	for _, d := range docs {
		if d.ID == nil {
			continue
		}
		doc := service.Document{
			ID:      *d.ID,
			Summary: d.Summary,
			Score:   d.Score,
		}
		if d.Content != nil {
			doc.Content = service.DocumentContent{Title: d.Content.Title, URL: d.Content.URL}
		}
		out = append(out, doc)
	}
	return out
}

// StockOverview passes the overview fields through verbatim.
// Non-string scalars are formatted, never coerced.
func StockOverview(raw map[string]any) *service.StockOverview {
	field := func(key string) string {
		v, ok := raw[key]
		if !ok || v == nil {
			return ""
		}
		switch val := v.(type) {
		case string:
			return val
		case json.Number:
			return val.String()
		case float64:
			return strconv.FormatFloat(val, 'f', -1, 64)
		default:
			return fmt.Sprint(val)
		}
	}
	return &service.StockOverview{
		Symbol:               field("Symbol"),
		Name:                 field("Name"),
		Industry:             field("Industry"),
		Description:          field("Description"),
		MarketCapitalization: field("MarketCapitalization"),
		PERatio:              field("PERatio"),
		DividendYield:        field("DividendYield"),
		WeekHigh52:           field("52WeekHigh"),
		WeekLow52:            field("52WeekLow"),
		AnalystTargetPrice:   field("AnalystTargetPrice"),
	}
}

// StockHistory keeps the served order. Points with an unparsable close are
// dropped.
func StockHistory(points []RawHistoryPoint) []service.HistoryPoint {
	out := make([]service.HistoryPoint, 0, len(points))
	for _, p := range points {
		if p.Close == "" {
			continue
		}
		c, err := p.Close.Float64()
		if err != nil {
			continue
		}
		out = append(out, service.HistoryPoint{Date: p.Date, Close: c})
	}
	return out
}

// Stats converts the analytics payload.
func Stats(raw RawStats) service.Stats {
	s := service.Stats{
		TotalTasks:     raw.TotalTasks,
		TotalDocuments: raw.TotalDocuments,
		TopTopics:      make([]service.TopicCount, 0, len(raw.TopTopics)),
	}
	for _, t := range raw.TopTopics {
		s.TopTopics = append(s.TopTopics, service.TopicCount{Topic: t.Topic, Count: t.Count})
	}
	return s
}

// ErrorDetail extracts "detail" from an error body. FastAPI validation
// errors carry a list; the first message is used.
func ErrorDetail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(payload.Detail, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var list []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(payload.Detail, &list); err == nil && len(list) > 0 {
		return strings.TrimSpace(list[0].Msg)
	}
	return ""
}
