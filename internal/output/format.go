// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"vessel/internal/service"
)

const (
	// SectionSeparator is the separator line around section headers.
	SectionSeparator = "------------"

	// NotAvailable stands in for values that are missing or unparsable.
	NotAvailable = "n/a"

	// SparklineWidth is the maximum number of cells in a sparkline.
	SparklineWidth = 60
)

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// FormatTask formats a task line.
// Format: "{ID:>4}  {TOPIC}\n"
func FormatTask(w io.Writer, task service.Task) {
	fmt.Fprintf(w, "%4d  %s\n", task.ID, normalizeTitle(task.Topic))
}

// FormatHeader formats a section header.
func FormatHeader(w io.Writer, title string) {
	fmt.Fprintln(w, SectionSeparator)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, SectionSeparator)
}

// FormatArticle formats a numbered article with its stripped description,
// summary and topics.
func FormatArticle(w io.Writer, num int, a service.Article) {
	fmt.Fprintf(w, "%4d  %s\n", num, normalizeTitle(a.Title))
	fmt.Fprintf(w, "      %s\n", a.URL)
	if desc := StripHTML(a.Description); desc != "" {
		fmt.Fprintf(w, "      %s\n", desc)
	}
	if a.Summary != "" {
		fmt.Fprintf(w, "      summary: %s\n", oneLine(a.Summary))
	}
	if topics := SplitTopics(a.Topics); len(topics) > 0 {
		fmt.Fprintf(w, "      topics: %s\n", strings.Join(topics, ", "))
	}
}

// FormatDocument formats a numbered knowledge base hit.
func FormatDocument(w io.Writer, num int, d service.Document) {
	fmt.Fprintf(w, "%4d  %s\n", num, normalizeTitle(d.Content.Title))
	fmt.Fprintf(w, "      %s\n", d.Content.URL)
	if d.Summary != nil && *d.Summary != "" {
		fmt.Fprintf(w, "      %s\n", oneLine(*d.Summary))
	}
	if d.Score != nil {
		fmt.Fprintf(w, "      score: %.3f\n", *d.Score)
	}
}

// FormatStock formats a stock overview.
func FormatStock(w io.Writer, s *service.StockOverview) {
	fmt.Fprintf(w, "%s (%s)\n", orNA(s.Name), s.Symbol)
	if s.Industry != "" {
		fmt.Fprintln(w, s.Industry)
	}
	if s.Description != "" {
		fmt.Fprintln(w, oneLine(s.Description))
	}
	rows := []struct{ label, value string }{
		{"Market Capitalization", MarketCap(s.MarketCapitalization)},
		{"P/E Ratio (TTM)", orNA(s.PERatio)},
		{"Dividend Yield", Percent(s.DividendYield)},
		{"52 Week High", Dollars(s.WeekHigh52)},
		{"52 Week Low", Dollars(s.WeekLow52)},
		{"Analyst Target Price", Dollars(s.AnalystTargetPrice)},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "  %-22s%s\n", r.label, r.value)
	}
}

// FormatHistory formats a close-price sparkline with its date range.
func FormatHistory(w io.Writer, points []service.HistoryPoint, width int) {
	if len(points) == 0 {
		return
	}
	first, last := points[0], points[len(points)-1]
	fmt.Fprintf(w, "%s  %s .. %s  %.2f -> %.2f\n", Sparkline(points, width), first.Date, last.Date, first.Close, last.Close)
}

// FormatStats formats analytics totals and the top topics.
func FormatStats(w io.Writer, s *service.Stats) {
	fmt.Fprintf(w, "Total searches:   %d\n", s.TotalTasks)
	fmt.Fprintf(w, "Total documents:  %d\n", s.TotalDocuments)
	if len(s.TopTopics) == 0 {
		return
	}
	FormatHeader(w, "Top topics")
	for _, tc := range s.TopTopics {
		fmt.Fprintf(w, "%4d  %s\n", tc.Count, normalizeTitle(tc.Topic))
	}
}

// MarketCap renders a capitalization in billions of dollars.
func MarketCap(raw string) string {
	v, ok := parseNumber(raw)
	if !ok {
		return NotAvailable
	}
	return fmt.Sprintf("$%.2fB", math.Trunc(v)/1e9)
}

// Percent renders a fraction as a percentage.
func Percent(raw string) string {
	v, ok := parseNumber(raw)
	if !ok {
		return NotAvailable
	}
	return fmt.Sprintf("%.2f%%", v*100)
}

// Dollars prefixes a served price with a dollar sign.
func Dollars(raw string) string {
	if _, ok := parseNumber(raw); !ok {
		return NotAvailable
	}
	return "$" + strings.TrimSpace(raw)
}

// parseNumber parses a served numeric string. The upstream quote provider
// sends "None" and "-" for missing values.
func parseNumber(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Sparkline renders closes as block characters, sampled down to at most
// width cells.
func Sparkline(points []service.HistoryPoint, width int) string {
	if len(points) == 0 || width <= 0 {
		return ""
	}
	n := min(len(points), width)
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = points[i*len(points)/n].Close
	}
	closes[n-1] = points[len(points)-1].Close

	lo, hi := closes[0], closes[0]
	for _, c := range closes {
		lo = min(lo, c)
		hi = max(hi, c)
	}
	var b strings.Builder
	top := len(sparkRunes) - 1
	for _, c := range closes {
		idx := top / 2
		if hi > lo {
			idx = int(math.Round((c - lo) / (hi - lo) * float64(top)))
		}
		b.WriteRune(sparkRunes[idx])
	}
	return b.String()
}

// StripHTML returns the text content of an HTML fragment with whitespace
// collapsed.
func StripHTML(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return oneLine(fragment)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return oneLine(fragment)
	}
	doc.Find("script, style").Remove()
	return oneLine(doc.Text())
}

// SplitTopics splits a comma-separated topic string, dropping blanks.
func SplitTopics(topics string) []string {
	var out []string
	for _, t := range strings.Split(topics, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeTitle normalizes a title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotAvailable
	}
	return s
}
