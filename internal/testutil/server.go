package testutil

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"

	"vessel/internal/service"
)

// NewServer serves backend's data over the research backend's HTTP API,
// with the same wire shapes and error bodies. The server is closed when the
// test ends.
func NewServer(t *testing.T, backend service.Backend) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewHandler(backend))
	t.Cleanup(srv.Close)
	return srv
}

// NewHandler builds the echo router used by NewServer.
func NewHandler(backend service.Backend) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler

	e.GET("/api/tasks", func(c echo.Context) error {
		tasks, err := backend.ListTasks(c.Request().Context())
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, tasks)
	})

	e.GET("/api/tasks/:id", func(c echo.Context) error {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "task id must be an integer")
		}
		articles, err := backend.TaskArticles(c.Request().Context(), id)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, newsBody(articles))
	})

	e.DELETE("/api/tasks/:id", func(c echo.Context) error {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "task id must be an integer")
		}
		if err := backend.DeleteTask(c.Request().Context(), id); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, map[string]bool{"ok": true})
	})

	// Registered before /api/search/:topic; echo prefers static segments.
	e.GET("/api/search/history", func(c echo.Context) error {
		q := c.QueryParam("q")
		if q == "" {
			return c.JSON(http.StatusUnprocessableEntity, map[string]any{
				"detail": []map[string]any{{"loc": []string{"query", "q"}, "msg": "field required"}},
			})
		}
		docs, err := backend.SearchKnowledge(c.Request().Context(), q)
		if err != nil {
			return err
		}
		body := make([]map[string]any, 0, len(docs))
		for _, d := range docs {
			body = append(body, map[string]any{
				"id":      d.ID,
				"content": map[string]string{"title": d.Content.Title, "url": d.Content.URL},
				"summary": d.Summary,
			})
		}
		return c.JSON(http.StatusOK, body)
	})

	e.GET("/api/search/:topic", func(c echo.Context) error {
		articles, err := backend.SearchNews(c.Request().Context(), c.Param("topic"))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, newsBody(articles))
	})

	e.GET("/api/stock/:symbol", func(c echo.Context) error {
		s, err := backend.StockOverview(c.Request().Context(), c.Param("symbol"))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, map[string]string{
			"Symbol":               s.Symbol,
			"Name":                 s.Name,
			"Industry":             s.Industry,
			"Description":          s.Description,
			"MarketCapitalization": s.MarketCapitalization,
			"PERatio":              s.PERatio,
			"DividendYield":        s.DividendYield,
			"52WeekHigh":           s.WeekHigh52,
			"52WeekLow":            s.WeekLow52,
			"AnalystTargetPrice":   s.AnalystTargetPrice,
		})
	})

	e.GET("/api/stock/:symbol/history", func(c echo.Context) error {
		points, err := backend.StockHistory(c.Request().Context(), c.Param("symbol"))
		if err != nil {
			return err
		}
		body := make([]map[string]any, 0, len(points))
		for _, p := range points {
			body = append(body, map[string]any{"Date": p.Date, "Close": p.Close})
		}
		return c.JSON(http.StatusOK, body)
	})

	e.GET("/api/analytics/stats", func(c echo.Context) error {
		s, err := backend.Stats(c.Request().Context())
		if err != nil {
			return err
		}
		top := make([]map[string]any, 0, len(s.TopTopics))
		for _, t := range s.TopTopics {
			top = append(top, map[string]any{"topic": t.Topic, "count": t.Count})
		}
		return c.JSON(http.StatusOK, map[string]any{
			"total_tasks":     s.TotalTasks,
			"total_documents": s.TotalDocuments,
			"top_topics":      top,
		})
	})

	return e
}

func newsBody(articles []service.Article) map[string]any {
	list := make([]map[string]string, 0, len(articles))
	for _, a := range articles {
		list = append(list, map[string]string{
			"title":       a.Title,
			"description": a.Description,
			"url":         a.URL,
			"urlToImage":  a.ImageURL,
			"summary":     a.Summary,
			"topics":      a.Topics,
		})
	}
	return map[string]any{"articles": list}
}

// errorHandler renders errors the way the research backend does:
// {"detail": "..."} with the status of a StatusError, else 500.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status := http.StatusInternalServerError
	detail := "Internal Server Error"

	var se *service.StatusError
	var he *echo.HTTPError
	switch {
	case errors.As(err, &se):
		status = se.Status
		detail = se.Detail
	case errors.As(err, &he):
		status = he.Code
		if msg, ok := he.Message.(string); ok {
			detail = msg
		}
	}

	if detail == "" {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, map[string]string{"detail": detail})
}
