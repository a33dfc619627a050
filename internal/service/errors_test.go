package service_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"vessel/internal/service"
)

func TestStatusError_Is(t *testing.T) {
	err := fmt.Errorf("stock overview: %w", &service.StatusError{Status: 404, Detail: "not found"})

	assert.True(t, errors.Is(err, service.ErrNotFound))
	assert.Equal(t, "not found", service.ErrorDetail(err))
	assert.Equal(t, "stock overview: 404 Not Found: not found", err.Error())
}

func TestStatusError_NotFoundOnlyFor404(t *testing.T) {
	err := &service.StatusError{Status: 500}

	assert.False(t, errors.Is(err, service.ErrNotFound))
	assert.Equal(t, "", service.ErrorDetail(err))
	assert.Equal(t, "500 Internal Server Error", err.Error())
}

func TestStockOverview_HasData(t *testing.T) {
	var nilOverview *service.StockOverview
	assert.False(t, nilOverview.HasData())
	assert.False(t, (&service.StockOverview{Name: "Apple"}).HasData())
	assert.True(t, (&service.StockOverview{Symbol: "AAPL"}).HasData())
}
