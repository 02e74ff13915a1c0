package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxamas123/district-line-tracker/internal/models"
	"github.com/maxamas123/district-line-tracker/internal/testutil"
)

func TestDashboardController_ComputesAndCaches(t *testing.T) {
	svc := &testutil.MockAggregationService{
		Result: &models.DashboardStats{TotalReports: 7, TotalTimeLostMinutes: 120},
	}
	cache := testutil.NewMockCache()
	dc := NewDashboardController(&testutil.MockLogger{}, svc, cache)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	rr := httptest.NewRecorder()
	dc.Dashboard(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp models.DashboardStats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 7, resp.TotalReports)
	assert.Equal(t, 120, resp.TotalTimeLostMinutes)

	_, cached := cache.Get("dashboard")
	assert.True(t, cached)
}

func TestDashboardController_ServesFromCache(t *testing.T) {
	cache := testutil.NewMockCache()
	cache.Set("dashboard", []byte(`{"total_reports":99}`))
	dc := NewDashboardController(&testutil.MockLogger{}, &testutil.MockAggregationService{}, cache)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	rr := httptest.NewRecorder()
	dc.Dashboard(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp models.DashboardStats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 99, resp.TotalReports)
}
