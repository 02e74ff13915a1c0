package controllers

import (
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/maxamas123/district-line-tracker/internal/providers"
	"github.com/maxamas123/district-line-tracker/internal/services"
)

type DashboardController struct {
	logger  providers.Logger
	service services.AggregationServiceInterface
	cache   providers.CacheProviderInterface
}

func NewDashboardController(logger providers.Logger, service services.AggregationServiceInterface, cache providers.CacheProviderInterface) *DashboardController {
	return &DashboardController{
		logger:  logger,
		service: service,
		cache:   cache,
	}
}

func (dc *DashboardController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := dc.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	dc.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func (dc *DashboardController) Dashboard(w http.ResponseWriter, r *http.Request) {
	dc.serveFromCacheOrCompute(w, "dashboard", func() (any, error) {
		return dc.service.Dashboard(), nil
	})
}
