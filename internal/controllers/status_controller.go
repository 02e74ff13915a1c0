package controllers

import (
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/maxamas123/district-line-tracker/internal/models"
	"github.com/maxamas123/district-line-tracker/internal/providers"
	"github.com/maxamas123/district-line-tracker/internal/services"
)

type StatusController struct {
	logger  providers.Logger
	service services.StatusServiceInterface
	store   *models.ReportStore
	cache   providers.CacheProviderInterface
}

func NewStatusController(logger providers.Logger, service services.StatusServiceInterface, store *models.ReportStore, cache providers.CacheProviderInterface) *StatusController {
	return &StatusController{
		logger:  logger,
		service: service,
		store:   store,
		cache:   cache,
	}
}

type statusResponse struct {
	models.StatusSnapshot
	GoodService     bool                   `json:"good_service"`
	BranchRelevance models.BranchRelevance `json:"branch_relevance"`
}

func newStatusResponse(snap models.StatusSnapshot) statusResponse {
	return statusResponse{
		StatusSnapshot:  snap,
		GoodService:     snap.IsGoodService(),
		BranchRelevance: snap.Relevance(),
	}
}

// Live serves the current official line status. When the upstream feed is
// unreachable and no cached value exists the endpoint answers 502 so the
// client can show an "unavailable" banner instead of a stale good service.
func (sc *StatusController) Live(w http.ResponseWriter, r *http.Request) {
	if data, ok := sc.cache.Get("status:live"); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	snap, err := sc.service.Live(r.Context())
	if err != nil {
		sc.logger.Warnf(providers.TypeGet, "Live status unavailable: %s", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "line status unavailable"})
		return
	}

	gson, err := json.Marshal(newStatusResponse(*snap))
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	sc.cache.Set("status:live", gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

// At looks up the logged status in effect at a given instant. 404 means the
// snapshot log has nothing at or before that time.
func (sc *StatusController) At(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("t")
	at, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "t must be an RFC 3339 timestamp", Field: "t"})
		return
	}

	snap, ok := sc.store.SnapshotAtOrBefore(at)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no logged status at or before that time"})
		return
	}
	writeJSON(w, http.StatusOK, newStatusResponse(snap))
}
