package controllers

import (
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/maxamas123/district-line-tracker/internal/models"
	"github.com/maxamas123/district-line-tracker/internal/providers"
	"github.com/maxamas123/district-line-tracker/internal/services"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type ReportController struct {
	logger  providers.Logger
	service services.ReportServiceInterface
}

func NewReportController(logger providers.Logger, service services.ReportServiceInterface) *ReportController {
	return &ReportController{
		logger:  logger,
		service: service,
	}
}

type errorResponse struct {
	Error      string `json:"error"`
	Field      string `json:"field,omitempty"`
	RetryAfter int    `json:"retry_after,omitempty"`
}

type ownedRequest struct {
	ID         string `json:"id"`
	OwnerToken string `json:"owner_token"`
}

type editRequest struct {
	ID         string `json:"id"`
	OwnerToken string `json:"owner_token"`
	models.ReportEdit
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	gson, err := json.Marshal(body)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

// writeServiceError maps service failures onto the API's status codes. The
// rate limit response carries the remaining cooldown both as a header and in
// the body.
func writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: validationErr.Message, Field: validationErr.Field})
		return
	}

	var rateErr *services.RateLimitError
	if errors.As(err, &rateErr) {
		w.Header().Set("Retry-After", strconv.Itoa(rateErr.RetryAfter))
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: rateErr.Error(), RetryAfter: rateErr.RetryAfter})
		return
	}

	switch {
	case errors.Is(err, models.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "report not found"})
	case errors.Is(err, models.ErrTokenMismatch), errors.Is(err, services.ErrSelfConfirm):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
	default:
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// clientIP resolves the submitter's address for rate limiting, preferring
// proxy headers over the socket address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	if real := r.Header.Get("X-Real-Ip"); real != "" {
		return real
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (rc *ReportController) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload services.SubmitReport
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}

	created, err := rc.service.Submit(r.Context(), &payload, clientIP(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (rc *ReportController) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	reports := rc.service.List(q.Get("station"), q.Get("category"), limit, offset)
	writeJSON(w, http.StatusOK, reports)
}

func (rc *ReportController) Update(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload editRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}

	if err := rc.service.Update(payload.ID, payload.OwnerToken, payload.ReportEdit); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (rc *ReportController) Delete(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload ownedRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}

	if err := rc.service.Delete(payload.ID, payload.OwnerToken); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (rc *ReportController) Upvote(w http.ResponseWriter, r *http.Request) {
	rc.vote(w, r, rc.service.Confirm)
}

func (rc *ReportController) Downvote(w http.ResponseWriter, r *http.Request) {
	rc.vote(w, r, rc.service.Unconfirm)
}

func (rc *ReportController) vote(w http.ResponseWriter, r *http.Request, apply func(id, callerToken string) (int, error)) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload ownedRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}

	upvotes, err := apply(payload.ID, payload.OwnerToken)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"upvotes": upvotes})
}
