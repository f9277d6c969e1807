package scan

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/sec-tools/policy-atlas/pkg/adapters"
	"github.com/sec-tools/policy-atlas/pkg/models/api"
	"github.com/sec-tools/policy-atlas/pkg/models/domain"
	"github.com/sec-tools/policy-atlas/pkg/services/catalog"
	scansvc "github.com/sec-tools/policy-atlas/pkg/services/scan"
	duckdbscan "github.com/sec-tools/policy-atlas/pkg/store/duckdb/scan"
)

const defaultListLimit = 20

type Handler struct {
	catalog *catalog.Catalog
	targets scansvc.Registry
	store   duckdbscan.Store
}

func NewHandler(cat *catalog.Catalog, targets scansvc.Registry, store duckdbscan.Store) *Handler {
	return &Handler{
		catalog: cat,
		targets: targets,
		store:   store,
	}
}

func (h *Handler) ListRules(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	response := make([]api.Rule, 0, h.catalog.Len())
	for _, rule := range h.catalog.Rules() {
		response = append(response, adapters.MapRuleDomainToApi(rule))
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error().
			Err(err).
			Msg("failed to encode rules")
	}
}

func (h *Handler) RunScan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	var request api.ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "invalid scan request", http.StatusBadRequest)
		return
	}
	if request.Path == "" {
		http.Error(w, "path is required", http.StatusBadRequest)
		return
	}

	scanner := scansvc.New(h.catalog.Entries(), h.targets)
	report, err := scanner.Scan(ctx, request.Path)
	if err != nil {
		if errors.Is(err, domain.ErrTargetNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		logger.Error().
			Err(err).
			Str("path", request.Path).
			Msg("scan failed")
		http.Error(w, "scan failed", http.StatusInternalServerError)
		return
	}

	if h.store != nil {
		rec, findings := adapters.MapScanReportDomainToStore(report)
		if err := h.store.Add(ctx, rec, findings); err != nil {
			logger.Error().
				Err(err).
				Str("scan_id", report.ID).
				Msg("failed to persist scan")
		}
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(adapters.MapScanReportDomainToApi(report)); err != nil {
		logger.Error().
			Err(err).
			Msg("failed to encode scan report")
	}
}

func (h *Handler) ListScans(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	records, err := h.store.List(ctx, limit)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to list scans")
		http.Error(w, "failed to list scans", http.StatusInternalServerError)
		return
	}

	response := make([]api.ScanSummary, 0, len(records))
	for _, rec := range records {
		response = append(response, adapters.MapScanRecordStoreToApi(rec))
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error().
			Err(err).
			Msg("failed to encode scan list")
	}
}

func (h *Handler) GetScan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	id := chi.URLParam(r, "id")

	rec, findings, err := h.store.Get(ctx, id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		logger.Error().
			Err(err).
			Str("scan_id", id).
			Msg("failed to load scan")
		http.Error(w, "failed to load scan", http.StatusInternalServerError)
		return
	}

	if err := json.NewEncoder(w).Encode(adapters.MapStoredScanToApi(rec, findings)); err != nil {
		logger.Error().
			Err(err).
			Str("scan_id", id).
			Msg("failed to encode scan")
	}
}
