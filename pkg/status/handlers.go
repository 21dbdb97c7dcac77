// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package status

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/canonical/directory-lifecycle/internal/logging"
	"github.com/canonical/directory-lifecycle/internal/monitoring"
	"github.com/canonical/directory-lifecycle/internal/storage"
	"github.com/canonical/directory-lifecycle/internal/tracing"
	"github.com/canonical/directory-lifecycle/internal/version"
	chi "github.com/go-chi/chi/v5"
)

type API struct {
	storage storage.StorageInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// NewAPI builds the status surface. storage may be nil when reporting is
// disabled; the run endpoints then answer 404.
func NewAPI(storage storage.StorageInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *API {
	return &API{
		storage: storage,
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}

func (a *API) RegisterEndpoints(mux *chi.Mux) {
	mux.Get("/api/v0/status", a.alive)
	mux.Get("/api/v0/version", a.version)
	mux.Get("/api/v0/runs", a.listRuns)
	mux.Get("/api/v0/runs/{id}", a.getRun)
}

func (a *API) alive(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) version(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]string{"version": version.Version})
}

func (a *API) listRuns(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "status.API.listRuns")
	defer span.End()

	if a.storage == nil {
		a.writeError(w, http.StatusNotFound, "run reporting is not configured")
		return
	}

	stage := r.URL.Query().Get("stage")
	page, _ := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64)
	size, _ := strconv.ParseInt(r.URL.Query().Get("size"), 10, 64)

	runs, err := a.storage.ListRuns(ctx, stage, page, size)
	if err != nil {
		a.logger.Errorf("failed to list runs: %v", err)
		a.writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}

	a.writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (a *API) getRun(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "status.API.getRun")
	defer span.End()

	if a.storage == nil {
		a.writeError(w, http.StatusNotFound, "run reporting is not configured")
		return
	}

	id := chi.URLParam(r, "id")

	run, err := a.storage.GetRunByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			a.writeError(w, http.StatusNotFound, "run not found")
			return
		}
		a.logger.Errorf("failed to get run %s: %v", id, err)
		a.writeError(w, http.StatusInternalServerError, "failed to get run")
		return
	}

	candidates, err := a.storage.ListCandidatesByRunID(ctx, id)
	if err != nil {
		a.logger.Errorf("failed to list candidates for run %s: %v", id, err)
		a.writeError(w, http.StatusInternalServerError, "failed to list run candidates")
		return
	}

	a.writeJSON(w, http.StatusOK, map[string]any{"run": run, "candidates": candidates})
}

func (a *API) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		a.logger.Errorf("failed to encode response: %v", err)
	}
}

func (a *API) writeError(w http.ResponseWriter, status int, msg string) {
	a.writeJSON(w, status, map[string]string{"error": msg})
}
