package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/maksimkurb/restd/src/internal/config"
	"github.com/maksimkurb/restd/src/internal/log"
	"github.com/maksimkurb/restd/src/internal/store"
)

var (
	// Version information set via ldflags at build time
	Version = "dev"
	Date    = "n/a"
	Commit  = "n/a"
)

const storePingTimeout = 2 * time.Second

// Handler serves the endpoints around the resources.
type Handler struct {
	cfg          *config.Config
	store        store.Store
	resources    []*Resource
	configHasher *config.ConfigHasher
}

// NewHandler creates a new API handler.
func NewHandler(cfg *config.Config, s store.Store, resources []*Resource, configHasher *config.ConfigHasher) *Handler {
	return &Handler{
		cfg:          cfg,
		store:        s,
		resources:    resources,
		configHasher: configHasher,
	}
}

// CheckHealth answers OK while the store is reachable.
// GET /health
func (h *Handler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), storePingTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		log.Warnf("Health check failed: %v", err)
		WriteServiceError(w, "Store is unavailable", map[string]interface{}{
			"store": CheckResult{Passed: false, Message: err.Error()},
		})
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// GetStatus returns version, resources and configuration state.
// GET /status
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	response := StatusResponse{
		Version: VersionInfo{
			Version: Version,
			Date:    Date,
			Commit:  Commit,
		},
		StoreDriver: h.cfg.Store.Driver,
		Resources:   make([]ResourceInfo, 0, len(h.resources)),
	}

	for _, res := range h.resources {
		response.Resources = append(response.Resources, res.Info())
	}

	if h.configHasher != nil {
		currentHash, err := h.configHasher.GetCurrentConfigHash()
		if err != nil {
			log.Warnf("Failed to get current config hash: %v", err)
			currentHash = "error"
		}
		activeHash := h.configHasher.GetActiveConfigHash()

		response.CurrentConfigHash = currentHash
		response.ActiveConfigHash = activeHash
		response.ConfigurationOutdated = currentHash != "" &&
			activeHash != "" &&
			currentHash != activeHash &&
			currentHash != "error"
	}

	writeJSONData(w, response)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Errorf("Failed to encode JSON response: %v", err)
	}
}

// writeJSONData writes a 200 OK response wrapped in a data field.
func writeJSONData(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, DataResponse{Data: data})
}
