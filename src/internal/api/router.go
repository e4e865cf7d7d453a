package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/maksimkurb/restd/src/internal/config"
	"github.com/maksimkurb/restd/src/internal/store"
	"github.com/maksimkurb/restd/src/rest"
)

// Resource is a configured resource with its dispatcher.
type Resource struct {
	Config     *config.ResourceConfig
	Dispatcher *rest.Dispatcher
}

// Info describes the resource for the status endpoint and the routes command.
func (r *Resource) Info() ResourceInfo {
	routes := make(map[string]string)
	for _, route := range r.Dispatcher.Describe() {
		handler := route.Handler
		if !route.Implemented {
			handler = "-"
		}
		routes[route.Action.String()] = handler
	}

	return ResourceInfo{
		Name:       r.Config.Name,
		Paths:      r.Config.Paths(),
		Collection: r.Config.Collection(),
		ReadOnly:   r.Config.ReadOnly,
		Variant:    string(r.Dispatcher.Variant()),
		Routes:     routes,
	}
}

// BuildResources creates a dispatcher for every configured resource.
func BuildResources(cfg *config.Config, s store.Store) ([]*Resource, error) {
	resources := make([]*Resource, 0, len(cfg.Resources))
	for _, resCfg := range cfg.Resources {
		restCfg, err := cfg.ToRestConfig(resCfg)
		if err != nil {
			return nil, err
		}
		restCfg.Behaviors = writeBehaviors(resCfg.ReadOnly, cfg.General.AuthToken)

		d, err := rest.New(NewDocumentController(s, resCfg.Collection()), restCfg)
		if err != nil {
			return nil, fmt.Errorf("resource %s: %w", resCfg.Name, err)
		}
		resources = append(resources, &Resource{Config: resCfg, Dispatcher: d})
	}
	return resources, nil
}

// NewRouter creates a new HTTP router with all resources mounted under the API prefix.
func NewRouter(cfg *config.Config, s store.Store, resources []*Resource, configHasher *config.ConfigHasher) http.Handler {
	r := chi.NewRouter()

	// Apply middleware
	r.Use(Recovery)
	r.Use(RequestID)
	r.Use(Logger)
	if cfg.General.PrivateNetworksOnly {
		r.Use(PrivateSubnetOnly)
	}
	r.Use(CORS(cfg.General.CORSOrigin))

	h := NewHandler(cfg, s, resources, configHasher)

	r.Get("/health", h.CheckHealth)
	r.Get("/status", h.GetStatus)

	r.Route(cfg.General.APIPrefix, func(r chi.Router) {
		for _, res := range resources {
			res.Dispatcher.Mount(r, res.Config.Name, res.Config.Aliases...)
		}
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteNotFound(w, r.URL.Path)
	})

	return r
}
