package rest

import (
	"maps"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/maksimkurb/restd/src/internal/errors"
	"github.com/maksimkurb/restd/src/internal/log"
	"github.com/maksimkurb/restd/src/rest/opt"
	"github.com/maksimkurb/restd/src/rest/request"
	"github.com/maksimkurb/restd/src/rest/response"
)

// Dispatcher maps HTTP method and resource id to a controller action. It is
// immutable after New and safe for concurrent use; every call gets its own
// Context.
type Dispatcher struct {
	routes     RouteTable
	behaviors  BehaviorTable
	handlers   map[string]HandlerFunc
	envelope   EnvelopeFieldNames
	format     response.Format
	formatters response.Formatters
	variant    Variant
	bodyFormat bool
	notFound   func(c *Context) error
	idParam    string
	maxBody    int64
}

// New builds a Dispatcher for controller. The controller contributes the
// handlers it implements (Indexer, Storer, Shower, Updater, Deleter,
// AllDeleter); cfg.Handlers adds or replaces named handlers on top.
func New(controller any, cfg Config) (*Dispatcher, error) {
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}

	routes := DefaultRoutes()
	maps.Copy(routes, cfg.Routes)

	handlers := controllerHandlers(controller)
	maps.Copy(handlers, cfg.Handlers)

	d := &Dispatcher{
		routes:     routes,
		behaviors:  maps.Clone(cfg.Behaviors),
		handlers:   handlers,
		envelope:   cfg.Envelope,
		format:     cfg.Format,
		formatters: maps.Clone(cfg.Formatters),
		variant:    cfg.Variant,
		bodyFormat: cfg.BodyFormat,
		notFound:   cfg.NotFound,
		idParam:    cfg.IDParam,
		maxBody:    cfg.MaxBodyBytes,
	}
	if d.behaviors == nil {
		d.behaviors = BehaviorTable{}
	}

	for _, a := range Actions {
		name := routes[a]
		if name == "" {
			continue
		}
		if _, ok := handlers[name]; !ok {
			log.Debugf("Action %s is routed to %q which is not implemented, it will fall through to the default action", a, name)
		}
	}

	return d, nil
}

// ServeHTTP dispatches with the id bound by chi under the configured parameter
// name. An empty parameter means no id.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := opt.FromString(chi.URLParam(r, d.idParam))
	if err := d.Route(w, r, id); err != nil {
		log.Errorf("Failed to dispatch %s %s: %v", r.Method, r.URL.Path, err)
	}
}

// Route runs one dispatch. Handler and hook errors are reported to the client
// as an envelope and are not returned; the returned error means the response
// itself could not be produced.
func (d *Dispatcher) Route(w http.ResponseWriter, r *http.Request, id opt.Optional[string]) error {
	var reqOpts []request.Option
	if d.maxBody > 0 {
		reqOpts = append(reqOpts, request.WithMaxBodyBytes(d.maxBody))
	}
	var respOpts []response.Option
	if d.formatters != nil {
		respOpts = append(respOpts, response.WithFormatters(d.formatters))
	}

	c := &Context{
		Request:  request.New(r, reqOpts...),
		Response: response.New(w, respOpts...),
		ID:       id,
		d:        d,
	}
	if d.format != "" {
		c.Response.SetFormat(d.format)
	}

	if err := d.dispatch(c); err != nil {
		if sendErr := d.handleError(c, err); sendErr != nil {
			return sendErr
		}
	}

	if !c.Response.Sent() {
		return c.Response.Send()
	}
	return nil
}

func (d *Dispatcher) dispatch(c *Context) error {
	action, ok := Select(d.variant, c.Request.Method(), c.ID)
	if !ok {
		return d.notFound(c)
	}
	c.Action = action

	if hook, ok := d.behaviors[action]; ok && hook != nil {
		if err := hook(c); err != nil {
			return err
		}
		if c.Response.Sent() {
			return nil
		}
	}

	name := d.routes[action]
	if name == "" {
		return d.notFound(c)
	}
	h, ok := d.handlers[name]
	if !ok {
		return d.notFound(c)
	}

	args := argsFor(action, c)
	if err := c.Request.BodyErr(); errors.HasCode(err, errors.ErrCodeRequestTooLarge) {
		return err
	}
	return h(c, args)
}

// handleError turns a dispatch error into an envelope. Nothing is written if
// the handler already sent its response.
func (d *Dispatcher) handleError(c *Context, err error) error {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Errorf("%s %s failed: %v", c.Request.Method(), c.Request.HTTP().URL.Path, err)
	} else {
		log.Debugf("%s %s: %v", c.Request.Method(), c.Request.HTTP().URL.Path, err)
	}

	if c.Response.Sent() {
		return nil
	}

	message := http.StatusText(status)
	var e *errors.Error
	if errors.As(err, &e) && status < http.StatusInternalServerError {
		message = e.Message
	}

	c.Response.SetFormat(response.FormatJSON)
	return c.JSON(c.Pack(opt.None[any](), status, message), status)
}

// RouteInfo describes how one action resolves.
type RouteInfo struct {
	Action      Action
	Handler     string
	Implemented bool
	HasBehavior bool
}

// Describe lists every action with the handler it resolves to.
func (d *Dispatcher) Describe() []RouteInfo {
	infos := make([]RouteInfo, 0, len(Actions))
	for _, a := range Actions {
		name := d.routes[a]
		_, implemented := d.handlers[name]
		infos = append(infos, RouteInfo{
			Action:      a,
			Handler:     name,
			Implemented: name != "" && implemented,
			HasBehavior: d.behaviors[a] != nil,
		})
	}
	return infos
}

// Variant returns the transition table in use.
func (d *Dispatcher) Variant() Variant {
	return d.variant
}

// Handlers returns the sorted names of all registered handlers.
func (d *Dispatcher) Handlers() []string {
	return slices.Sorted(maps.Keys(d.handlers))
}
