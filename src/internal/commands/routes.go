package commands

import (
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/cheynewallace/tabby"

	"github.com/maksimkurb/restd/src/internal/api"
	"github.com/maksimkurb/restd/src/internal/config"
	"github.com/maksimkurb/restd/src/internal/store"
	"github.com/maksimkurb/restd/src/rest"
	"github.com/maksimkurb/restd/src/rest/opt"
	"github.com/maksimkurb/restd/src/rest/request"
)

// RoutesCommand prints how every resource dispatches requests.
type RoutesCommand struct {
	fs  *flag.FlagSet
	ctx *AppContext
	cfg *config.Config

	resources []*api.Resource
}

func CreateRoutesCommand() Runner {
	return &RoutesCommand{
		fs: flag.NewFlagSet("routes", flag.ContinueOnError),
	}
}

func (c *RoutesCommand) Name() string {
	return c.fs.Name()
}

func (c *RoutesCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx

	if err := c.fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	// Dispatchers only need a store to exist, so the memory store stands in
	// for the configured backend.
	c.resources, err = api.BuildResources(cfg, store.NewMemory())
	return err
}

var transitions = []struct {
	method request.Method
	id     opt.Optional[string]
	path   string
}{
	{request.Get, opt.None[string](), "GET    /"},
	{request.Get, opt.Some("{id}"), "GET    /{id}"},
	{request.Post, opt.None[string](), "POST   /"},
	{request.Post, opt.Some("{id}"), "POST   /{id}"},
	{request.Put, opt.None[string](), "PUT    /"},
	{request.Put, opt.Some("{id}"), "PUT    /{id}"},
	{request.Patch, opt.Some("{id}"), "PATCH  /{id}"},
	{request.Delete, opt.None[string](), "DELETE /"},
	{request.Delete, opt.Some("{id}"), "DELETE /{id}"},
}

func (c *RoutesCommand) Run() error {
	out := c.ctx.out()

	for i, res := range c.resources {
		if i > 0 {
			fmt.Fprintln(out)
		}

		info := res.Info()
		fmt.Fprintf(out, "%s/%s (variant: %s, collection: %s", c.cfg.General.APIPrefix, info.Name, info.Variant, info.Collection)
		if info.ReadOnly {
			fmt.Fprint(out, ", read-only")
		}
		fmt.Fprintln(out, ")")
		if len(res.Config.Aliases) > 0 {
			fmt.Fprintf(out, "  aliases: %s\n", strings.Join(res.Config.Aliases, ", "))
		}
		fmt.Fprintf(out, "  handlers: %s\n", strings.Join(res.Dispatcher.Handlers(), ", "))

		routes := make(map[rest.Action]rest.RouteInfo)
		for _, route := range res.Dispatcher.Describe() {
			routes[route.Action] = route
		}

		table := tabby.NewCustom(tabwriter.NewWriter(out, 0, 4, 2, ' ', 0))
		table.AddHeader("REQUEST", "ACTION", "HANDLER", "GUARDED")
		for _, t := range transitions {
			action, ok := rest.Select(res.Dispatcher.Variant(), t.method, t.id)
			if !ok {
				table.AddLine(t.path, "-", "not found", "")
				continue
			}

			route := routes[action]
			handler := route.Handler
			if !route.Implemented {
				handler = "not found"
			}
			guarded := ""
			if route.HasBehavior {
				guarded = "yes"
			}
			table.AddLine(t.path, action, handler, guarded)
		}
		table.Print()
	}

	return nil
}
