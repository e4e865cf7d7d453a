package rest

import (
	"github.com/maksimkurb/restd/src/rest/opt"
	"github.com/maksimkurb/restd/src/rest/request"
)

// Args are the positional arguments collected for an action.
//
//	index      -
//	store      Params
//	show       ID
//	update     ID, Params
//	delete     ID, Params
//	deleteAll  Params
type Args struct {
	ID     opt.Optional[string]
	Params request.Params
}

// HandlerFunc is the uniform handler signature the route table resolves to.
type HandlerFunc func(c *Context, args Args) error

// Indexer lists a collection.
type Indexer interface {
	Index(c *Context) error
}

// Storer creates a resource from the parsed body.
type Storer interface {
	Store(c *Context, params request.Params) error
}

// Shower returns a single resource.
type Shower interface {
	Show(c *Context, id string) error
}

// Updater updates a single resource from the parsed body.
type Updater interface {
	Update(c *Context, id string, params request.Params) error
}

// Deleter deletes a single resource. The parsed body carries optional delete parameters.
type Deleter interface {
	Delete(c *Context, id string, params request.Params) error
}

// AllDeleter deletes a whole collection. Only reachable with VariantDeleteAll.
type AllDeleter interface {
	DeleteAll(c *Context, params request.Params) error
}

// controllerHandlers collects the handlers a controller implements, keyed by
// their default handler names.
func controllerHandlers(controller any) map[string]HandlerFunc {
	handlers := make(map[string]HandlerFunc)
	if controller == nil {
		return handlers
	}

	if h, ok := controller.(Indexer); ok {
		handlers[ActionIndex.String()] = func(c *Context, _ Args) error {
			return h.Index(c)
		}
	}
	if h, ok := controller.(Storer); ok {
		handlers[ActionStore.String()] = func(c *Context, a Args) error {
			return h.Store(c, a.Params)
		}
	}
	if h, ok := controller.(Shower); ok {
		handlers[ActionShow.String()] = func(c *Context, a Args) error {
			return h.Show(c, a.ID.OrElse(""))
		}
	}
	if h, ok := controller.(Updater); ok {
		handlers[ActionUpdate.String()] = func(c *Context, a Args) error {
			return h.Update(c, a.ID.OrElse(""), a.Params)
		}
	}
	if h, ok := controller.(Deleter); ok {
		handlers[ActionDelete.String()] = func(c *Context, a Args) error {
			return h.Delete(c, a.ID.OrElse(""), a.Params)
		}
	}
	if h, ok := controller.(AllDeleter); ok {
		handlers[ActionDeleteAll.String()] = func(c *Context, a Args) error {
			return h.DeleteAll(c, a.Params)
		}
	}

	return handlers
}

// argsFor collects the arguments the given action receives.
func argsFor(action Action, c *Context) Args {
	switch action {
	case ActionStore, ActionDeleteAll:
		return Args{Params: c.Request.BodyParams()}
	case ActionShow:
		return Args{ID: c.ID}
	case ActionUpdate, ActionDelete:
		return Args{ID: c.ID, Params: c.Request.BodyParams()}
	default:
		return Args{}
	}
}
