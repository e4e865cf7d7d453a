package rest

import (
	"fmt"

	"github.com/maksimkurb/restd/src/rest/opt"
	"github.com/maksimkurb/restd/src/rest/request"
)

// Action is one of the logical CRUD slots a request is dispatched to.
type Action int

const (
	ActionIndex Action = iota
	ActionStore
	ActionShow
	ActionUpdate
	ActionDelete
	ActionDeleteAll
)

// Actions lists every action in declaration order.
var Actions = []Action{ActionIndex, ActionStore, ActionShow, ActionUpdate, ActionDelete, ActionDeleteAll}

var actionNames = map[Action]string{
	ActionIndex:     "index",
	ActionStore:     "store",
	ActionShow:      "show",
	ActionUpdate:    "update",
	ActionDelete:    "delete",
	ActionDeleteAll: "deleteAll",
}

// String returns the action's logical name, which is also its default handler name.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Valid reports whether a is one of the declared actions.
func (a Action) Valid() bool {
	_, ok := actionNames[a]
	return ok
}

// ParseAction returns the action with the given logical name.
func ParseAction(name string) (Action, error) {
	for a, n := range actionNames {
		if n == name {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", name)
}

// RouteTable maps each action to the name of the handler that serves it.
// An empty name leaves the action unrouted.
type RouteTable map[Action]string

// DefaultRoutes routes every action to the handler of the same name.
func DefaultRoutes() RouteTable {
	routes := make(RouteTable, len(Actions))
	for _, a := range Actions {
		routes[a] = a.String()
	}
	return routes
}

// Behavior runs before an action's handler is resolved. Returning an error
// aborts the dispatch; sending the response from the hook ends it.
type Behavior func(c *Context) error

// BehaviorTable maps actions to their pre-dispatch hooks.
type BehaviorTable map[Action]Behavior

// Variant selects one of the versioned transition tables.
type Variant string

const (
	// VariantStrict sends DELETE without an id to the default action.
	VariantStrict Variant = "strict"

	// VariantDeleteAll sends DELETE without an id to deleteAll.
	VariantDeleteAll Variant = "delete_all"
)

// Variants lists the supported transition tables.
var Variants = []Variant{VariantStrict, VariantDeleteAll}

// Select runs the transition table. It returns false when the request falls
// through to the default action.
//
//	method      id   strict        delete_all
//	POST        no   store         store
//	POST        yes  -             -
//	PUT, PATCH  yes  update        update
//	PUT, PATCH  no   -             -
//	DELETE      yes  delete        delete
//	DELETE      no   -             deleteAll
//	other       yes  show          show
//	other       no   index         index
func Select(variant Variant, method request.Method, id opt.Optional[string]) (Action, bool) {
	hasID := id.Present()

	switch method {
	case request.Post:
		if !hasID {
			return ActionStore, true
		}
		return 0, false
	case request.Put, request.Patch:
		if hasID {
			return ActionUpdate, true
		}
		return 0, false
	case request.Delete:
		if hasID {
			return ActionDelete, true
		}
		if variant == VariantDeleteAll {
			return ActionDeleteAll, true
		}
		return 0, false
	default:
		if hasID {
			return ActionShow, true
		}
		return ActionIndex, true
	}
}
