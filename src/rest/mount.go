package rest

import (
	"strings"

	"github.com/go-chi/chi/v5"
)

// Mount registers the resource under pattern and every alias: the collection
// path, its trailing-slash form and the item path with an {id} segment named
// after the configured id parameter. An empty or "/" pattern mounts at the
// router root.
func (d *Dispatcher) Mount(r chi.Router, pattern string, aliases ...string) {
	item := "/{" + d.idParam + "}"
	for _, p := range append([]string{pattern}, aliases...) {
		p = strings.Trim(p, "/")
		if p == "" {
			r.Handle("/", d)
			r.Handle(item, d)
			continue
		}
		p = "/" + p
		r.Handle(p, d)
		r.Handle(p+"/", d)
		r.Handle(p+item, d)
	}
}
