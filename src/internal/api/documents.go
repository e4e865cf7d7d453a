package api

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"

	"github.com/maksimkurb/restd/src/internal/errors"
	"github.com/maksimkurb/restd/src/internal/store"
	"github.com/maksimkurb/restd/src/rest"
	"github.com/maksimkurb/restd/src/rest/request"
)

// DocumentController serves one store collection as a REST resource.
type DocumentController struct {
	store      store.Store
	collection string
}

// NewDocumentController creates a controller over the given collection.
func NewDocumentController(s store.Store, collection string) *DocumentController {
	return &DocumentController{store: s, collection: collection}
}

// Index lists the collection.
// GET /api/v1/{resource}
func (dc *DocumentController) Index(c *rest.Context) error {
	docs, err := dc.store.List(c.Context(), dc.collection)
	if err != nil {
		return err
	}
	return c.Reply(docs, http.StatusOK, "")
}

// Store creates a document from the request body.
// POST /api/v1/{resource}
func (dc *DocumentController) Store(c *rest.Context, params request.Params) error {
	if len(params) == 0 {
		return errors.NewValidationError("request body must be a non-empty object", nil)
	}
	doc, err := dc.store.Create(c.Context(), dc.collection, params)
	if err != nil {
		return err
	}
	c.Response.SetHeader("Location", strings.TrimSuffix(c.Request.HTTP().URL.Path, "/")+"/"+doc.ID)
	return c.Reply(doc, http.StatusCreated, "Created")
}

// Show returns one document.
// GET /api/v1/{resource}/{id}
func (dc *DocumentController) Show(c *rest.Context, id string) error {
	doc, err := dc.store.Get(c.Context(), dc.collection, id)
	if err != nil {
		return err
	}
	return c.Reply(doc, http.StatusOK, "")
}

// Update merges the request body into a document. Null values remove fields.
// PUT|PATCH /api/v1/{resource}/{id}
func (dc *DocumentController) Update(c *rest.Context, id string, params request.Params) error {
	if len(params) == 0 {
		return errors.NewValidationError("request body must be a non-empty object", nil)
	}
	doc, err := dc.store.Update(c.Context(), dc.collection, id, params)
	if err != nil {
		return err
	}
	return c.Reply(doc, http.StatusOK, "Updated")
}

// Delete removes one document.
// DELETE /api/v1/{resource}/{id}
func (dc *DocumentController) Delete(c *rest.Context, id string, _ request.Params) error {
	if err := dc.store.Delete(c.Context(), dc.collection, id); err != nil {
		return err
	}
	return c.Reply(map[string]any{"id": id}, http.StatusOK, "Deleted")
}

// DeleteAll empties the collection. Only routed with the delete_all variant.
// DELETE /api/v1/{resource}
func (dc *DocumentController) DeleteAll(c *rest.Context, _ request.Params) error {
	n, err := dc.store.DeleteAll(c.Context(), dc.collection)
	if err != nil {
		return err
	}
	return c.Reply(map[string]any{"deleted": n}, http.StatusOK, "Deleted")
}

var writeActions = []rest.Action{rest.ActionStore, rest.ActionUpdate, rest.ActionDelete, rest.ActionDeleteAll}

// writeBehaviors guards the write actions of a resource: read-only resources
// answer 405, and with a token every write must present it.
func writeBehaviors(readOnly bool, token string) rest.BehaviorTable {
	if !readOnly && token == "" {
		return nil
	}

	guard := func(c *rest.Context) error {
		if readOnly {
			c.Response.SetHeader("Allow", "GET, HEAD, OPTIONS")
			return c.Error(http.StatusMethodNotAllowed, fmt.Sprintf("%s is not allowed on a read-only resource", c.Action))
		}
		if !authorized(c.Request, token) {
			c.Response.SetHeader("WWW-Authenticate", `Bearer realm="restd"`)
			return c.Error(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		}
		return nil
	}

	behaviors := make(rest.BehaviorTable, len(writeActions))
	for _, a := range writeActions {
		behaviors[a] = guard
	}
	return behaviors
}

// authorized accepts the token as a bearer token or as the basic auth password.
func authorized(req *request.Request, token string) bool {
	presented, ok := req.BearerAuthCredentials().Get()
	if !ok {
		presented, ok = req.BasicAuthCredentials().Password.Get()
	}
	return ok && subtle.ConstantTimeCompare([]byte(presented), []byte(token)) == 1
}
