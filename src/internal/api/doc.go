// Package api provides the HTTP server of restd.
//
// Every configured resource is served by its own rest.Dispatcher over a store
// collection and mounted under the API prefix:
//
//	GET    /api/v1/notes        index
//	POST   /api/v1/notes        store
//	GET    /api/v1/notes/{id}   show
//	PUT    /api/v1/notes/{id}   update (PATCH too)
//	DELETE /api/v1/notes/{id}   delete
//	DELETE /api/v1/notes        deleteAll (delete_all variant only)
//
// Requests that fall outside the transition table get the dispatcher's 404
// envelope. With body formatting enabled, replies are packed:
//
//	{
//	  "code": 201,
//	  "message": "Created",
//	  "data": { /* document */ }
//	}
//
// Outside the resources the server answers /health with "OK" and /status
// with version and configuration state wrapped in a "data" field. Errors on
// these endpoints use the following format:
//
//	{
//	  "error": {
//	    "code": "service_error",
//	    "message": "Human-readable error message",
//	    "details": { /* optional context */ }
//	  }
//	}
package api
