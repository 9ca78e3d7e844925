// Package router is the runtime imported by generated controllers.
//
// Generated code declares, per path, Request/Context shapes embedding
// Request and Context, a controller interface, its validation rules and a
// constructor returning a Router. Routers built per path are combined with
// Include and served as an http.Handler:
//
//	app := router.New(router.WithLogger(log))
//	app.Include(controllers.NewPetsRouter(&pets{}))
//	http.ListenAndServe(":8080", app)
//
// Every request is validated against the route's ValidateConfig before the
// handler runs. Path, query and header values are coerced from strings
// according to their schema type, checked with JSON Schema, then decoded
// into the generated shapes.
package router
