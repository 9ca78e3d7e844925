package router

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// HandlerFunc serves a validated request.
type HandlerFunc func(ctx *Context) error

// Route binds a path template and method to validation rules and a handler.
type Route struct {
	Path     string
	Method   string
	Validate ValidateConfig
	Handler  HandlerFunc
}

// Router collects routes and serves them through chi. Routes must be
// registered before the router serves its first request.
type Router struct {
	routes       []Route
	middlewares  []func(http.Handler) http.Handler
	errorHandler ErrorHandler
	logger       logrus.FieldLogger

	once sync.Once
	mux  *chi.Mux
}

type Option func(*Router)

// WithMiddleware wraps every route with the given middlewares, outermost first.
func WithMiddleware(middlewares ...func(http.Handler) http.Handler) Option {
	return func(r *Router) {
		r.middlewares = append(r.middlewares, middlewares...)
	}
}

// WithErrorHandler replaces DefaultErrorHandler.
func WithErrorHandler(h ErrorHandler) Option {
	return func(r *Router) {
		if h != nil {
			r.errorHandler = h
		}
	}
}

// WithLogger sets the logger handed to handlers through Context.Logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}

func New(opts ...Option) *Router {
	r := &Router{
		errorHandler: DefaultErrorHandler,
		logger:       logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Route registers a route.
func (r *Router) Route(route Route) *Router {
	if r.mux != nil {
		panic(fmt.Sprintf("router: %s %s registered after the router started serving", route.Method, route.Path))
	}
	r.routes = append(r.routes, route)
	return r
}

// Include registers the routes of other routers.
func (r *Router) Include(others ...*Router) *Router {
	for _, o := range others {
		for _, route := range o.routes {
			r.Route(route)
		}
	}
	return r
}

// Routes returns the registered routes in registration order.
func (r *Router) Routes() []Route {
	return append([]Route(nil), r.routes...)
}

// Handler builds the chi mux on first use.
func (r *Router) Handler() http.Handler {
	r.once.Do(func() {
		mux := chi.NewRouter()
		if len(r.middlewares) > 0 {
			mux.Use(r.middlewares...)
		}
		for _, route := range r.routes {
			mux.Method(strings.ToUpper(route.Method), route.Path, r.serve(route))
		}
		r.mux = mux
	})
	return r.mux
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.Handler().ServeHTTP(w, req)
}

func (r *Router) serve(route Route) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		log := r.logger.WithFields(logrus.Fields{
			"method": req.Method,
			"route":  route.Path,
		})

		base := newRequest(req)
		if err := route.Validate.validate(base); err != nil {
			log.WithError(err).Debug("request rejected")
			r.errorHandler(w, req, err)
			return
		}

		if route.Handler == nil {
			r.errorHandler(w, req, fmt.Errorf("no handler for %s %s", route.Method, route.Path))
			return
		}

		ctx := &Context{request: base, writer: w, router: r, logger: log}
		if err := route.Handler(ctx); err != nil {
			log.WithError(err).Warn("handler failed")
			r.errorHandler(w, req, err)
		}
	}
}
