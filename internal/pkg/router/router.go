package router

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/shandysiswandi/autocare/internal/pkg/config"
	"github.com/shandysiswandi/autocare/internal/pkg/goerror"
	"github.com/shandysiswandi/autocare/internal/pkg/instrument"
	"github.com/shandysiswandi/autocare/internal/pkg/token"
	"github.com/shandysiswandi/autocare/internal/pkg/uid"
	"github.com/shandysiswandi/autocare/internal/pkg/validator"
)

type errorResponse struct {
	Message string            `json:"message" example:"example string message"`
	Error   map[string]string `json:"error,omitempty"`
}

type successResponse struct {
	Message string         `json:"message" example:"example string message"`
	Data    any            `json:"data" swaggertype:"object"`
	Meta    map[string]any `json:"meta,omitempty" swaggertype:"object"`
}

// Handler is the application-style handler used by this router.
//
// It returns a response payload (that will be JSON encoded) or an error.
// A payload may also implement:
//
//	StatusCode() int            // response status, default 200
//	Message() string            // envelope message
//	Meta() map[string]any       // envelope meta
//	Cookies() []*http.Cookie    // cookies set before the body
//	Location() string           // non-empty: 302 redirect instead of a body
type Handler func(r *Request) (any, error)

// Config holds dependencies required to build a Router.
type Config struct {
	// Config provides runtime configuration values.
	Config config.Config
	// UUID generates request correlation IDs.
	UUID uid.StringID
	// Codec decodes session tokens for authenticated routes.
	Codec token.Codec
	// Instrument provides tracing and metrics helpers.
	Instrument instrument.Instrumentation
}

// Router is an http.Handler that wraps httprouter and a middleware chain.
// Every route requires a session token unless it was registered as public.
type Router struct {
	hr     *httprouter.Router
	mws    []Middleware
	public publicEndpoints
}

// NewRouter builds the default application router with standard middleware.
func NewRouter(cfg Config) *Router {
	hr := &httprouter.Router{
		RedirectTrailingSlash:  true,
		RedirectFixedPath:      true,
		HandleMethodNotAllowed: true,
		HandleOPTIONS:          true,
		SaveMatchedRoutePath:   true,
		NotFound: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, errorResponse{Message: "endpoint not found"}, http.StatusNotFound)
		}),
		MethodNotAllowed: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, errorResponse{Message: "method not allowed"}, http.StatusMethodNotAllowed)
		}),
	}

	ins := cfg.Instrument
	if ins == nil {
		ins = instrument.NewNoop()
	}

	public := publicEndpoints{}
	ro := &Router{
		hr:     hr,
		public: public,
		mws: []Middleware{
			middlewareRecoverer,
			middlewareIP(cfg.Config != nil && cfg.Config.GetBool("http.trust_proxy_headers")),
			middlewareCorrelationID(cfg.UUID),
			middlewareObservability(cfg.Config, ins),
			middlewareMaintenance(cfg.Config),
			middlewareAuthentication(cfg.Codec, public),
		},
	}

	ro.GET("/", func(*Request) (any, error) { return welcome{}, nil }, Public())
	ro.GET("/health", func(*Request) (any, error) { return health{Status: "ok"}, nil }, Public())

	return ro
}

type welcome struct{}

func (welcome) Message() string { return "Welcome to API AutoCare" }

type health struct {
	Status string `json:"status"`
}

// RouteOption customises a single route registration.
type RouteOption func(*routeOptions)

type routeOptions struct {
	public bool
	mws    []Middleware
}

// Public lets the route skip session token authentication.
func Public() RouteOption {
	return func(o *routeOptions) { o.public = true }
}

// With adds route specific middleware after the standard chain.
func With(mws ...Middleware) RouteOption {
	return func(o *routeOptions) { o.mws = append(o.mws, mws...) }
}

// GET registers a GET endpoint using the application Handler signature.
func (r *Router) GET(path string, h Handler, opts ...RouteOption) {
	r.endpoint(http.MethodGet, path, h, opts...)
}

// POST registers a POST endpoint using the application Handler signature.
func (r *Router) POST(path string, h Handler, opts ...RouteOption) {
	r.endpoint(http.MethodPost, path, h, opts...)
}

// PUT registers a PUT endpoint using the application Handler signature.
func (r *Router) PUT(path string, h Handler, opts ...RouteOption) {
	r.endpoint(http.MethodPut, path, h, opts...)
}

// DELETE registers a DELETE endpoint using the application Handler signature.
func (r *Router) DELETE(path string, h Handler, opts ...RouteOption) {
	r.endpoint(http.MethodDelete, path, h, opts...)
}

func (r *Router) endpoint(method, path string, h Handler, opts ...RouteOption) {
	var o routeOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.public {
		r.public.add(method, path)
	}

	mws := append(append([]Middleware{}, r.mws...), o.mws...)

	r.hr.Handler(method, path, Chain(http.HandlerFunc(func(w http.ResponseWriter, re *http.Request) {
		resp, err := h(&Request{Request: re})
		if err != nil {
			if setter, ok := w.(interface{ SetError(error) }); ok {
				setter.SetError(err)
			}
			writeError(re.Context(), w, err)
			return
		}
		writeSuccess(w, re, resp)
	}), mws...))
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.hr.ServeHTTP(w, req)
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		slog.ErrorContext(ctx, "handler returned an untyped error", "error", err)
		writeJSON(w, errorResponse{Message: "Internal server error"}, http.StatusInternalServerError)
		return
	}

	errResp := errorResponse{Message: gerr.Msg()}

	var errValidate validator.V10ValidationError
	if errors.As(err, &errValidate) {
		errResp.Error = errValidate.Values()
	} else if fields := gerr.Fields(); len(fields) > 0 {
		errResp.Error = fields
	}

	writeJSON(w, errResp, gerr.StatusCode())
}

func writeSuccess(w http.ResponseWriter, r *http.Request, resp any) {
	if c, ok := resp.(interface{ Cookies() []*http.Cookie }); ok {
		for _, cookie := range c.Cookies() {
			http.SetCookie(w, cookie)
		}
	}

	if l, ok := resp.(interface{ Location() string }); ok && l.Location() != "" {
		http.Redirect(w, r, l.Location(), http.StatusFound)
		return
	}

	code := http.StatusOK
	if sc, ok := resp.(interface{ StatusCode() int }); ok {
		code = sc.StatusCode()
	}

	if code == http.StatusNoContent || resp == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	msg := "request has been successfully"
	if m, ok := resp.(interface{ Message() string }); ok {
		msg = m.Message()
	}

	var meta map[string]any
	if m, ok := resp.(interface{ Meta() map[string]any }); ok {
		meta = m.Meta()
	}

	writeJSON(w, successResponse{Message: msg, Data: resp, Meta: meta}, code)
}

func writeJSON(w http.ResponseWriter, data any, code int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("server: failed to encode data to json", "error", err)
	}
}
