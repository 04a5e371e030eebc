package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zexi/app-hook/pkg/appstate"
)

const (
	StatusRoute  = "/hook/status"
	StopRoute    = "/hook/stop"
	MetricsRoute = "/metrics"
)

type RouterOptions struct {
	// Route is the path the app value is served on, e.g. "/app"
	Route       string
	State       appstate.ValueProvider
	ServerState *ServerState
	// Registry defaults to a fresh registry when nil
	Registry *prometheus.Registry
	// Shutdown enables POST /hook/stop when set
	Shutdown  func()
	StopDelay time.Duration
}

func NewRouter(opts RouterOptions) http.Handler {
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	serverState := opts.ServerState
	if serverState == nil {
		serverState = NewServerState()
	}
	metrics := NewMetrics(reg)

	r := mux.NewRouter()
	r.Use(metrics.Middleware)
	// mux 按注册顺序匹配，保留路由在前
	r.Handle(StatusRoute, NewGetStatusController(serverState)).Methods("GET")
	if opts.Shutdown != nil {
		r.Handle(StopRoute, NewStopController(serverState, opts.Shutdown, opts.StopDelay)).Methods("POST")
	}
	r.Handle(MetricsRoute, promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods("GET")
	r.Handle(opts.Route, NewAppController(opts.State)).Methods("GET")
	return r
}
