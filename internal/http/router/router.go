package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/support2-byte/Consolidate-sub000/internal/http/handlers"
	"github.com/support2-byte/Consolidate-sub000/internal/http/middleware"
	"github.com/support2-byte/Consolidate-sub000/internal/logx"
	"github.com/support2-byte/Consolidate-sub000/internal/metrics"
)

// Deps bundles the handlers and observability pieces mounted on the router.
type Deps struct {
	Base        *handlers.Handlers
	Assignment  *handlers.AssignmentHandler
	Status      *handlers.StatusHandler
	Consignment *handlers.ConsignmentHandler
	Cargo       *handlers.CargoHandler
	Container   *handlers.ContainerHandler
	Logger      logx.Logger
	Metrics     *metrics.Set
	Registry    prometheus.Gatherer
}

// New constructs a chi-based http.Handler with base middleware and routes.
func New(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = logx.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if d.Metrics != nil {
		r.Use(middleware.Observability(logger, d.Metrics))
	}
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/ping", d.Base.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(d.Base.HealthcheckHead))
	r.NotFound(http.HandlerFunc(d.Base.NotFound))

	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	r.Post("/assignments", d.Assignment.Allocate)
	r.Post("/assignments/remove", d.Assignment.Remove)

	r.Route("/orders/{orderID}/receivers/{receiverID}", func(r chi.Router) {
		r.Delete("/assignments", d.Assignment.RemoveReceiver)
		r.Put("/status", d.Status.Set)
	})
	r.Get("/orders/{orderID}/cargo-lines/{lineID}", d.Cargo.Get)

	r.Post("/consignments/{id}/advance", d.Consignment.Advance)

	r.Get("/containers/{id}", d.Container.Get)
	r.Put("/containers/{id}/status", d.Container.SetStatus)

	return r
}
