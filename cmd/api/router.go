package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/crucial707/habitguard/internal/config"
	"github.com/crucial707/habitguard/internal/handlers"
	"github.com/crucial707/habitguard/internal/middleware"
	"github.com/crucial707/habitguard/internal/monitor"
	"github.com/crucial707/habitguard/internal/scheduler"
	"github.com/crucial707/habitguard/internal/store"
)

// newRouter wires middleware and routes over the running components.
func newRouter(st *store.Store, mon *monitor.Monitor, reset *scheduler.Reset, cfg config.Config) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(cfg.TLSCertFile != "" && cfg.TLSKeyFile != ""))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))

	scheduleH := &handlers.ScheduleHandler{Store: st}
	monitoringH := &handlers.MonitoringHandler{Store: st}
	completionH := &handlers.CompletionHandler{Monitor: mon}
	eventsH := &handlers.EventsHandler{Monitor: mon}
	statusH := &handlers.StatusHandler{Store: st, Monitor: mon, Reset: reset}
	authH := &handlers.AuthHandler{
		User:     cfg.AdminUser,
		Pass:     cfg.AdminPass,
		PassHash: cfg.AdminPassHash,
		Secret:   []byte(cfg.JWTSecret),
		Expire:   time.Duration(cfg.JWTExpireHours) * time.Hour,
	}

	// Public
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "ok")
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		if _, err := st.IsMonitoringEnabled(); err != nil {
			handlers.JSONError(w, "storage not ready", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprintln(w, "ok")
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthRateLimiter().Middleware)
		r.Post("/auth/login", authH.Login)
	})

	// Protected
	r.Group(func(r chi.Router) {
		r.Use(middleware.JWT([]byte(cfg.JWTSecret)))

		r.Get("/schedule", scheduleH.GetSchedule)
		r.Put("/schedule", scheduleH.PutSchedule)
		r.Post("/schedule/{day}/tasks", scheduleH.AddTask)
		r.Put("/schedule/{day}/tasks/{index}", scheduleH.UpdateTask)
		r.Delete("/schedule/{day}/tasks/{index}", scheduleH.DeleteTask)
		r.Post("/schedule/{day}/tasks/{index}/complete", completionH.Complete)

		r.Get("/monitoring", monitoringH.GetMonitoring)
		r.Put("/monitoring", monitoringH.SetMonitoring)
		r.Post("/monitoring/toggle", monitoringH.ToggleMonitoring)

		r.Get("/status", statusH.GetStatus)

		r.Group(func(r chi.Router) {
			r.Use(middleware.EventRateLimiter().Middleware)
			r.Post("/events", eventsH.PostEvent)
		})
	})

	return r
}
