package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/middleware"
)

type serveFlags struct {
	addr         string
	route        string
	maxBytes     int64
	stripUnknown bool
	abortEarly   bool
}

func (f serveFlags) validateOptions() []goshape.Option {
	opts := []goshape.Option{goshape.AbortEarly(f.abortEarly)}
	if f.stripUnknown {
		opts = append(opts, goshape.StripUnknown(true))
	}
	return opts
}

var serveOpts serveFlags

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve an HTTP endpoint that validates posted JSON documents",
	Long: `serve exposes POST <route>, which answers 200 with the cast document or 422
with the validation errors, and GET /metrics for Prometheus.`,
	RunE: runServe,
}

func init() {
	fl := serveCmd.Flags()
	fl.StringVar(&serveOpts.addr, "addr", ":8080", "listen address")
	fl.StringVar(&serveOpts.route, "route", "/validate", "validation route")
	fl.Int64Var(&serveOpts.maxBytes, "max-bytes", 1<<20, "maximum request body size")
	fl.BoolVar(&serveOpts.stripUnknown, "strip-unknown", false, "drop undeclared object keys")
	fl.BoolVar(&serveOpts.abortEarly, "abort-early", false, "stop at the first error")
	rootCmd.AddCommand(serveCmd)
}

func newRouter(s goshape.Schema, reg *prometheus.Registry, f serveFlags) (http.Handler, error) {
	metrics, err := middleware.NewMetrics(reg)
	if err != nil {
		return nil, err
	}
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.With(middleware.ValidateJSON(s,
		middleware.WithMaxBytes(f.maxBytes),
		middleware.WithMetrics(metrics),
		middleware.WithLogger(logger()),
		middleware.WithValidateOptions(f.validateOptions()...),
	)).Post(f.route, func(w http.ResponseWriter, r *http.Request) {
		v, _ := middleware.ValueFromContext(r.Context())
		w.Header().Set("Content-Type", "application/json")
		_ = printJSON(w, v)
	})
	return r, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, err := loadSchema(ctx)
	if err != nil {
		return err
	}
	handler, err := newRouter(s, prometheus.NewRegistry(), serveOpts)
	if err != nil {
		return err
	}
	srv := &http.Server{Addr: serveOpts.addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	log := logger()
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()
	log.Info("listening", "addr", serveOpts.addr, "route", serveOpts.route)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
