package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/firedl/firedl/internal/progress"
	"github.com/firedl/firedl/internal/progress/sinks"
)

// setupProgress builds the progress hub for a run: always a log sink,
// plus a Prometheus sink with a /metrics listener when --metrics-addr
// is set. The returned stop function shuts the listener down.
func setupProgress(cmd *cobra.Command, logger *zap.Logger) (*progress.Hub, func(context.Context), error) {
	sinkList := []progress.Sink{sinks.NewLogSink(logger)}
	stop := func(context.Context) {}

	addr := viper.GetString("metrics.addr")
	if cmd.Flags().Changed("metrics-addr") {
		addr, _ = cmd.Flags().GetString("metrics-addr")
	}
	if addr != "" {
		registry := prometheus.NewRegistry()
		promSink, err := sinks.NewPrometheusSink(registry)
		if err != nil {
			return nil, nil, err
		}
		sinkList = append(sinkList, promSink)

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Warn("metrics listener failed", zap.String("addr", addr), zap.Error(err))
			}
		}()
		stop = func(ctx context.Context) {
			if err := srv.Shutdown(ctx); err != nil {
				logger.Warn("metrics listener shutdown failed", zap.Error(err))
			}
		}
	}

	hub := progress.NewHub(progress.Config{Logger: logger}, sinkList...)
	return hub, stop, nil
}
