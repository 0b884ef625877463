package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"

	"github.com/hupe1980/topk"
	"github.com/hupe1980/topk/prommetrics"
)

const appName = "topk"

// env is the state shared by all commands of one invocation.
type env struct {
	logger  *topk.Logger
	metrics topk.MetricsCollector
	server  *http.Server
}

func newApp() *cli.App {
	e := &env{
		logger:  topk.NoopLogger(),
		metrics: topk.NoopMetricsCollector{},
	}

	return &cli.App{
		Name:  appName,
		Usage: "select the K best records from large delimited inputs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Value: "warn",
				Usage: "log level: (debug, info, warn, error)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "enable JSON formatted logs",
			},
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "serve Prometheus metrics on this address (e.g. :2112)",
			},
		},
		Before: e.setup,
		After:  e.teardown,
		Commands: []*cli.Command{
			newSelectCommand(e),
		},
	}
}

func (e *env) setup(c *cli.Context) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.String("log-level"))); err != nil {
		return fmt.Errorf("invalid log level %q", c.String("log-level"))
	}

	if c.Bool("json") {
		e.logger = topk.NewJSONLogger(c.App.ErrWriter, level)
	} else {
		e.logger = topk.NewTextLogger(c.App.ErrWriter, level)
	}

	if addr := c.String("metrics-addr"); addr != "" {
		return e.serveMetrics(addr)
	}
	return nil
}

func (e *env) serveMetrics(addr string) error {
	collector := prommetrics.New(appName)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collector,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("metrics listener: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	e.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	e.metrics = collector

	go func() {
		if err := e.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.logger.Error("metrics server failed", "error", err)
		}
	}()
	e.logger.Info("serving metrics", "addr", ln.Addr().String())
	return nil
}

func (e *env) teardown(_ *cli.Context) error {
	if e.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return e.server.Shutdown(ctx)
}
