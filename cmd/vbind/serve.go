package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/vango-dev/vbind/internal/source"
	"github.com/vango-dev/vbind/pkg/binding"
	"github.com/vango-dev/vbind/pkg/live"
	"github.com/vango-dev/vbind/pkg/reactive"
	"github.com/vango-dev/vbind/pkg/telemetry"
)

type serveOptions struct {
	data    string
	addr    string
	title   string
	metrics bool
}

func serveCmd(a *app) *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve <template>",
		Short: "Serve a template with live two-way binding",
		Long: `Serve a template over HTTP. Each browser gets its own copy of the
data; v-model inputs write back to it and every bound node updates
over a WebSocket.

Routes:
  /         the page
  /ws       the live connection
  /healthz  liveness probe
  /metrics  Prometheus metrics (with --metrics or metrics.enabled)

Examples:
  vbind serve index.html --data data.json
  vbind serve index.html --data data.yaml --addr 0.0.0.0:8080 --metrics`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), a, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.data, "data", "d", "", "Data file (JSON or YAML)")
	cmd.Flags().StringVarP(&opts.addr, "addr", "a", "", "Listen address (default from vbind.json)")
	cmd.Flags().StringVar(&opts.title, "title", "", "Page title (default: template name)")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", false, "Expose Prometheus metrics on /metrics")

	return cmd
}

func runServe(ctx context.Context, a *app, templateURI string, opts serveOptions) error {
	if opts.addr != "" {
		a.cfg.Serve.Addr = opts.addr
	}
	if opts.metrics {
		a.cfg.Metrics.Enabled = true
	}

	// Load once; each session parses and decodes its own copy.
	tmpl, err := a.loader.Open(ctx, templateURI)
	if err != nil {
		return err
	}
	if _, err := parseTemplate(tmpl); err != nil {
		return err
	}
	var dataSrc []byte
	dataName := ""
	if opts.data != "" {
		src, err := a.loader.Open(ctx, opts.data)
		if err != nil {
			return err
		}
		if _, err := src.Store(); err != nil {
			return err
		}
		dataSrc, dataName = src.Data, src.Name()
	}

	cfg := &live.Config{
		Addr:         a.cfg.Serve.Addr,
		Title:        opts.title,
		ReadTimeout:  a.cfg.ReadTimeout(),
		WriteTimeout: a.cfg.WriteTimeout(),
		Tracer:       telemetry.NewTracer(),
		Logger:       a.logger,
	}
	if cfg.Title == "" {
		cfg.Title = tmpl.Name()
	}
	if len(a.cfg.Serve.Origins) > 0 {
		cfg.CheckOrigin = live.AllowOrigins(a.cfg.Serve.Origins...)
	}

	var compilerOpts []binding.Option
	if a.cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		cfg.Metrics = telemetry.NewMetrics(
			telemetry.WithRegistry(reg),
			telemetry.WithNamespace(a.cfg.Metrics.Namespace),
		)
		cfg.Gatherer = reg
		compilerOpts = append(compilerOpts, binding.WithHooks(cfg.Metrics))
	}
	cfg.Compiler = a.compiler(tmpl.Location.String(), compilerOpts...)

	factory := func(context.Context) (*live.Page, error) {
		root, err := parseTemplate(tmpl)
		if err != nil {
			return nil, err
		}
		store := reactive.NewStore(nil)
		if dataName != "" {
			if store, err = source.DecodeData(dataName, dataSrc); err != nil {
				return nil, err
			}
		}
		return &live.Page{Root: root, Store: store}, nil
	}

	fmt.Fprintf(a.stdout, "Serving %s on http://%s\n", tmpl.Location, cfg.Addr)
	return live.New(cfg, factory).Run(ctx)
}
