package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/vango-dev/waypoint/pkg/histsync"
	"github.com/vango-dev/waypoint/pkg/nav"
	"github.com/vango-dev/waypoint/pkg/navpath"
	"github.com/vango-dev/waypoint/pkg/observe"
)

func serveCmd() *cobra.Command {
	var (
		addr    string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the demo coordinator behind the sync bridge",
		Long: `Run a demo navigation coordinator and expose it over HTTP:

  GET /nav/ws        WebSocket sync endpoint
  GET /nav/location  current location
  GET /nav/state     full path snapshot
  GET /metrics       Prometheus metrics

Connected clients send {"type":"navigate","location":"/item?id=1"}
or {"type":"back"} frames and receive state frames after every
mutation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(addr, verbose)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8090", "Address to listen on")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	return cmd
}

func runServe(addr string, verbose bool) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	coordinator, err := buildDemo(logger)
	if err != nil {
		return err
	}

	bridge := histsync.NewBridge(coordinator, histsync.WithLogger(logger))

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Mount("/nav", bridge.Routes())
	r.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("waypoint listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildDemo assembles the demo coordinator: a tab shell with three
// sections, an item module with deep-linkable details, and the
// observability middleware.
func buildDemo(logger *slog.Logger) (*nav.Coordinator, error) {
	c := nav.New("demo",
		nav.WithLogger(logger),
		nav.WithMiddleware(
			observe.Prometheus(),
			observe.OpenTelemetry(),
		),
	)
	c.OnResync(observe.RecordResync)

	c.RegisterLayout("tabs", func(c *nav.Coordinator) *nav.Layout {
		shell := nav.NewRoute("/tabs")
		tabs := nav.NewIndexedStack(c, "tabs",
			nav.NewRoute("/feed"),
			nav.NewRoute("/search"),
			nav.NewRoute("/profile"),
		)
		return nav.NewLayout("tabs", shell, tabs)
	})

	tabRoute := func(name string) *nav.Route {
		r := nav.NewRoute(name)
		r.LayoutKey = "tabs"
		r.DeepLink = &nav.DeepLinkSpec{Strategy: nav.DeepLinkNavigate}
		return r
	}

	sections := nav.NewModule(func(location string) *nav.Route {
		path, _, _ := strings.Cut(location, "?")
		switch path {
		case "/feed", "/search", "/profile":
			return tabRoute(path)
		}
		return nil
	})

	itemPattern := navpath.MustPattern("/item/:id")
	items := nav.NewModule(func(location string) *nav.Route {
		params, ok := itemPattern.Match(location)
		if !ok || params["id"] == "" {
			return nil
		}
		path, _ := navpath.SplitQuery(location)
		r := nav.NewRoute("/item").WithDetail(params["id"]).WithLocation(path)
		r.DeepLink = &nav.DeepLinkSpec{Strategy: nav.DeepLinkPush}
		return r
	})

	fallback := func(location string) *nav.Route {
		return nav.NewRoute("/not-found").WithParams(map[string]string{"from": location})
	}

	agg, err := nav.NewAggregator(fallback, sections, items)
	if err != nil {
		return nil, err
	}
	c.SetModules(agg)

	// Start on the feed tab.
	if err := c.Recover(context.Background(), "/feed"); err != nil {
		return nil, err
	}
	return c, nil
}
