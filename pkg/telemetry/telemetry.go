package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/oracle-Solution/hl7/pkg/config"
	"github.com/oracle-Solution/hl7/pkg/telemetry/health"
	"github.com/oracle-Solution/hl7/pkg/telemetry/logging"
	"github.com/oracle-Solution/hl7/pkg/telemetry/metrics"
	"github.com/oracle-Solution/hl7/pkg/telemetry/tracing"
)

// Telemetry bundles the logger, metrics collector, tracer and health
// checker built from one configuration.
type Telemetry struct {
	cfg     config.TelemetryConfig
	version string

	logger  *logging.Logger
	metrics *metrics.Collector
	tracer  *tracing.Tracer
	health  *health.Checker
}

// New builds the telemetry stack. Logs go to logWriter (os.Stderr when nil).
func New(ctx context.Context, cfg config.TelemetryConfig, version string, logWriter io.Writer) (*Telemetry, error) {
	logger, err := logging.New(logging.FromConfig(cfg.Logging, logWriter))
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	tracer, err := tracing.New(ctx, cfg.Tracing, version)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	return &Telemetry{
		cfg:     cfg,
		version: version,
		logger:  logger,
		metrics: metrics.NewCollector(cfg.Metrics, nil),
		tracer:  tracer,
		health:  health.New(0),
	}, nil
}

// Nop returns telemetry that discards everything.
func Nop() *Telemetry {
	return &Telemetry{
		logger: logging.Nop(),
		tracer: tracing.Noop(),
		health: health.New(0),
	}
}

// Logger returns the logger.
func (t *Telemetry) Logger() *logging.Logger { return t.logger }

// Metrics returns the metrics collector; it is nil for Nop telemetry.
func (t *Telemetry) Metrics() *metrics.Collector { return t.metrics }

// Tracer returns the tracer.
func (t *Telemetry) Tracer() *tracing.Tracer { return t.tracer }

// Health returns the health checker.
func (t *Telemetry) Health() *health.Checker { return t.health }

// Handler returns the HTTP routes for metrics and health probes.
func (t *Telemetry) Handler(hl7Versions []string) http.Handler {
	mux := http.NewServeMux()
	if t.metrics != nil {
		path := t.cfg.Metrics.Path
		if path == "" {
			path = config.DefaultMetricsPath
		}
		mux.Handle(path, t.metrics.Handler())
	}
	t.health.Mount(mux, t.version, hl7Versions)
	return mux
}

// Serve listens on addr and serves Handler until ctx is cancelled.
func (t *Telemetry) Serve(ctx context.Context, addr string, hl7Versions []string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return t.serve(ctx, ln, hl7Versions)
}

func (t *Telemetry) serve(ctx context.Context, ln net.Listener, hl7Versions []string) error {
	srv := &http.Server{
		Handler:           t.Handler(hl7Versions),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	t.logger.Info("telemetry endpoint listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Shutdown flushes the tracer.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	return t.tracer.Shutdown(ctx)
}
