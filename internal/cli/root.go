// File: internal/cli/root.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/momentics/hioload-stream/client"
	"github.com/momentics/hioload-stream/control"
)

var (
	// Global flags
	cfgFile     string
	logLevel    string
	metricsAddr string
	streamName  string

	// Shared state set during PersistentPreRun
	settings   *control.FileConfig
	logger     zerolog.Logger
	registry   *prometheus.Registry
	metrics    *control.StreamMetrics
	metricsSrv *http.Server
)

// rootCmd is the base command for hioload-stream.
var rootCmd = &cobra.Command{
	Use:   "hioload-stream",
	Short: "Byte stream tunneled over a WebSocket connection",
	Long: `hioload-stream connects to a ws:// endpoint and exposes the binary
frames it carries as a plain byte stream: piped from stdin, printed to stdout,
or inspected through debug probes.`,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func setup(cmd *cobra.Command, _ []string) error {
	var err error
	settings, err = control.LoadFileConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	settings.ApplyEnv()

	// Override config with flags
	if cmd.Flags().Changed("log-level") {
		settings.LogLevel = logLevel
	}
	if cmd.Flags().Changed("metrics-addr") {
		settings.MetricsAddr = metricsAddr
	}

	level, err := zerolog.ParseLevel(settings.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", settings.LogLevel, err)
	}
	logger = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.RFC3339}).
		Level(level).
		With().Timestamp().Str("stream", streamName).
		Logger()

	registry = prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metrics, err = control.NewStreamMetrics(registry, streamName)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}
	return startMetricsServer(settings.MetricsAddr)
}

func startMetricsServer(addr string) error {
	if addr == "" {
		return nil
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("metrics listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	metricsSrv = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Info().Str("addr", ln.Addr().String()).Msg("metrics server starting")
		if err := metricsSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics server failed")
		}
	}()
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	if metricsSrv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := metricsSrv.Shutdown(ctx)
	metricsSrv = nil
	return err
}

// openStream dials the URI given as the first argument, or the configured one.
func openStream(ctx context.Context, args []string) (*client.Stream, error) {
	uri := settings.URI
	if len(args) > 0 {
		uri = args[0]
	}
	if uri == "" {
		return nil, errors.New("no stream URI: pass one as argument, set uri in the config file or HIOLOAD_STREAM_URI")
	}
	return client.Dial(ctx, uri, settings.ClientConfig(logger, metrics))
}

// Execute runs the root command until it finishes or a signal arrives.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	err := rootCmd.ExecuteContext(ctx)
	_ = teardown(nil, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

// RootCmd returns the root cobra.Command for testing purposes.
func RootCmd() *cobra.Command {
	return rootCmd
}

// Registry returns the metrics registry of the last run.
func Registry() *prometheus.Registry {
	return registry
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus /metrics on this address")
	rootCmd.PersistentFlags().StringVar(&streamName, "name", "default", "stream label used in logs and metrics")
}
