package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/eqwatch/eqwatch-go/internal/config"
	"github.com/eqwatch/eqwatch-go/pkg/eqwatch"
	"github.com/eqwatch/eqwatch-go/pkg/eqwatch/detect"
	"github.com/eqwatch/eqwatch-go/pkg/eqwatch/sink"
)

var (
	// watch flags
	configFile    string
	logDir        string
	server        string
	format        string
	heartbeat     time.Duration
	replayStart   bool
	noPetTracking bool
	sinkAddrs     []string
	detectorFiles []string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Monitor EverQuest logs and output events",
	Long: `Monitor the newest EverQuest log file and output detected events.

Events are output as JSON Lines by default (one JSON object per line),
which makes it easy to process with tools like jq.

Examples:
  # Monitor with default settings (EQWATCH_LOGDIR environment variable)
  eqwatch watch

  # Specify log directory and server
  eqwatch watch --log-dir "C:\EverQuest\Logs" --server project1999

  # Human-readable output
  eqwatch watch --format pretty

  # Deliver events to remote collectors
  eqwatch watch --sink raid-tools.example.com:514

  # Add custom detectors from a YAML file
  eqwatch watch --detectors my-detectors.yaml

  # Pipe to jq for filtering
  eqwatch watch | jq 'select(.detector_id == 10)'`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&configFile, "config", "c", "",
		"Path to YAML config file")
	watchCmd.Flags().StringVarP(&logDir, "log-dir", "d", "",
		"EverQuest log directory (EQWATCH_LOGDIR if not specified)")
	watchCmd.Flags().StringVarP(&server, "server", "s", "",
		"Server tag in log file names (default project1999)")
	watchCmd.Flags().StringVarP(&format, "format", "f", "jsonl",
		"Output format: jsonl, pretty, record")
	watchCmd.Flags().DurationVar(&heartbeat, "heartbeat", 0,
		"How often to rescan for a newer log file (default 15s)")
	watchCmd.Flags().BoolVar(&replayStart, "replay", false,
		"Process the current log file from the beginning")
	watchCmd.Flags().BoolVar(&noPetTracking, "no-pet", false,
		"Disable pet tracking")
	watchCmd.Flags().StringSliceVar(&sinkAddrs, "sink", nil,
		"Remote collector address host:port (repeatable)")
	watchCmd.Flags().StringSliceVar(&detectorFiles, "detectors", nil,
		"Additional detector YAML files (repeatable)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !ValidFormats[format] {
		return fmt.Errorf("unknown format: %s", format)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts, closeSinks, err := buildOptions(cfg)
	if err != nil {
		return err
	}
	defer closeSinks()

	watcher, err := eqwatch.NewWatcherWithOptions(opts...)
	if err != nil {
		return err
	}
	defer watcher.Close()

	events, errs, err := watcher.Watch(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := OutputEvent(format, ev, out); err != nil {
				return fmt.Errorf("output error: %w", err)
			}
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			if verbose {
				fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			}
		case <-ctx.Done():
			return nil
		}
	}
}

// loadConfig merges the config file (if any) with command-line flags.
// Flags win over file values.
func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if configFile != "" {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return cfg, err
		}
	}

	if logDir != "" {
		cfg.LogDir = logDir
	}
	if server != "" {
		cfg.Server = server
	}
	if heartbeat > 0 {
		cfg.Heartbeat = config.Duration(heartbeat)
	}
	if noPetTracking {
		off := false
		cfg.PetTracking = &off
	}
	for _, addr := range sinkAddrs {
		host, port, err := splitSinkAddr(addr)
		if err != nil {
			return cfg, err
		}
		cfg.Sinks = append(cfg.Sinks, config.SinkConfig{Host: host, Port: port})
	}
	cfg.DetectorFiles = append(cfg.DetectorFiles, detectorFiles...)

	return cfg, cfg.Validate()
}

// splitSinkAddr parses a host:port flag value.
func splitSinkAddr(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid sink address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid sink port in %q: %w", addr, err)
	}
	return host, port, nil
}

// buildOptions turns a resolved config into watcher options. The returned
// cleanup closes any sinks opened here; it is safe to call even when the
// watcher takes ownership, because closing a UDP socket twice is harmless.
func buildOptions(cfg config.Config) ([]eqwatch.WatchOption, func(), error) {
	opts := []eqwatch.WatchOption{
		eqwatch.WithLogDir(cfg.LogDir),
		eqwatch.WithServer(cfg.Server),
		eqwatch.WithHeartbeat(cfg.Heartbeat.Std()),
		eqwatch.WithPollInterval(cfg.PollInterval.Std()),
		eqwatch.WithPetTracking(cfg.PetTrackingEnabled()),
	}
	if replayStart {
		opts = append(opts, eqwatch.WithReplayFromStart())
	}
	if verbose {
		opts = append(opts, eqwatch.WithLogger(
			slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	}

	detectors := detect.Default()
	for _, path := range cfg.DetectorFiles {
		extra, err := detect.LoadDetectors(path)
		if err != nil {
			return nil, nil, fmt.Errorf("loading detectors from %s: %w", path, err)
		}
		detectors = append(detectors, extra...)
	}
	opts = append(opts, eqwatch.WithDetectors(detectors...))

	var sinks []sink.Sink
	for _, sc := range cfg.Sinks {
		s, err := sink.NewSyslogSink(sc.Host, sc.Port)
		if err != nil {
			for _, opened := range sinks {
				opened.Close()
			}
			return nil, nil, err
		}
		sinks = append(sinks, s)
	}
	if len(sinks) > 0 {
		opts = append(opts, eqwatch.WithSinks(sinks...))
	}

	closeSinks := func() {
		for _, s := range sinks {
			s.Close()
		}
	}
	return opts, closeSinks, nil
}
