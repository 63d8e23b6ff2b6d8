package eqwatch

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/eqwatch/eqwatch-go/pkg/eqwatch/detect"
	"github.com/eqwatch/eqwatch-go/pkg/eqwatch/pettrack"
	"github.com/eqwatch/eqwatch-go/pkg/eqwatch/sink"
)

// WatchOption configures Watch behavior using the functional options pattern.
type WatchOption func(*watchConfig)

// watchConfig holds internal configuration for the watcher.
type watchConfig struct {
	logDir          string
	server          string
	heartbeat       time.Duration
	pollInterval    time.Duration
	replayFromStart bool
	petTracking     bool
	detectors       []*detect.Detector
	sinks           []sink.Sink
	fanout          *sink.Fanout
	logger          *slog.Logger
}

// Defaults: the heartbeat rescans for a newer log file every 15 seconds,
// and the loop idles 100ms between empty reads.
const (
	DefaultHeartbeat    = 15 * time.Second
	DefaultPollInterval = 100 * time.Millisecond

	// DefaultServer is the server tag in standard log file names.
	DefaultServer = "project1999"
)

func defaultWatchConfig() *watchConfig {
	return &watchConfig{
		server:       DefaultServer,
		heartbeat:    DefaultHeartbeat,
		pollInterval: DefaultPollInterval,
		petTracking:  true,
	}
}

func applyWatchOptions(opts []WatchOption) *watchConfig {
	cfg := defaultWatchConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// validate checks for invalid option combinations.
func (c *watchConfig) validate() error {
	if c.server == "" {
		return fmt.Errorf("server must not be empty")
	}
	if c.heartbeat <= 0 {
		return fmt.Errorf("heartbeat must be positive, got %v", c.heartbeat)
	}
	if c.pollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %v", c.pollInterval)
	}
	return nil
}

// WithLogDir sets the EverQuest log directory.
// Can also be set via the EQWATCH_LOGDIR environment variable.
func WithLogDir(dir string) WatchOption {
	return func(c *watchConfig) {
		c.logDir = dir
	}
}

// WithServer sets the server tag used to select log files
// (eqlog_<character>_<server>.txt). Default: "project1999".
func WithServer(server string) WatchOption {
	return func(c *watchConfig) {
		c.server = server
	}
}

// WithHeartbeat sets how often to rescan the directory for a newer log
// file. A character switch in game starts writing to a different file;
// the heartbeat is what notices. Default: 15 seconds.
func WithHeartbeat(interval time.Duration) WatchOption {
	return func(c *watchConfig) {
		c.heartbeat = interval
	}
}

// WithPollInterval sets how long the loop idles when no line is ready.
// Default: 100 milliseconds.
func WithPollInterval(interval time.Duration) WatchOption {
	return func(c *watchConfig) {
		c.pollInterval = interval
	}
}

// WithReplayFromStart reads the current log file from the beginning
// instead of only new lines.
func WithReplayFromStart() WatchOption {
	return func(c *watchConfig) {
		c.replayFromStart = true
	}
}

// WithDetectors replaces the default detector set.
func WithDetectors(detectors ...*detect.Detector) WatchOption {
	return func(c *watchConfig) {
		c.detectors = detectors
	}
}

// WithPetTracking enables or disables the pet tracker. Default: enabled.
func WithPetTracking(enabled bool) WatchOption {
	return func(c *watchConfig) {
		c.petTracking = enabled
	}
}

// WithSinks configures remote delivery for matched events. Without this
// option events are only delivered on the event channel.
func WithSinks(sinks ...sink.Sink) WatchOption {
	return func(c *watchConfig) {
		c.sinks = append(c.sinks, sinks...)
	}
}

// WithFanout sets a pre-built fanout, for callers that construct their
// own sinks.
func WithFanout(f *sink.Fanout) WatchOption {
	return func(c *watchConfig) {
		c.fanout = f
	}
}

// WithLogger sets a custom logger for debug output.
// If logger is nil, logging is disabled (default behavior).
func WithLogger(logger *slog.Logger) WatchOption {
	return func(c *watchConfig) {
		c.logger = logger
	}
}

// petNotifier bridges tracker announcements onto the watcher's logger.
func petNotifier(log *slog.Logger) pettrack.Notifier {
	return pettrack.NotifierFunc(func(msg string) {
		log.Info("pet", "message", msg)
	})
}
