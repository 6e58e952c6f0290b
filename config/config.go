package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/jonwraymond/hnfetch/cache"
	"github.com/jonwraymond/hnfetch/hn"
	"github.com/jonwraymond/hnfetch/observe"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "HNFETCH"

// Configuration keys.
const (
	KeyMaxRetries         = "network.max_retries"
	KeyInitialRetryDelay  = "network.initial_retry_delay_ms"
	KeyMaxRetryDelay      = "network.max_retry_delay_ms"
	KeyRetryOnTimeout     = "network.retry_on_timeout"
	KeyConcurrentRequests = "network.concurrent_requests"
	KeyRateLimit          = "network.rate_limit_per_second"
	KeyRequestTimeout     = "network.request_timeout_ms"
	KeyBaseURL            = "api.base_url"
	KeyCacheTTL           = "cache.ttl_seconds"
	KeyCleanupInterval    = "cache.cleanup_interval_seconds"
	KeyLogLevel           = "log.level"
	KeyPerformanceMetrics = "log.enable_performance_metrics"
	KeyTracingExporter    = "telemetry.tracing_exporter"
	KeyMetricsExporter    = "telemetry.metrics_exporter"
	KeySamplePct          = "telemetry.sample_pct"
	KeyAdminAddr          = "admin.addr"
)

// ErrInvalidConfig is returned when loaded settings fail validation.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the complete application configuration.
type Config struct {
	Network   hn.NetworkConfig
	API       APIConfig
	Cache     CacheConfig
	Log       LogConfig
	Telemetry TelemetryConfig
	Admin     AdminConfig
}

// APIConfig selects the upstream.
type APIConfig struct {
	BaseURL string
}

// CacheConfig tunes the response caches.
type CacheConfig struct {
	TTL time.Duration
	// CleanupInterval is how often expired entries are purged. Zero disables
	// the janitor.
	CleanupInterval time.Duration
}

// Policy returns the cache policy for the configured TTL.
func (c CacheConfig) Policy() cache.Policy {
	p := cache.DefaultPolicy()
	if c.TTL > 0 {
		p.DefaultTTL = c.TTL
	}
	if p.MaxTTL > 0 && p.DefaultTTL > p.MaxTTL {
		p.MaxTTL = p.DefaultTTL
	}
	return p
}

// LogConfig configures logging.
type LogConfig struct {
	Level string
	// EnablePerformanceMetrics logs attempt counts and timings at debug level.
	EnablePerformanceMetrics bool
}

// TelemetryConfig selects OpenTelemetry exporters. "none" disables a signal.
type TelemetryConfig struct {
	TracingExporter string
	MetricsExporter string
	SamplePct       float64
}

// AdminConfig configures the admin HTTP server. An empty Addr disables it.
type AdminConfig struct {
	Addr string
}

// setDefaults registers every key so environment overrides are visible
// even when no config file mentions them.
func setDefaults(v *viper.Viper) {
	net := hn.DefaultNetworkConfig()

	// [network]
	v.SetDefault(KeyMaxRetries, net.MaxRetries)
	v.SetDefault(KeyInitialRetryDelay, net.InitialRetryDelay.Milliseconds())
	v.SetDefault(KeyMaxRetryDelay, net.MaxRetryDelay.Milliseconds())
	v.SetDefault(KeyRetryOnTimeout, net.RetryOnTimeout)
	v.SetDefault(KeyConcurrentRequests, net.ConcurrentRequests)
	v.SetDefault(KeyRateLimit, net.RateLimitPerSecond)
	v.SetDefault(KeyRequestTimeout, net.RequestTimeout.Milliseconds())

	// [api]
	v.SetDefault(KeyBaseURL, hn.DefaultBaseURL)

	// [cache]
	v.SetDefault(KeyCacheTTL, 300)
	v.SetDefault(KeyCleanupInterval, 60)

	// [log]
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyPerformanceMetrics, false)

	// [telemetry]
	v.SetDefault(KeyTracingExporter, "none")
	v.SetDefault(KeyMetricsExporter, "none")
	v.SetDefault(KeySamplePct, 1.0)

	// [admin]
	v.SetDefault(KeyAdminAddr, "")
}

// Default returns the configuration produced by the built-in defaults alone.
// It panics if those defaults fail to decode or validate.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	cfg, err := decode(v)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		panic(fmt.Sprintf("config: built-in defaults are invalid: %v", err))
	}
	return cfg
}

func decode(v *viper.Viper) (Config, error) {
	cfg := Config{
		Network: hn.NetworkConfig{
			MaxRetries:         v.GetInt(KeyMaxRetries),
			InitialRetryDelay:  millis(v.GetInt64(KeyInitialRetryDelay)),
			MaxRetryDelay:      millis(v.GetInt64(KeyMaxRetryDelay)),
			RetryOnTimeout:     v.GetBool(KeyRetryOnTimeout),
			ConcurrentRequests: v.GetInt(KeyConcurrentRequests),
			RateLimitPerSecond: v.GetFloat64(KeyRateLimit),
			RequestTimeout:     millis(v.GetInt64(KeyRequestTimeout)),
		},
		API: APIConfig{
			BaseURL: v.GetString(KeyBaseURL),
		},
		Cache: CacheConfig{
			TTL:             time.Duration(v.GetInt64(KeyCacheTTL)) * time.Second,
			CleanupInterval: time.Duration(v.GetInt64(KeyCleanupInterval)) * time.Second,
		},
		Log: LogConfig{
			Level:                    strings.ToLower(v.GetString(KeyLogLevel)),
			EnablePerformanceMetrics: v.GetBool(KeyPerformanceMetrics),
		},
		Telemetry: TelemetryConfig{
			TracingExporter: strings.ToLower(v.GetString(KeyTracingExporter)),
			MetricsExporter: strings.ToLower(v.GetString(KeyMetricsExporter)),
			SamplePct:       v.GetFloat64(KeySamplePct),
		},
		Admin: AdminConfig{
			Addr: v.GetString(KeyAdminAddr),
		},
	}

	err := expandFields(map[string]*string{
		KeyBaseURL:         &cfg.API.BaseURL,
		KeyLogLevel:        &cfg.Log.Level,
		KeyTracingExporter: &cfg.Telemetry.TracingExporter,
		KeyMetricsExporter: &cfg.Telemetry.MetricsExporter,
		KeyAdminAddr:       &cfg.Admin.Addr,
	})
	return cfg, err
}

func millis(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// Validate checks the configuration for values no component accepts.
func (c Config) Validate() error {
	if err := c.Network.Validate(); err != nil {
		return err
	}
	if c.API.BaseURL == "" {
		return fmt.Errorf("%w: %s must not be empty", ErrInvalidConfig, KeyBaseURL)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, KeyCacheTTL)
	}
	if c.Cache.CleanupInterval < 0 {
		return fmt.Errorf("%w: %s must not be negative", ErrInvalidConfig, KeyCleanupInterval)
	}
	if !slices.Contains(observe.ValidLogLevels, c.Log.Level) {
		return fmt.Errorf("%w: %s %q", ErrInvalidConfig, KeyLogLevel, c.Log.Level)
	}
	if !slices.Contains(observe.ValidTracingExporters, c.Telemetry.TracingExporter) {
		return fmt.Errorf("%w: %s %q", ErrInvalidConfig, KeyTracingExporter, c.Telemetry.TracingExporter)
	}
	if !slices.Contains(observe.ValidMetricsExporters, c.Telemetry.MetricsExporter) {
		return fmt.Errorf("%w: %s %q", ErrInvalidConfig, KeyMetricsExporter, c.Telemetry.MetricsExporter)
	}
	if c.Telemetry.SamplePct < observe.MinSamplePct || c.Telemetry.SamplePct > observe.MaxSamplePct {
		return fmt.Errorf("%w: %s %v", ErrInvalidConfig, KeySamplePct, c.Telemetry.SamplePct)
	}
	return nil
}

// ObserveConfig maps the log and telemetry sections onto an observer
// configuration.
func (c Config) ObserveConfig(serviceName, version string) observe.Config {
	return observe.Config{
		ServiceName: serviceName,
		Version:     version,
		Tracing: observe.TracingConfig{
			Enabled:   enabled(c.Telemetry.TracingExporter),
			Exporter:  c.Telemetry.TracingExporter,
			SamplePct: c.Telemetry.SamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  enabled(c.Telemetry.MetricsExporter),
			Exporter: c.Telemetry.MetricsExporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: true,
			Level:   c.Log.Level,
		},
	}
}

func enabled(exporter string) bool {
	return exporter != "" && exporter != "none"
}

// ServiceOptions returns the hn.Service options the configuration implies.
func (c Config) ServiceOptions() []hn.Option {
	return []hn.Option{
		hn.WithNetworkConfig(c.Network),
		hn.WithBaseURL(c.API.BaseURL),
		hn.WithCachePolicy(c.Cache.Policy()),
		hn.WithMetricsLogging(c.Log.EnablePerformanceMetrics),
	}
}

// Loader reads configuration and optionally watches the config file.
type Loader struct {
	v        *viper.Viper
	file     string
	envFiles []string

	mu      sync.RWMutex
	current Config
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFile reads settings from path. The format follows the extension.
// A missing explicit file is an error.
func WithFile(path string) LoaderOption {
	return func(l *Loader) {
		l.file = path
	}
}

// WithEnvFiles loads the given dotenv files instead of ./.env.
// Missing files are an error.
func WithEnvFiles(paths ...string) LoaderOption {
	return func(l *Loader) {
		l.envFiles = paths
	}
}

// NewLoader creates a loader with its own viper instance.
// Without WithFile it searches the working directory for hnfetch.{toml,yaml,json}.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{v: viper.New()}
	for _, opt := range opts {
		opt(l)
	}

	setDefaults(l.v)
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()

	if l.file != "" {
		l.v.SetConfigFile(l.file)
	} else {
		l.v.SetConfigName("hnfetch")
		l.v.AddConfigPath(".")
	}
	return l
}

// Load reads the dotenv files, the config file and the environment, then
// validates the result.
func (l *Loader) Load() (Config, error) {
	if err := l.loadEnvFiles(); err != nil {
		return Config{}, err
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if l.file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read config: %w", err)
		}
	}

	return l.refresh()
}

func (l *Loader) loadEnvFiles() error {
	if len(l.envFiles) == 0 {
		if _, err := os.Stat(".env"); err == nil {
			return godotenv.Load()
		}
		return nil
	}
	if err := godotenv.Load(l.envFiles...); err != nil {
		return fmt.Errorf("config: load env files: %w", err)
	}
	return nil
}

func (l *Loader) refresh() (Config, error) {
	cfg, err := decode(l.v)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	l.mu.Lock()
	l.current = cfg
	l.mu.Unlock()
	return cfg, nil
}

// Current returns the last successfully loaded configuration.
func (l *Loader) Current() Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// ConfigFile returns the file in use, or "" when settings came only from
// defaults and the environment.
func (l *Loader) ConfigFile() string {
	return l.v.ConfigFileUsed()
}
