package hn

import (
	"context"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/jonwraymond/hnfetch/cache"
	"github.com/jonwraymond/hnfetch/dedup"
	"github.com/jonwraymond/hnfetch/health"
	"github.com/jonwraymond/hnfetch/observe"
	"github.com/jonwraymond/hnfetch/resilience"
)

// DefaultBaseURL is the public Hacker News API root.
const DefaultBaseURL = "https://hacker-news.firebaseio.com/v0/"

// Resource kinds used for cache keys.
const (
	kindStoryIDs = "story_ids"
	kindStory    = "story"
	kindComment  = "comment"
)

// Service fetches Hacker News data through cache, deduplication and a
// retrying executor.
//
// Contract:
// - Concurrency: all methods are safe for concurrent use.
// - Context: blocking methods honor cancellation and return ErrCanceled.
// - Errors: single-item methods return FetchError, StatusError, ParseError
// or ErrItemNotFound wrapped with the operation; batch methods drop
// per-item errors.
type Service struct {
	config         NetworkConfig
	baseURL        string
	client         *http.Client
	permits        *resilience.PermitPool
	executor       *resilience.Executor
	inflight       *dedup.Group[[]byte]
	keyer          *cache.DefaultKeyer
	storyIDs       *cache.MemoryCache[[]int]
	stories        *cache.MemoryCache[Story]
	comments       *cache.MemoryCache[Comment]
	storyIDsRT     *cache.ReadThrough[[]int]
	storiesRT      *cache.ReadThrough[Story]
	commentsRT     *cache.ReadThrough[Comment]
	mw             *observe.Middleware
	logger         observe.Logger
	metrics        observe.Metrics
	metricsLogging bool
	onItemError    func(id int, err error)
	upstream       *health.UpstreamChecker
}

// Option configures a Service.
type Option func(*serviceOptions)

type serviceOptions struct {
	config         NetworkConfig
	baseURL        string
	client         *http.Client
	policy         cache.Policy
	logger         observe.Logger
	metrics        observe.Metrics
	tracer         observe.Tracer
	metricsLogging bool
	onItemError    func(id int, err error)
}

// WithNetworkConfig replaces the default network settings. Zero fields
// take their defaults, except MaxRetries where zero means no retries.
func WithNetworkConfig(config NetworkConfig) Option {
	return func(o *serviceOptions) {
		o.config = config
	}
}

// WithBaseURL points the service at another API root. A trailing slash is
// added when missing.
func WithBaseURL(baseURL string) Option {
	return func(o *serviceOptions) {
		o.baseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client used for every attempt.
func WithHTTPClient(client *http.Client) Option {
	return func(o *serviceOptions) {
		o.client = client
	}
}

// WithCachePolicy sets the TTL policy for every cache.
// Default: cache.DefaultPolicy() (five minutes)
func WithCachePolicy(policy cache.Policy) Option {
	return func(o *serviceOptions) {
		o.policy = policy
	}
}

// WithLogger sets the logger.
func WithLogger(logger observe.Logger) Option {
	return func(o *serviceOptions) {
		o.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(metrics observe.Metrics) Option {
	return func(o *serviceOptions) {
		o.metrics = metrics
	}
}

// WithTracer sets the tracer.
func WithTracer(tracer observe.Tracer) Option {
	return func(o *serviceOptions) {
		o.tracer = tracer
	}
}

// WithObserver takes the logger, tracer and metrics from an observer.
// If the fetch instruments cannot be created only the logger is used.
func WithObserver(obs observe.Observer) Option {
	return func(o *serviceOptions) {
		mw, err := observe.MiddlewareFromObserver(obs)
		if err != nil {
			if obs != nil {
				o.logger = obs.Logger()
			}
			return
		}
		o.logger = mw.Logger()
		o.tracer = mw.Tracer()
		o.metrics = mw.Metrics()
	}
}

// WithMetricsLogging logs attempt counts and elapsed times at debug level.
func WithMetricsLogging(enabled bool) Option {
	return func(o *serviceOptions) {
		o.metricsLogging = enabled
	}
}

// WithItemErrorHandler receives the errors that batch operations drop.
// The handler may be called from several goroutines at once.
func WithItemErrorHandler(fn func(id int, err error)) Option {
	return func(o *serviceOptions) {
		o.onItemError = fn
	}
}

// NewService creates a service. Without options it talks to the public API
// with DefaultNetworkConfig.
func NewService(opts ...Option) *Service {
	o := serviceOptions{
		config:  DefaultNetworkConfig(),
		baseURL: DefaultBaseURL,
		policy:  cache.DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	if o.client == nil {
		o.client = &http.Client{}
	}
	if o.baseURL == "" {
		o.baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(o.baseURL, "/") {
		o.baseURL += "/"
	}

	mw := observe.NewMiddleware(o.tracer, o.metrics, o.logger)
	config := o.config.withDefaults()

	s := &Service{
		config:         config,
		baseURL:        o.baseURL,
		client:         o.client,
		permits:        resilience.NewPermitPool(resilience.PermitPoolConfig{Permits: config.Permits()}),
		inflight:       dedup.NewGroup[[]byte](),
		keyer:          cache.NewDefaultKeyer(),
		storyIDs:       cache.NewMemoryCache[[]int](o.policy),
		stories:        cache.NewMemoryCache[Story](o.policy),
		comments:       cache.NewMemoryCache[Comment](o.policy),
		mw:             mw,
		logger:         mw.Logger(),
		metrics:        mw.Metrics(),
		metricsLogging: o.metricsLogging,
		onItemError:    o.onItemError,
	}

	retryConfig := config.RetryConfig()
	retryConfig.OnRetry = s.onRetry
	s.executor = resilience.NewExecutor(
		resilience.WithRetry(resilience.NewRetry(retryConfig)),
		resilience.WithPermitPool(s.permits),
		resilience.WithTimeout(config.RequestTimeout),
	)

	// Cached values are immutable: every value is copied in and out.
	s.storyIDsRT = cache.NewReadThrough[[]int](s.storyIDs, cache.ReadThroughConfig[[]int]{
		Clone: slices.Clone[[]int],
	})
	s.storiesRT = cache.NewReadThrough[Story](s.stories, cache.ReadThroughConfig[Story]{
		StaleOnError: true,
		StaleIf:      staleAllowed,
		OnStale:      s.onStale,
		Clone:        Story.Clone,
	})
	s.commentsRT = cache.NewReadThrough[Comment](s.comments, cache.ReadThroughConfig[Comment]{
		StaleOnError: true,
		StaleIf:      staleAllowed,
		OnStale:      s.onStale,
		Clone:        Comment.Clone,
	})

	s.upstream = health.NewUpstreamChecker(health.UpstreamCheckerConfig{
		Name:    "hn_api",
		Details: s.healthDetails,
	})

	return s
}

// staleAllowed reports whether a stale value may stand in for err.
// Cancellation is the caller's choice, not an upstream failure.
func staleAllowed(err error) bool {
	return err != nil && !isCanceled(err)
}

func (s *Service) onStale(key string, err error) {
	s.upstream.RecordStale()
	s.logger.Warn(context.Background(), "using stale cache",
		observe.F("cache_key", key),
		observe.F("error", err),
	)
}

// Config returns the network settings in effect.
func (s *Service) Config() NetworkConfig {
	return s.config
}

// BaseURL returns the API root, always ending in a slash.
func (s *Service) BaseURL() string {
	return s.baseURL
}

// ItemURL returns the URL of an item.
func (s *Service) ItemURL(id int) string {
	return s.baseURL + "item/" + strconv.Itoa(id) + ".json"
}

// StoryListURL returns the URL of a story list.
func (s *Service) StoryListURL(list ListType) string {
	return s.baseURL + list.Endpoint() + ".json"
}

// FetchStoryIDs returns the ids of a story list, newest ranking first.
// Cached results are served without a network call even if ctx is done.
func (s *Service) FetchStoryIDs(ctx context.Context, list ListType) ([]int, error) {
	url := s.StoryListURL(list)
	meta := observe.FetchMeta{Operation: "story_ids", Target: list.Endpoint(), URL: url}
	key := s.keyer.MustKey(kindStoryIDs, list.Endpoint())

	var ids []int
	err := s.mw.Run(ctx, meta, func(ctx context.Context) error {
		v, src, err := s.storyIDsRT.Get(ctx, key, func(ctx context.Context) ([]int, error) {
			return getJSON[[]int](ctx, s, meta, url)
		})
		s.recordSource(ctx, meta, src)
		if err != nil {
			return wrapOp(err, "fetch story ids for %s", list)
		}
		ids = v
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metricsLogging {
		s.logger.Debug(ctx, "fetched story ids", observe.F("list", list.String()), observe.F("count", len(ids)))
	}
	return ids, nil
}

// FetchStory returns a single story. When the fetch fails and an expired
// copy is cached, the copy is returned instead.
func (s *Service) FetchStory(ctx context.Context, id int) (Story, error) {
	url := s.ItemURL(id)
	meta := observe.FetchMeta{Operation: "story", Target: strconv.Itoa(id), URL: url}
	key := s.keyer.MustKey(kindStory, id)

	var story Story
	err := s.mw.Run(ctx, meta, func(ctx context.Context) error {
		v, src, err := s.storiesRT.Get(ctx, key, func(ctx context.Context) (Story, error) {
			return getJSON[Story](ctx, s, meta, url)
		})
		s.recordSource(ctx, meta, src)
		if err != nil {
			return wrapOp(err, "fetch story %d", id)
		}
		story = v
		return nil
	})
	return story, err
}

// FetchComment returns a single comment, with the same stale fallback as
// FetchStory.
func (s *Service) FetchComment(ctx context.Context, id int) (Comment, error) {
	url := s.ItemURL(id)
	meta := observe.FetchMeta{Operation: "comment", Target: strconv.Itoa(id), URL: url}
	key := s.keyer.MustKey(kindComment, id)

	var comment Comment
	err := s.mw.Run(ctx, meta, func(ctx context.Context) error {
		v, src, err := s.commentsRT.Get(ctx, key, func(ctx context.Context) (Comment, error) {
			return getJSON[Comment](ctx, s, meta, url)
		})
		s.recordSource(ctx, meta, src)
		if err != nil {
			return wrapOp(err, "fetch comment %d", id)
		}
		comment = v
		return nil
	})
	return comment, err
}

func (s *Service) recordSource(ctx context.Context, meta observe.FetchMeta, src cache.Source) {
	switch src {
	case cache.SourceHit:
		s.metrics.RecordCache(ctx, meta, observe.CacheHit)
	case cache.SourceStale:
		s.metrics.RecordCache(ctx, meta, observe.CacheStale)
	default:
		s.metrics.RecordCache(ctx, meta, observe.CacheMiss)
	}
}

// Cleanup removes expired entries from every cache and returns how many
// were removed. Stale fallback is lost for the removed entries.
func (s *Service) Cleanup() int {
	return s.storyIDs.Cleanup() + s.stories.Cleanup() + s.comments.Cleanup()
}

// StartJanitor runs Cleanup every interval until ctx is done.
func (s *Service) StartJanitor(ctx context.Context, interval time.Duration) <-chan struct{} {
	return cache.StartJanitor(ctx, interval, s.storyIDs, s.stories, s.comments)
}

// Stats reports cache sizes, deduplication counters and permit usage.
type Stats struct {
	StoryIDEntries int
	StoryEntries   int
	CommentEntries int
	Dedup          dedup.Stats
	Permits        resilience.PermitPoolMetrics
}

// Stats returns a snapshot of the service's internal state.
func (s *Service) Stats() Stats {
	return Stats{
		StoryIDEntries: s.storyIDs.Len(),
		StoryEntries:   s.stories.Len(),
		CommentEntries: s.comments.Len(),
		Dedup:          s.inflight.Stats(),
		Permits:        s.permits.Metrics(),
	}
}
