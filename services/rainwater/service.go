package rainwater

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"

	"github.com/R3E-Network/rainwater/internal/config"
	"github.com/R3E-Network/rainwater/internal/errors"
	"github.com/R3E-Network/rainwater/internal/logging"
	"github.com/R3E-Network/rainwater/internal/metrics"
	"github.com/R3E-Network/rainwater/internal/middleware"
	"github.com/R3E-Network/rainwater/pkg/rainwater"
)

// =============================================================================
// Service Constants
// =============================================================================

const (
	ServiceID   = "rainwater"
	ServiceName = "Rain Water Service"
	Version     = "1.0.0"
)

// limiterCleanupInterval is how often idle per-client limiters are dropped.
const limiterCleanupInterval = 5 * time.Minute

// =============================================================================
// Service Implementation
// =============================================================================

// Config wires a Service to its collaborators.
type Config struct {
	Settings *config.Config
	Logger   *logging.Logger
	Metrics  *metrics.Metrics
}

// Service serves trap computations over HTTP.
type Service struct {
	cfg     *config.Config
	method  rainwater.Method
	log     *logging.Logger
	metrics *metrics.Metrics
	limiter *middleware.RateLimiter
	router  *mux.Router

	running   atomic.Bool
	startedAt time.Time
	cancel    context.CancelFunc
	stopOnce  sync.Once

	requests     atomic.Int64
	computations atomic.Int64
	rejections   atomic.Int64
	waterTotal   atomic.Int64
}

// New creates a Service. Missing collaborators get defaults.
func New(cfg Config) (*Service, error) {
	settings := cfg.Settings
	if settings == nil {
		settings = config.Default()
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log := cfg.Logger
	if log == nil {
		log = logging.New(ServiceID, settings.Logging.Level, settings.Logging.Format)
	}
	m := cfg.Metrics
	if m == nil {
		m = metrics.New(true)
	}

	proxies, err := settings.Limits.TrustedProxyPrefixes()
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	s := &Service{
		cfg:     settings,
		method:  settings.Method(),
		log:     log,
		metrics: m,
	}
	s.limiter = middleware.NewRateLimiter(settings.Limits.RequestsPerSecond, settings.Limits.Burst, log).
		TrustProxies(proxies).
		OnReject(func(serr *errors.ServiceError) { s.reject(serr) })
	s.router = s.buildRouter()
	return s, nil
}

// Router returns the HTTP handler of the service.
func (s *Service) Router() *mux.Router {
	return s.router
}

// Start marks the service ready and starts background housekeeping.
func (s *Service) Start(ctx context.Context) error {
	if s.running.Load() {
		return fmt.Errorf("service already running")
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.startedAt = time.Now()
	s.limiter.StartCleanup(ctx, limiterCleanupInterval)
	s.running.Store(true)

	s.log.WithContext(ctx).WithField("method", s.method).Info("rainwater service started")
	return nil
}

// Stop stops background work. It is safe to call more than once.
func (s *Service) Stop() error {
	s.stopOnce.Do(func() {
		s.running.Store(false)
		if s.cancel != nil {
			s.cancel()
		}
		s.log.Info("rainwater service stopped")
	})
	return nil
}

// Running reports whether Start has been called and Stop has not.
func (s *Service) Running() bool {
	return s.running.Load()
}

// Stats returns a snapshot of the service counters.
func (s *Service) Stats() Stats {
	st := Stats{
		Requests:     s.requests.Load(),
		Computations: s.computations.Load(),
		Rejections:   s.rejections.Load(),
		WaterTotal:   s.waterTotal.Load(),
		StartedAt:    s.startedAt,
	}
	if !s.startedAt.IsZero() {
		st.Uptime = time.Since(s.startedAt).Round(time.Second).String()
	}
	return st
}

// =============================================================================
// Business Logic
// =============================================================================

// resolveMethod returns the requested method or the configured default.
func (s *Service) resolveMethod(name string) (rainwater.Method, *errors.ServiceError) {
	if name == "" {
		return s.method, nil
	}
	m, err := rainwater.ParseMethod(name)
	if err != nil {
		return "", errors.InvalidMethod(name)
	}
	return m, nil
}

// checkHeights applies the length limit, the non-negative precondition and
// the height ceiling. Together with config validation the ceiling keeps
// every total, and every batch total, within an int.
func (s *Service) checkHeights(heights []int) *errors.ServiceError {
	if limit := s.cfg.Limits.MaxHeights; len(heights) > limit {
		return errors.TooManyHeights(len(heights), limit)
	}
	if err := rainwater.Validate(heights); err != nil {
		return errors.FromError(err)
	}
	limit := s.cfg.Limits.MaxHeight
	for i, h := range heights {
		if h > limit {
			return errors.HeightTooLarge(i, h, limit)
		}
	}
	return nil
}

// Trap validates heights and computes the trapped water.
func (s *Service) Trap(ctx context.Context, heights []int, methodName string) (*TrapResponse, error) {
	method, serr := s.resolveMethod(methodName)
	if serr != nil {
		return nil, s.reject(serr)
	}
	if serr := s.checkHeights(heights); serr != nil {
		return nil, s.reject(serr)
	}

	water := s.compute(ctx, method, heights)
	return &TrapResponse{Water: water, Method: method.String(), Length: len(heights)}, nil
}

// Profile validates heights and returns the full breakdown.
func (s *Service) Profile(ctx context.Context, heights []int) (*ProfileResponse, error) {
	if serr := s.checkHeights(heights); serr != nil {
		return nil, s.reject(serr)
	}

	start := time.Now()
	p := rainwater.Compute(heights)
	s.record(ctx, rainwater.MethodPrefix, len(heights), p.Total, time.Since(start))

	basins := rainwater.Basins(p)
	if basins == nil {
		basins = []rainwater.Basin{}
	}
	return &ProfileResponse{Profile: p, Basins: basins}, nil
}

// Batch validates every profile before computing any of them.
func (s *Service) Batch(ctx context.Context, profiles [][]int, methodName string) (*BatchResponse, error) {
	method, serr := s.resolveMethod(methodName)
	if serr != nil {
		return nil, s.reject(serr)
	}
	if limit := s.cfg.Limits.MaxBatch; len(profiles) > limit {
		return nil, s.reject(errors.BatchTooLarge(len(profiles), limit))
	}
	for i, heights := range profiles {
		if serr := s.checkHeights(heights); serr != nil {
			return nil, s.reject(serr.WithDetail("profile", i))
		}
	}

	results := make([]int, len(profiles))
	for i, heights := range profiles {
		results[i] = s.compute(ctx, method, heights)
	}

	return &BatchResponse{
		Method:  method.String(),
		Results: results,
		Summary: summarize(results),
	}, nil
}

func (s *Service) compute(ctx context.Context, method rainwater.Method, heights []int) int {
	start := time.Now()
	water := method.Trap(heights)
	s.record(ctx, method, len(heights), water, time.Since(start))
	return water
}

func (s *Service) record(ctx context.Context, method rainwater.Method, length, water int, d time.Duration) {
	s.computations.Add(1)
	s.waterTotal.Add(int64(water))
	s.metrics.RecordComputation(method.String(), length, water, d)
	s.log.LogComputation(ctx, method.String(), length, water, d)
}

func (s *Service) reject(serr *errors.ServiceError) *errors.ServiceError {
	s.rejections.Add(1)
	s.metrics.RecordRejection(string(serr.Code))
	return serr
}
