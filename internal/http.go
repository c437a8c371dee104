package internal

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/cnu-smr/reddit-collector/pkg/errors"
	"github.com/cnu-smr/reddit-collector/pkg/metrics"
	"github.com/cnu-smr/reddit-collector/pkg/types"
)

const (
	// MaxWindowTime is the ceiling Reddit enforces on rate-limit windows.
	MaxWindowTime = 600 * time.Second
	// MaxWindowRequests is the ceiling on requests per window.
	MaxWindowRequests = 1000

	// admissionSleep is the fixed increment slept while the window is saturated.
	admissionSleep = 10 * time.Second

	headerRatelimitUsed      = "X-Ratelimit-Used"
	headerRatelimitRemaining = "X-Ratelimit-Remaining"
	headerRatelimitReset     = "X-Ratelimit-Reset"
)

// ExecutorConfig controls rate limiting in the request executor.
type ExecutorConfig struct {
	// WindowTime is the sliding-window length. Values above MaxWindowTime are
	// clamped. Defaults to MaxWindowTime if zero.
	WindowTime time.Duration
	// MaxRequests caps requests per window. Values above MaxWindowRequests are
	// clamped. Defaults to MaxWindowRequests if zero.
	MaxRequests int
	// RequestsPerMinute optionally smooths steady-state throughput beneath the
	// window. Zero disables smoothing.
	RequestsPerMinute float64
	// Burst allows short spikes above the steady-state rate. Defaults to 10
	// when smoothing is enabled.
	Burst int
	// Metrics receives execution events. Defaults to a no-op recorder.
	Metrics metrics.Recorder
}

// Executor sends GET requests on behalf of one authenticated session while
// enforcing a locally tracked sliding window and reconciling it with the
// server's rate-limit headers. One executor per set of credentials sharing a
// quota; the internal mutex serializes callers so the window stays coherent
// even if a future caller is concurrent.
type Executor struct {
	client     *http.Client
	session    types.Session
	windowTime time.Duration
	limiter    *rate.Limiter
	recorder   metrics.Recorder
	logger     *slog.Logger

	mu         sync.Mutex
	window     *RateWindow
	reconciled bool

	// now and sleep are swapped out by tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewExecutor returns an executor for the given session. If httpClient is nil,
// http.DefaultClient is used. If logger is nil, diagnostics are discarded.
func NewExecutor(httpClient *http.Client, session types.Session, cfg ExecutorConfig, logger *slog.Logger) *Executor {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	windowTime := cfg.WindowTime
	if windowTime <= 0 {
		windowTime = MaxWindowTime
	}
	if windowTime > MaxWindowTime {
		logger.Warn("window time above ceiling, flooring",
			"requested", windowTime, "ceiling", MaxWindowTime)
		windowTime = MaxWindowTime
	}

	maxRequests := cfg.MaxRequests
	if maxRequests <= 0 {
		maxRequests = MaxWindowRequests
	}
	if maxRequests > MaxWindowRequests {
		logger.Warn("max requests in window above ceiling, flooring",
			"requested", maxRequests, "ceiling", MaxWindowRequests)
		maxRequests = MaxWindowRequests
	}

	recorder := cfg.Metrics
	if recorder == nil {
		recorder = metrics.Nop{}
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 10
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerMinute/60.0), burst)
	}

	return &Executor{
		client:     httpClient,
		session:    session,
		windowTime: windowTime,
		limiter:    limiter,
		recorder:   recorder,
		logger:     logger,
		window:     NewRateWindow(maxRequests),
		now:        time.Now,
		sleep:      sleepCtx,
	}
}

// WindowTime returns the effective (possibly clamped) window length.
func (e *Executor) WindowTime() time.Duration {
	return e.windowTime
}

// Get executes a GET request against url with the session headers, blocking
// first until the sliding window has capacity. It returns the raw response
// body. Non-2xx responses become a RequestError carrying the body; there is no
// retry.
func (e *Executor) Get(ctx context.Context, url string) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, &errors.RequestError{URL: url, Err: err}
		}
	}

	if err := e.admit(ctx); err != nil {
		return nil, &errors.RequestError{URL: url, Err: err}
	}

	now := e.now()
	e.window.Prune(now.Add(-e.windowTime))
	e.window.Append(now)
	e.recorder.WindowDepth(e.window.Len())

	e.logger.Debug("sending query", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		e.recorder.RequestFailed()
		return nil, &errors.RequestError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", e.session.UserAgent)
	req.Header.Set("Authorization", e.session.Authorization())

	resp, err := e.client.Do(req)
	if err != nil {
		e.recorder.RequestFailed()
		return nil, &errors.RequestError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		e.recorder.RequestFailed()
		return nil, &errors.RequestError{URL: url, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		e.recorder.RequestFailed()
		return nil, &errors.RequestError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	e.recorder.RequestSent()
	e.reconcile(resp.Header, now)

	return body, nil
}

// admit blocks in fixed increments while the window is saturated and its
// oldest entry has not yet aged out. This is hard backpressure: nothing is
// sent while the window is full.
func (e *Executor) admit(ctx context.Context) error {
	now := e.now()
	for {
		oldest, ok := e.window.Oldest()
		if !ok || !e.window.Full() {
			return nil
		}
		age := now.Sub(oldest)
		if age >= e.windowTime {
			return nil
		}

		remaining := e.windowTime - age
		e.logger.Info("request window full, waiting",
			"window_time", e.windowTime,
			"estimated_wait", remaining)

		if err := e.sleep(ctx, admissionSleep); err != nil {
			return err
		}
		e.recorder.AdmissionWait(admissionSleep.Seconds())
		now = e.now()
	}
}

// reconcile inherits rate-limit state accrued by prior usage under the same
// credentials. It runs only once, on the first successful call of the process
// lifetime, and only backfills when the server reports more than one request
// already used. Absent or malformed headers degrade to a log line.
func (e *Executor) reconcile(header http.Header, now time.Time) {
	if e.reconciled {
		return
	}
	e.reconciled = true

	usedHeader := header.Get(headerRatelimitUsed)
	if usedHeader == "" {
		e.logger.Warn("no rate-limit info available for this request")
		return
	}

	used, err := strconv.Atoi(usedHeader)
	if err != nil {
		e.logger.Warn("unparseable rate-limit usage header", "value", usedHeader, "err", err)
		return
	}
	// used includes the request just sent, which is already in the window.
	if used <= 1 {
		return
	}

	resetSeconds, errReset := strconv.Atoi(header.Get(headerRatelimitReset))
	remaining, errRemaining := strconv.ParseFloat(header.Get(headerRatelimitRemaining), 64)
	if errReset != nil || errRemaining != nil {
		e.logger.Warn("incomplete rate-limit headers, skipping reconciliation",
			"reset", header.Get(headerRatelimitReset),
			"remaining", header.Get(headerRatelimitRemaining))
		return
	}

	reset := time.Duration(resetSeconds) * time.Second
	if reset > e.windowTime {
		reset = e.windowTime
	}

	e.logger.Info("catching up on rate-limit metadata",
		"requests_used", used,
		"requests_remaining", int(remaining),
		"time_until_window_reset", reset)

	e.window.Backfill(used-1, now.Add(-reset))
	e.recorder.WindowDepth(e.window.Len())
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
