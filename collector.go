package collector

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/cnu-smr/reddit-collector/internal"
	"github.com/cnu-smr/reddit-collector/pkg/errors"
	"github.com/cnu-smr/reddit-collector/pkg/metrics"
	"github.com/cnu-smr/reddit-collector/pkg/types"
)

const (
	// DefaultBaseURL is the Reddit OAuth API base URL.
	DefaultBaseURL = "https://oauth.reddit.com"
	// DefaultTokenURL is the Reddit token exchange endpoint.
	DefaultTokenURL = "https://www.reddit.com/api/v1/access_token"
	// DefaultUserAgent identifies the research client to Reddit.
	DefaultUserAgent = "CNU Social Media Research Client"
	// DefaultTimeout is the default HTTP client timeout.
	DefaultTimeout = 30 * time.Second
)

// Config holds the configuration for the collector client.
type Config struct {
	// ClientID and ClientSecret for the client_credentials grant.
	// Required. Usually loaded from keys.json via LoadKeys.
	ClientID     string
	ClientSecret string

	// UserAgent string to identify the application to Reddit.
	// Defaults to DefaultUserAgent if empty.
	UserAgent string

	// BaseURL for the OAuth API. Defaults to DefaultBaseURL.
	// Overridden in tests to point at a local server.
	BaseURL string

	// TokenURL for the credential exchange. Defaults to DefaultTokenURL.
	TokenURL string

	// WindowTime is the sliding-window length for local rate limiting.
	// Values above 10 minutes are clamped. Defaults to 10 minutes.
	WindowTime time.Duration

	// MaxRequestsInWindow caps requests per window. Values above 1000 are
	// clamped. Defaults to 1000.
	MaxRequestsInWindow int

	// RequestsPerMinute optionally smooths steady-state throughput beneath
	// the window. Zero disables smoothing.
	RequestsPerMinute float64

	// Burst allows short spikes above the steady-state rate.
	Burst int

	// HTTPClient to use for requests.
	// Defaults to a client with DefaultTimeout if not specified.
	HTTPClient *http.Client

	// Logger for structured diagnostics. Optional; nil discards.
	Logger *slog.Logger

	// Metrics receives execution events from the request executor. Optional.
	Metrics metrics.Recorder
}

// Client is the collector's entry point. It acquires a token once on Connect
// and reuses the resulting immutable session for the process lifetime; there
// is no refresh on expiry.
type Client struct {
	config *Config
	auth   *internal.Authenticator
	parser *internal.Parser
	logger *slog.Logger

	connectOnce sync.Once
	connectErr  error
	exec        *internal.Executor
}

// NewClient validates config and returns a client ready to be connected.
// It does not perform the token exchange; that happens on the first call or
// on an explicit Connect.
func NewClient(config *Config) (*Client, error) {
	if config == nil {
		return nil, &errors.ConfigError{Message: "config cannot be nil"}
	}
	if config.ClientID == "" || config.ClientSecret == "" {
		return nil, &errors.ConfigError{Message: "ClientID and ClientSecret are required"}
	}

	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.TokenURL == "" {
		config.TokenURL = DefaultTokenURL
	}
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		config: config,
		auth: internal.NewAuthenticator(
			config.HTTPClient,
			config.ClientID,
			config.ClientSecret,
			config.UserAgent,
			config.TokenURL,
		),
		parser: internal.NewParser(),
		logger: logger,
	}, nil
}

// Connect performs the token exchange and initializes the request executor.
// Safe to call multiple times; the exchange happens once. A failure here is
// fatal: construct a fresh client to retry.
func (c *Client) Connect(ctx context.Context) error {
	c.connectOnce.Do(func() {
		c.connectErr = c.initialize(ctx)
	})
	return c.connectErr
}

func (c *Client) initialize(ctx context.Context) error {
	token, err := c.auth.AcquireToken(ctx)
	if err != nil {
		return err
	}

	session := types.Session{
		AccessToken: token,
		UserAgent:   c.config.UserAgent,
	}

	c.exec = internal.NewExecutor(c.config.HTTPClient, session, internal.ExecutorConfig{
		WindowTime:        c.config.WindowTime,
		MaxRequests:       c.config.MaxRequestsInWindow,
		RequestsPerMinute: c.config.RequestsPerMinute,
		Burst:             c.config.Burst,
		Metrics:           c.config.Metrics,
	}, c.logger)

	return nil
}

func (c *Client) ensureConnected(ctx context.Context) error {
	return c.Connect(ctx)
}

// SearchPosts pages through the search endpoint for term within subreddit
// until targetCount unique posts have been seen or pagination ends, whichever
// comes first. Returning fewer than targetCount results is expected when the
// query is exhausted. Every returned post is tagged with the originating term.
//
// An empty sort defaults to types.SortNew.
func (c *Client) SearchPosts(ctx context.Context, subreddit, term string, targetCount int, sort types.SortBy) ([]*types.Post, error) {
	if err := c.ensureConnected(ctx); err != nil {
		return nil, err
	}
	if sort == "" {
		sort = types.SortNew
	}

	var posts []*types.Post
	seen := make(map[string]struct{})
	after := ""

	for len(seen) < targetCount {
		query := internal.BuildSearchQuery(c.config.BaseURL, subreddit, term, sort, after)

		body, err := c.exec.Get(ctx, query)
		if err != nil {
			return nil, err
		}

		var page types.Thing
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, &errors.ProtocolError{Operation: "search posts", Err: err}
		}
		listing, err := c.parser.ParseListing(&page)
		if err != nil {
			return nil, &errors.ProtocolError{Operation: "search posts", Err: err}
		}

		pagePosts, err := c.parser.ExtractPosts(&page)
		if err != nil {
			return nil, &errors.ProtocolError{Operation: "search posts", Err: err}
		}

		// The same post can reappear across pages; the seen set drives
		// termination while the flattened result keeps page order.
		for _, post := range pagePosts {
			seen[post.ID] = struct{}{}
		}
		posts = append(posts, pagePosts...)

		// The query may run out of posts before targetCount is reached.
		if listing.AfterFullname == "" {
			break
		}
		after = listing.AfterFullname
	}

	for _, post := range posts {
		post.Query = term
	}

	c.logger.Info("search complete",
		"subreddit", subreddit,
		"term", term,
		"unique_posts", len(seen))

	return posts, nil
}
