package spotify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"

	"github.com/antaww/uta/internal/core/domain"
	"github.com/antaww/uta/internal/core/ports"
	"github.com/antaww/uta/internal/logging"
	"github.com/antaww/uta/internal/metrics"
)

const (
	DefaultBaseURL  = "https://api.spotify.com/v1"
	DefaultTokenURL = "https://accounts.spotify.com/api/token"

	breakerName = "spotify-api"
)

// Config configures the Spotify Web API client.
type Config struct {
	BaseURL  string
	TokenURL string
	// ClientID and ClientSecret enable application-level calls (artist search).
	ClientID     string
	ClientSecret string

	MaxRetries   int
	RetryBackoff time.Duration
	Timeout      time.Duration

	// RequestsPerSecond throttles outbound calls; 0 disables throttling.
	RequestsPerSecond float64
	Burst             int

	// SynthesizeMissingFeatures fills in deterministic audio features when
	// Spotify has none for a track.
	SynthesizeMissingFeatures bool
}

// Client is an HTTP client for the Spotify Web API. One Client is shared by
// every listener session; retries, throttling and the circuit breaker apply
// across all of them.
type Client struct {
	httpClient  *http.Client
	appClient   *http.Client
	baseURL     string
	maxRetries  int
	baseBackoff time.Duration
	limiter     *rate.Limiter
	breaker     *gobreaker.CircuitBreaker[*http.Response]
	synthesize  bool
}

// compile-time interface assertions
var (
	_ ports.SessionProvider = (*Client)(nil)
	_ ports.ArtistSearcher  = (*Client)(nil)
	_ ports.MusicSession    = (*Session)(nil)
)

// NewClient constructs a new Spotify client. httpClient may be nil.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}

	c := &Client{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		maxRetries:  cfg.MaxRetries,
		baseBackoff: cfg.RetryBackoff,
		breaker:     newBreaker(),
		synthesize:  cfg.SynthesizeMissingFeatures,
	}

	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	if cfg.ClientID != "" && cfg.ClientSecret != "" {
		cc := &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
		}
		c.appClient = cc.Client(context.WithValue(context.Background(), oauth2.HTTPClient, httpClient))
	}

	return c
}

// Session opens a listener session backed by an already-issued access token.
func (c *Client) Session(ctx context.Context, accessToken string) (ports.MusicSession, error) {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return nil, domain.ErrUnauthenticated
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	hc := oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, c.httpClient), ts)
	return &Session{client: c, http: hc}, nil
}

// Session is the per-listener view of the Spotify API.
type Session struct {
	client *Client
	http   *http.Client
}

func newBreaker() *gobreaker.CircuitBreaker[*http.Response] {
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	return gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		// Opens when at least 60% of 10 or more requests failed.
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			l := logging.WithComponent("spotify")
			l.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// serverError is a 5xx response that survived every retry.
type serverError struct {
	status int
}

func (e *serverError) Error() string {
	return fmt.Sprintf("status %d", e.status)
}

// do sends req through the limiter, the circuit breaker and the retry loop,
// maps non-2xx responses to domain errors and decodes the body into out.
func (c *Client) do(hc *http.Client, op string, req *http.Request, out any) error {
	ctx := req.Context()
	start := time.Now()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &domain.UpstreamError{Op: op, Err: err}
		}
	}

	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		resp, err := c.doRequestWithRetry(hc, req)
		if err != nil {
			return nil, err
		}
		// 4xx answers are the caller's problem and never trip the breaker.
		if resp.StatusCode >= http.StatusInternalServerError {
			_ = resp.Body.Close()
			return nil, &serverError{status: resp.StatusCode}
		}
		return resp, nil
	})
	if err != nil {
		var se *serverError
		switch {
		case errors.As(err, &se):
			metrics.RecordUpstreamRequest(op, "server_error", time.Since(start))
			return &domain.UpstreamError{Op: op, Status: se.status, Err: err}
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			metrics.RecordUpstreamRequest(op, "rejected", time.Since(start))
			return &domain.UpstreamError{Op: op, Err: err}
		default:
			metrics.RecordUpstreamRequest(op, "transport_error", time.Since(start))
			return &domain.UpstreamError{Op: op, Err: err}
		}
	}
	defer resp.Body.Close()

	if err := checkStatus(op, resp); err != nil {
		outcome := "client_error"
		if resp.StatusCode == http.StatusTooManyRequests {
			outcome = "rate_limited"
		}
		metrics.RecordUpstreamRequest(op, outcome, time.Since(start))
		return err
	}
	metrics.RecordUpstreamRequest(op, "ok", time.Since(start))

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.UpstreamError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}

func checkStatus(op string, resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("spotify adapter: %s: %w", op, domain.ErrUnauthenticated)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("spotify adapter: %s: %w", op, &domain.RateLimitedError{RetryAfter: parseRetryAfter(resp)})
	default:
		return &domain.UpstreamError{Op: op, Status: resp.StatusCode, Err: errors.New(errorMessage(resp))}
	}
}

func errorMessage(resp *http.Response) string {
	var body spotifyErrorBody
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err := json.Unmarshal(raw, &body); err == nil && body.Error.Message != "" {
		return body.Error.Message
	}
	return http.StatusText(resp.StatusCode)
}

func (c *Client) get(ctx context.Context, hc *http.Client, op string, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return c.getURL(ctx, hc, op, u, out)
}

func (c *Client) getURL(ctx context.Context, hc *http.Client, op string, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("spotify adapter: %s: %w", op, err)
	}
	return c.do(hc, op, req, out)
}

func (c *Client) post(ctx context.Context, hc *http.Client, op string, path string, body any, out any) error {
	return c.send(ctx, hc, http.MethodPost, op, path, body, out)
}

// send issues a request with a JSON body.
func (c *Client) send(ctx context.Context, hc *http.Client, method string, op string, path string, body any, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("spotify adapter: %s: marshal: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("spotify adapter: %s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(hc, op, req, out)
}
