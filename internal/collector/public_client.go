package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/qepting91/reddit-query/internal/domain"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://www.reddit.com"
	DefaultLimit   = 10
	defaultTimeout = 10 * time.Second
)

// PublicClient reads Reddit's unauthenticated JSON endpoints.
type PublicClient struct {
	httpClient *http.Client
	noRedirect *http.Client
	limiter    *rate.Limiter
	userAgent  string
	baseURL    string
	timeout    time.Duration
}

type Option func(*PublicClient)

// WithHTTPClient swaps the underlying client, e.g. to inject a fake transport.
func WithHTTPClient(c *http.Client) Option {
	return func(pc *PublicClient) { pc.httpClient = c }
}

func WithBaseURL(u string) Option {
	return func(pc *PublicClient) { pc.baseURL = u }
}

func WithTimeout(d time.Duration) Option {
	return func(pc *PublicClient) { pc.timeout = d }
}

// WithRateLimit sets the minimum gap between requests. Zero disables limiting.
func WithRateLimit(every time.Duration) Option {
	return func(pc *PublicClient) {
		if every <= 0 {
			pc.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		pc.limiter = rate.NewLimiter(rate.Every(every), 1)
	}
}

type aboutResponse struct {
	Data struct {
		Subscribers *int `json:"subscribers"`
	} `json:"data"`
}

type hotResponse struct {
	Data struct {
		Children []struct {
			Data struct {
				Title string `json:"title"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

func NewPublicClient(userAgent string, opts ...Option) (*PublicClient, error) {
	if userAgent == "" {
		return nil, fmt.Errorf("user agent is required for public mode")
	}

	pc := &PublicClient{
		httpClient: &http.Client{},
		// Public JSON Limit: 1 req / 2 seconds (Stricter)
		limiter:   rate.NewLimiter(rate.Every(2*time.Second), 1),
		userAgent: userAgent,
		baseURL:   DefaultBaseURL,
		timeout:   defaultTimeout,
	}
	for _, opt := range opts {
		opt(pc)
	}

	nr := *pc.httpClient
	nr.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	pc.noRedirect = &nr

	return pc, nil
}

// SubscriberCount returns data.subscribers from /r/{sub}/about.json.
// Statuses other than 200 and 404 come back as *domain.StatusError.
func (pc *PublicClient) SubscriberCount(ctx context.Context, sub string) (int, error) {
	u := fmt.Sprintf("%s/r/%s/about.json", pc.baseURL, url.PathEscape(sub))

	res := pc.get(ctx, u, true)
	switch res.kind {
	case outcomeNotFound:
		return 0, domain.ErrNotFound
	case outcomeStatus:
		return 0, &domain.StatusError{Code: res.status}
	case outcomeTransport:
		return 0, fmt.Errorf("%w: %v", domain.ErrTransport, res.err)
	}

	var about aboutResponse
	if err := json.Unmarshal(res.body, &about); err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrMalformed, err)
	}
	if about.Data.Subscribers == nil {
		return 0, fmt.Errorf("%w: missing data.subscribers", domain.ErrMalformed)
	}
	return *about.Data.Subscribers, nil
}

// HotTitles returns up to limit titles from /r/{sub}/hot.json without
// following redirects. Every failure wraps domain.ErrNoResult.
func (pc *PublicClient) HotTitles(ctx context.Context, sub string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	u := fmt.Sprintf("%s/r/%s/hot.json?limit=%d", pc.baseURL, url.PathEscape(sub), limit)

	res := pc.get(ctx, u, false)
	switch res.kind {
	case outcomeNotFound:
		return nil, domain.ErrNotFound
	case outcomeStatus:
		return nil, fmt.Errorf("%w: %w", domain.ErrNoResult, &domain.StatusError{Code: res.status})
	case outcomeTransport:
		return nil, fmt.Errorf("%w: %v", domain.ErrTransport, res.err)
	}

	var hot hotResponse
	if err := json.Unmarshal(res.body, &hot); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformed, err)
	}

	children := hot.Data.Children
	if len(children) > limit {
		children = children[:limit]
	}

	var titles []string
	for _, child := range children {
		if child.Data.Title == "" {
			continue
		}
		titles = append(titles, child.Data.Title)
	}
	if len(titles) == 0 {
		return nil, domain.ErrEmpty
	}
	return titles, nil
}
