package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/loganintech/go-reddit/v2/reddit"
	"github.com/qepting91/reddit-query/internal/domain"
	"golang.org/x/time/rate"
)

// subredditService is the slice of *reddit.SubredditService we call.
type subredditService interface {
	Get(ctx context.Context, name string) (*reddit.Subreddit, *reddit.Response, error)
	HotPosts(ctx context.Context, subreddit string, opts *reddit.ListOptions) ([]*reddit.Post, *reddit.Response, error)
}

// APIClient answers the same queries through the authenticated OAuth API.
type APIClient struct {
	subreddits subredditService
	limiter    *rate.Limiter
	timeout    time.Duration
}

func NewAPIClient(id, secret, user, pass, userAgent string, timeout time.Duration) (*APIClient, error) {
	creds := reddit.Credentials{ID: id, Secret: secret, Username: user, Password: pass}

	client, err := reddit.NewClient(creds,
		reddit.WithUserAgent(userAgent),
		reddit.WithHTTPClient(&http.Client{Timeout: timeout}),
	)
	if err != nil {
		return nil, err
	}

	// API Rate Limit: ~60 reqs/min (safe buffer)
	limiter := rate.NewLimiter(rate.Every(1*time.Second), 1)

	return &APIClient{subreddits: client.Subreddit, limiter: limiter, timeout: timeout}, nil
}

func (ac *APIClient) SubscriberCount(ctx context.Context, sub string) (int, error) {
	if sub == "" {
		return 0, domain.ErrNotFound
	}
	if err := ac.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}

	ctx, cancel := context.WithTimeout(ctx, ac.timeout)
	defer cancel()

	info, _, err := ac.subreddits.Get(ctx, sub)
	if err != nil {
		return 0, mapAPIError(err, false)
	}
	if info == nil {
		return 0, fmt.Errorf("%w: empty subreddit payload", domain.ErrMalformed)
	}
	return info.Subscribers, nil
}

func (ac *APIClient) HotTitles(ctx context.Context, sub string, limit int) ([]string, error) {
	if sub == "" {
		return nil, domain.ErrNotFound
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if err := ac.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}

	ctx, cancel := context.WithTimeout(ctx, ac.timeout)
	defer cancel()

	posts, _, err := ac.subreddits.HotPosts(ctx, sub, &reddit.ListOptions{Limit: limit})
	if err != nil {
		return nil, mapAPIError(err, true)
	}

	if len(posts) > limit {
		posts = posts[:limit]
	}
	var titles []string
	for _, p := range posts {
		if p == nil || p.Title == "" {
			continue
		}
		titles = append(titles, p.Title)
	}
	if len(titles) == 0 {
		return nil, domain.ErrEmpty
	}
	return titles, nil
}

// mapAPIError folds go-reddit errors into the domain taxonomy. For hot titles
// an unexpected status is also a no-result.
func mapAPIError(err error, titles bool) error {
	var errResp *reddit.ErrorResponse
	if !errors.As(err, &errResp) || errResp.Response == nil {
		return fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}

	code := errResp.Response.StatusCode
	if code == http.StatusNotFound {
		return domain.ErrNotFound
	}
	statusErr := &domain.StatusError{Code: code}
	if titles {
		return fmt.Errorf("%w: %w", domain.ErrNoResult, statusErr)
	}
	return statusErr
}
