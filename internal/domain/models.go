package domain

import (
	"context"
	"errors"
	"fmt"
)

// Kind selects which subreddit resource a query reads
type Kind string

const (
	KindAbout    Kind = "about"
	KindHotPosts Kind = "hot"
)

// Query is a single request against one subreddit
type Query struct {
	Subreddit string
	Kind      Kind
}

// ErrNoResult is the failure sentinel. Every "no value" outcome wraps it.
var ErrNoResult = errors.New("no result")

var (
	ErrNotFound  = fmt.Errorf("subreddit not found: %w", ErrNoResult)
	ErrTransport = fmt.Errorf("transport failure: %w", ErrNoResult)
	ErrMalformed = fmt.Errorf("malformed response: %w", ErrNoResult)
	ErrEmpty     = fmt.Errorf("no titles: %w", ErrNoResult)
)

// StatusError reports an HTTP status other than 200 or 404.
// It does not wrap ErrNoResult on its own.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("reddit returned unexpected status: %d", e.Code)
}

// Collector defines the interface for data fetching
type Collector interface {
	SubscriberCount(ctx context.Context, subreddit string) (int, error)
	HotTitles(ctx context.Context, subreddit string, limit int) ([]string, error)
}
