// Package report runs queries against a collector and prints their results.
// Every failure prints a single sentinel token; only failures that are not
// a plain "no result" are returned to the caller.
package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/qepting91/reddit-query/internal/domain"
	"github.com/qepting91/reddit-query/internal/storage"
)

const (
	SubscribersSentinel = "0"
	TitlesSentinel      = "None"
)

type Runner struct {
	Collector domain.Collector
	Out       io.Writer
	Limit     int
	// History is optional; nil disables recording.
	History *storage.WriterService
}

// Subscribers prints the subscriber count of sub.
func (r *Runner) Subscribers(ctx context.Context, sub string) error {
	n, err := r.subscribers(ctx, sub)
	if err != nil {
		fmt.Fprintln(r.Out, SubscribersSentinel)
	} else {
		fmt.Fprintln(r.Out, n)
	}
	return surface(err)
}

// Top prints up to Limit hot titles of sub, one per line.
func (r *Runner) Top(ctx context.Context, sub string) error {
	titles, err := r.titles(ctx, sub)
	if err != nil {
		fmt.Fprintln(r.Out, TitlesSentinel)
		return surface(err)
	}
	for _, title := range titles {
		fmt.Fprintln(r.Out, title)
	}
	return nil
}

// SubscribersBatch queries each name in order and prints "name: count" lines.
// It keeps going past failures and returns the first surfaced error.
func (r *Runner) SubscribersBatch(ctx context.Context, subs []string) error {
	var first error
	for _, sub := range subs {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := r.subscribers(ctx, sub)
		value := strconv.Itoa(n)
		if err != nil {
			value = SubscribersSentinel
		}
		fmt.Fprintf(r.Out, "%s: %s\n", sub, value)
		if serr := surface(err); serr != nil && first == nil {
			first = fmt.Errorf("%s: %w", sub, serr)
		}
	}
	return first
}

// TopBatch prints an "r/name" heading followed by that subreddit's titles.
func (r *Runner) TopBatch(ctx context.Context, subs []string) error {
	var first error
	for _, sub := range subs {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintf(r.Out, "r/%s\n", sub)
		titles, err := r.titles(ctx, sub)
		if err != nil {
			fmt.Fprintln(r.Out, TitlesSentinel)
			if serr := surface(err); serr != nil && first == nil {
				first = fmt.Errorf("%s: %w", sub, serr)
			}
			continue
		}
		for _, title := range titles {
			fmt.Fprintln(r.Out, title)
		}
	}
	return first
}

func (r *Runner) subscribers(ctx context.Context, sub string) (int, error) {
	n, err := r.Collector.SubscriberCount(ctx, sub)
	logOutcome(sub, domain.KindAbout, err)

	rec := storage.NewRecord(domain.Query{Subreddit: sub, Kind: domain.KindAbout}, err)
	if err == nil {
		rec.Subscribers = &n
	}
	r.record(rec)
	return n, err
}

func (r *Runner) titles(ctx context.Context, sub string) ([]string, error) {
	titles, err := r.Collector.HotTitles(ctx, sub, r.Limit)
	if err == nil && len(titles) == 0 {
		err = domain.ErrEmpty
	}
	logOutcome(sub, domain.KindHotPosts, err)

	rec := storage.NewRecord(domain.Query{Subreddit: sub, Kind: domain.KindHotPosts}, err)
	rec.Titles = titles
	r.record(rec)
	return titles, err
}

func (r *Runner) record(rec storage.Record) {
	if r.History == nil {
		return
	}
	if err := r.History.Append(rec); err != nil {
		slog.Warn("history write failed", "file", r.History.FilePath, "err", err)
	}
}

func logOutcome(sub string, kind domain.Kind, err error) {
	switch {
	case err == nil:
		slog.Debug("query ok", "sub", sub, "kind", kind)
	case errors.Is(err, domain.ErrNoResult):
		slog.Info("query returned no result", "sub", sub, "kind", kind, "err", err)
	default:
		slog.Error("query failed", "sub", sub, "kind", kind, "err", err)
	}
}

// surface drops sentinel failures; anything else goes back to the caller.
func surface(err error) error {
	if err == nil || errors.Is(err, domain.ErrNoResult) {
		return nil
	}
	return err
}
