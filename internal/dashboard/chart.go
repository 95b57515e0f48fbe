package dashboard

import (
	"errors"
	"io"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/qepting91/reddit-query/internal/domain"
	"github.com/qepting91/reddit-query/internal/storage"
)

var ErrNoData = errors.New("no subscriber counts in history")

// LatestSubscribers keeps the newest successful count per subreddit.
func LatestSubscribers(records []storage.Record) map[string]int {
	latest := make(map[string]storage.Record)
	for _, rec := range records {
		if rec.Kind != domain.KindAbout || rec.Subscribers == nil {
			continue
		}
		prev, ok := latest[rec.Subreddit]
		if !ok || !rec.FetchedAt.Before(prev.FetchedAt) {
			latest[rec.Subreddit] = rec
		}
	}

	counts := make(map[string]int, len(latest))
	for sub, rec := range latest {
		counts[sub] = *rec.Subscribers
	}
	return counts
}

// RenderSubscribers writes an HTML bar chart of the latest subscriber counts.
func RenderSubscribers(w io.Writer, records []storage.Record) error {
	counts := LatestSubscribers(records)
	if len(counts) == 0 {
		return ErrNoData
	}

	subs := make([]string, 0, len(counts))
	for sub := range counts {
		subs = append(subs, sub)
	}
	sort.Strings(subs)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Subreddit Subscribers"}),
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
	)

	barY := make([]opts.BarData, 0, len(subs))
	for _, sub := range subs {
		barY = append(barY, opts.BarData{Value: counts[sub]})
	}
	bar.SetXAxis(subs).AddSeries("Subscribers", barY)

	return bar.Render(w)
}
