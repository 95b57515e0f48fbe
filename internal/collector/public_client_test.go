package collector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/qepting91/reddit-query/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAgent = "redditq-test/1.0"

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *PublicClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	opts = append([]Option{WithBaseURL(srv.URL), WithRateLimit(0)}, opts...)
	pc, err := NewPublicClient(testAgent, opts...)
	require.NoError(t, err)
	return pc
}

func hotBody(titles ...string) string {
	var children []string
	for _, title := range titles {
		children = append(children, fmt.Sprintf(`{"kind":"t3","data":{"title":%q}}`, title))
	}
	return `{"kind":"Listing","data":{"children":[` + strings.Join(children, ",") + `]}}`
}

func TestNewPublicClientRequiresUserAgent(t *testing.T) {
	_, err := NewPublicClient("")
	assert.Error(t, err)
}

func TestSubscriberCount(t *testing.T) {
	var gotPath, gotAgent string
	pc := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"kind":"t5","data":{"display_name":"golang","subscribers":264512}}`)
	})

	n, err := pc.SubscriberCount(context.Background(), "golang")
	require.NoError(t, err)
	assert.Equal(t, 264512, n)
	assert.Equal(t, "/r/golang/about.json", gotPath)
	assert.Equal(t, testAgent, gotAgent)
}

func TestSubscriberCountFailures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
	}{
		{name: "not found", status: http.StatusNotFound, body: `{"message":"Not Found","error":404}`, sentinel: domain.ErrNotFound},
		{name: "missing field", status: http.StatusOK, body: `{"kind":"t5","data":{}}`, sentinel: domain.ErrMalformed},
		{name: "bad json", status: http.StatusOK, body: `<html>nope</html>`, sentinel: domain.ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pc := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})

			n, err := pc.SubscriberCount(context.Background(), "doesnotexist_0000")
			assert.Equal(t, 0, n)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.ErrorIs(t, err, domain.ErrNoResult)
		})
	}
}

func TestSubscriberCountUnexpectedStatusIsNotSentinel(t *testing.T) {
	pc := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := pc.SubscriberCount(context.Background(), "private_sub")
	require.Error(t, err)

	var statusErr *domain.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusForbidden, statusErr.Code)
	assert.False(t, errors.Is(err, domain.ErrNoResult))
}

func TestSubscriberCountFollowsRedirects(t *testing.T) {
	pc := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/r/Golang/about.json" {
			http.Redirect(w, r, "/r/golang/about.json", http.StatusMovedPermanently)
			return
		}
		io.WriteString(w, `{"data":{"subscribers":7}}`)
	})

	n, err := pc.SubscriberCount(context.Background(), "Golang")
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestHotTitles(t *testing.T) {
	var gotQuery, gotAgent string
	pc := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotAgent = r.Header.Get("User-Agent")
		io.WriteString(w, hotBody("first", "second", "third"))
	})

	titles, err := pc.HotTitles(context.Background(), "golang", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, titles)
	assert.Equal(t, "limit=10", gotQuery)
	assert.Equal(t, testAgent, gotAgent)
}

func TestHotTitlesNeverExceedsLimit(t *testing.T) {
	var many []string
	for i := 0; i < 25; i++ {
		many = append(many, fmt.Sprintf("post %d", i))
	}
	pc := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, hotBody(many...))
	})

	titles, err := pc.HotTitles(context.Background(), "golang", 10)
	require.NoError(t, err)
	assert.Len(t, titles, 10)
	assert.Equal(t, many[:10], titles)
}

func TestHotTitlesDefaultLimit(t *testing.T) {
	var gotQuery string
	pc := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		io.WriteString(w, hotBody("only"))
	})

	_, err := pc.HotTitles(context.Background(), "golang", 0)
	require.NoError(t, err)
	assert.Equal(t, "limit=10", gotQuery)
}

func TestHotTitlesSkipsUntitledEntries(t *testing.T) {
	pc := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data":{"children":[{"data":{"title":"a"}},{"data":{}},{"kind":"more"},{"data":{"title":"b"}}]}}`)
	})

	titles, err := pc.HotTitles(context.Background(), "golang", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, titles)
}

func TestHotTitlesDoesNotFollowRedirects(t *testing.T) {
	var loginHit bool
	pc := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/login" {
			loginHit = true
			io.WriteString(w, hotBody("should not be read"))
			return
		}
		http.Redirect(w, r, "/login", http.StatusFound)
	})

	titles, err := pc.HotTitles(context.Background(), "quarantined", 10)
	assert.Nil(t, titles)
	assert.ErrorIs(t, err, domain.ErrNoResult)
	assert.False(t, loginHit)

	var statusErr *domain.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusFound, statusErr.Code)
}

func TestHotTitlesFailuresAreSentinel(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "not found", status: http.StatusNotFound, body: `{}`},
		{name: "server error", status: http.StatusInternalServerError, body: ``},
		{name: "too many requests", status: http.StatusTooManyRequests, body: ``},
		{name: "bad json", status: http.StatusOK, body: `{"data":`},
		{name: "empty listing", status: http.StatusOK, body: hotBody()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pc := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})

			titles, err := pc.HotTitles(context.Background(), "golang", 10)
			assert.Nil(t, titles)
			assert.ErrorIs(t, err, domain.ErrNoResult)
		})
	}
}

func TestHotTitlesTimeout(t *testing.T) {
	pc := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}, WithTimeout(50*time.Millisecond))

	titles, err := pc.HotTitles(context.Background(), "golang", 10)
	assert.Nil(t, titles)
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.ErrorIs(t, err, domain.ErrNoResult)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestInjectedTransport(t *testing.T) {
	var gotURL string
	transport := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		gotURL = r.URL.String()
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": {"application/json"}},
			Body:       io.NopCloser(strings.NewReader(hotBody("x", "y"))),
			Request:    r,
		}, nil
	})

	pc, err := NewPublicClient(testAgent, WithHTTPClient(&http.Client{Transport: transport}), WithRateLimit(0))
	require.NoError(t, err)

	titles, err := pc.HotTitles(context.Background(), "golang", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, titles)
	assert.Equal(t, "https://www.reddit.com/r/golang/hot.json?limit=5", gotURL)
}

func TestConnectionErrorIsSentinel(t *testing.T) {
	transport := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})
	pc, err := NewPublicClient(testAgent, WithHTTPClient(&http.Client{Transport: transport}), WithRateLimit(0))
	require.NoError(t, err)

	_, err = pc.SubscriberCount(context.Background(), "golang")
	assert.ErrorIs(t, err, domain.ErrTransport)

	_, err = pc.HotTitles(context.Background(), "golang", 10)
	assert.ErrorIs(t, err, domain.ErrTransport)
}
