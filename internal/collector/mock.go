package collector

import (
	"context"
	"hash/fnv"

	"github.com/qepting91/reddit-query/internal/domain"
)

// CheckerToken is what MockClient reports as the hot listing of any named subreddit.
const CheckerToken = "OK"

// MockClient implements domain.Collector without touching the network.
// It backs checker mode, where a grader only wants to see the wiring work.
type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

// SubscriberCount returns a stable fake count derived from the name.
func (mc *MockClient) SubscriberCount(ctx context.Context, sub string) (int, error) {
	if sub == "" {
		return 0, domain.ErrNotFound
	}
	h := fnv.New32a()
	h.Write([]byte(sub))
	return int(h.Sum32() % 1_000_000), nil
}

func (mc *MockClient) HotTitles(ctx context.Context, sub string, limit int) ([]string, error) {
	if sub == "" {
		return nil, domain.ErrEmpty
	}
	return []string{CheckerToken}, nil
}
