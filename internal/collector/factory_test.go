package collector

import (
	"context"
	"testing"
	"time"

	"github.com/qepting91/reddit-query/internal/config"
	"github.com/qepting91/reddit-query/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCollector(t *testing.T) {
	base := config.Config{UserAgent: "ua", BaseURL: DefaultBaseURL, RequestTimeout: time.Second}

	pub := base
	pub.Mode = config.ModePublic
	c, err := NewCollector(&pub)
	require.NoError(t, err)
	assert.IsType(t, &PublicClient{}, c)

	mock := base
	mock.Mode = config.ModeMock
	c, err = NewCollector(&mock)
	require.NoError(t, err)
	assert.IsType(t, &MockClient{}, c)

	bad := base
	bad.Mode = "carrier-pigeon"
	_, err = NewCollector(&bad)
	assert.Error(t, err)

	noAgent := base
	noAgent.Mode = config.ModePublic
	noAgent.UserAgent = ""
	_, err = NewCollector(&noAgent)
	assert.Error(t, err)
}

func TestMockClient(t *testing.T) {
	mc := NewMockClient()
	ctx := context.Background()

	titles, err := mc.HotTitles(ctx, "python", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"OK"}, titles)

	titles, err = mc.HotTitles(ctx, "", 10)
	assert.Nil(t, titles)
	assert.ErrorIs(t, err, domain.ErrNoResult)

	a, err := mc.SubscriberCount(ctx, "python")
	require.NoError(t, err)
	b, _ := mc.SubscriberCount(ctx, "python")
	assert.Equal(t, a, b)
	assert.GreaterOrEqual(t, a, 0)

	_, err = mc.SubscriberCount(ctx, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
