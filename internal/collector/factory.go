package collector

import (
	"fmt"

	"github.com/qepting91/reddit-query/internal/config"
	"github.com/qepting91/reddit-query/internal/domain"
)

// NewCollector selects the correct implementation based on the mode
func NewCollector(cfg *config.Config) (domain.Collector, error) {
	switch cfg.Mode {
	case config.ModeAPI:
		return NewAPIClient(
			cfg.ClientID,
			cfg.ClientSecret,
			cfg.Username,
			cfg.Password,
			cfg.UserAgent,
			cfg.RequestTimeout,
		)
	case config.ModePublic:
		if cfg.UserAgent == "" {
			return nil, fmt.Errorf("REDDIT_USER_AGENT is required for public mode")
		}
		return NewPublicClient(cfg.UserAgent,
			WithBaseURL(cfg.BaseURL),
			WithTimeout(cfg.RequestTimeout),
			WithRateLimit(cfg.RateLimitDelay),
		)
	case config.ModeMock:
		return NewMockClient(), nil
	default:
		return nil, fmt.Errorf("unknown COLLECTOR_MODE: %s (use 'api', 'public', or 'mock')", cfg.Mode)
	}
}
