package repository

import (
	"testing"

	"stock-strategy/config"
	"stock-strategy/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFinnhubRepository_ZeroRequestBudget(t *testing.T) {
	log, err := logger.New("error", "console")
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.MarketData.FinnhubBaseURL = "https://finnhub.io/api/v1"

	// An unset per-minute budget must not divide by zero; the limiter floors
	// at one request per minute.
	var repo FinnhubRepository
	assert.NotPanics(t, func() {
		repo = NewFinnhubRepository(cfg, log)
	})
	assert.False(t, repo.Enabled())
}
