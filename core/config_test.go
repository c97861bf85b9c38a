package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	cfg := Config{
		App:    App{Group: "11111111111111111111111111111111"},
		Source: Source{File: "batch.yaml"},
	}
	cfg.Defaults()
	return cfg
}

func TestConfigDefaults(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, 30*time.Second, cfg.RefreshEvery())
	assert.Equal(t, 5*time.Second, cfg.PriceEvery())
	assert.Equal(t, 10*time.Second, cfg.SourceTimeout())
	assert.Equal(t, time.Duration(0), cfg.CacheTTL())
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	cfg := validConfig()
	cfg.App.Group = "0OIl"
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.App.Accounts = []string{"not an address"}
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Source.File = ""
	assert.Error(t, cfg.Validate())
	cfg.Source.Endpoint = "https://indexer.example.com"
	assert.NoError(t, cfg.Validate())

	cfg = validConfig()
	cfg.Risk.MaxConfidenceRatio = "-0.1"
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Risk.ConfidenceMultiplier = "0"
	assert.Error(t, cfg.Validate())
}

func TestConfigPriceOptions(t *testing.T) {
	cfg := validConfig()
	cfg.Risk.ConfidenceMultiplier = "2"
	cfg.Risk.MaxConfidenceRatio = "0.01"
	require.NoError(t, cfg.Validate())

	p := NewPriceReading(decimal.NewFromInt(100), decimal.NewFromInt(1), 0, cfg.PriceOptions()...)
	assert.True(t, p.Multiplier.Equal(decimal.NewFromInt(2)))
	// 1 * 2 capped at 100 * 0.01
	assert.True(t, p.ConfidenceInterval().Equal(decimal.NewFromInt(1)), p.ConfidenceInterval().String())
}
