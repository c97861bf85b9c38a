package core

import (
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Config sharelend config
type Config struct {
	App    App    `json:"app"`
	Source Source `json:"source"`
	Risk   Risk   `json:"risk"`
}

// App app config
type App struct {
	// Group group address, base58
	Group string `json:"group"`
	// Accounts accounts loaded with every snapshot, base58
	Accounts []string `json:"accounts"`
	// RefreshInterval full reload interval in seconds
	RefreshInterval int64 `json:"refresh_interval"`
	// PriceInterval price refresh interval in seconds
	PriceInterval int64 `json:"price_interval"`
}

// Source record source config, File takes precedence over Endpoint
type Source struct {
	File     string `json:"file"`
	Endpoint string `json:"endpoint"`
	// Timeout request timeout in seconds
	Timeout int64 `json:"timeout"`
	// CacheTTL batch cache ttl in seconds, zero disables the cache
	CacheTTL int64 `json:"cache_ttl"`
}

// Risk price risk config, decimals as strings
type Risk struct {
	ConfidenceMultiplier string `json:"confidence_multiplier"`
	// MaxConfidenceRatio empty or zero disables the cap
	MaxConfidenceRatio string `json:"max_confidence_ratio"`
}

func (r Risk) confidenceMultiplier() (decimal.Decimal, error) {
	m, err := decimal.NewFromString(r.ConfidenceMultiplier)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "invalid confidence multiplier %q", r.ConfidenceMultiplier)
	}

	if !m.IsPositive() {
		return decimal.Zero, errors.New("confidence multiplier should be positive")
	}

	return m, nil
}

func (r Risk) maxConfidenceRatio() (decimal.Decimal, error) {
	if r.MaxConfidenceRatio == "" {
		return decimal.Zero, nil
	}

	ratio, err := decimal.NewFromString(r.MaxConfidenceRatio)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "invalid max confidence ratio %q", r.MaxConfidenceRatio)
	}

	if ratio.IsNegative() {
		return decimal.Zero, errors.New("max confidence ratio should not be negative")
	}

	return ratio, nil
}

// Defaults fill zero values
func (c *Config) Defaults() {
	if c.App.RefreshInterval <= 0 {
		c.App.RefreshInterval = 30
	}

	if c.App.PriceInterval <= 0 {
		c.App.PriceInterval = 5
	}

	if c.Source.Timeout <= 0 {
		c.Source.Timeout = 10
	}

	if c.Risk.ConfidenceMultiplier == "" {
		c.Risk.ConfidenceMultiplier = DefaultConfidenceMultiplier.String()
	}
}

// Validate check addresses and source
func (c *Config) Validate() error {
	if _, err := c.GroupAddress(); err != nil {
		return err
	}

	if _, err := c.AccountAddresses(); err != nil {
		return err
	}

	if c.Source.File == "" {
		if !govalidator.IsURL(c.Source.Endpoint) {
			return errors.Errorf("invalid source endpoint %q", c.Source.Endpoint)
		}
	}

	if _, err := c.Risk.confidenceMultiplier(); err != nil {
		return err
	}

	if _, err := c.Risk.maxConfidenceRatio(); err != nil {
		return err
	}

	return nil
}

// GroupAddress parsed group address
func (c *Config) GroupAddress() (solana.PublicKey, error) {
	pk, err := solana.PublicKeyFromBase58(c.App.Group)
	if err != nil {
		return solana.PublicKey{}, errors.Wrapf(err, "invalid group %q", c.App.Group)
	}

	return pk, nil
}

// AccountAddresses parsed account addresses
func (c *Config) AccountAddresses() ([]solana.PublicKey, error) {
	keys := make([]solana.PublicKey, 0, len(c.App.Accounts))
	for _, a := range c.App.Accounts {
		pk, err := solana.PublicKeyFromBase58(a)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid account %q", a)
		}
		keys = append(keys, pk)
	}

	return keys, nil
}

// PriceOptions price reading options from a validated risk config
func (c *Config) PriceOptions() []PriceOption {
	var opts []PriceOption
	if m, err := c.Risk.confidenceMultiplier(); err == nil {
		opts = append(opts, WithConfidenceMultiplier(m))
	}

	if ratio, err := c.Risk.maxConfidenceRatio(); err == nil {
		opts = append(opts, WithMaxConfidenceRatio(ratio))
	}

	return opts
}

func seconds(n int64) time.Duration {
	return time.Duration(n) * time.Second
}

// RefreshEvery full reload interval
func (c *Config) RefreshEvery() time.Duration {
	return seconds(c.App.RefreshInterval)
}

// PriceEvery price refresh interval
func (c *Config) PriceEvery() time.Duration {
	return seconds(c.App.PriceInterval)
}

// SourceTimeout request timeout of the remote source
func (c *Config) SourceTimeout() time.Duration {
	return seconds(c.Source.Timeout)
}

// CacheTTL batch cache ttl
func (c *Config) CacheTTL() time.Duration {
	return seconds(c.Source.CacheTTL)
}
