// Package config loads the YAML analysis configuration: which assets to
// analyze, over which date range, with which rate assumptions, and where
// data and reports live.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/TheNeuroneLab/CryptoBot/internal/domain"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// dateLayout is the calendar-day format used for the analysis range.
const dateLayout = "2006-01-02"

// Asset is one symbol to analyze with its circulating supply.
type Asset struct {
	Symbol            string  `yaml:"symbol" validate:"required"`
	CirculatingSupply float64 `yaml:"circulating_supply" validate:"required,gt=0"`
}

// Parameters are the rate assumptions shared by all assets in a run. Absent
// fields fall back to the reference defaults; an explicit value overrides.
type Parameters struct {
	StakingAPY          float64 `yaml:"staking_apy" default:"0.06"`
	PeerStakingAPY      float64 `yaml:"peer_staking_apy" default:"0.05"`
	RiskFreeRate        float64 `yaml:"risk_free_rate" default:"0.025"`
	Beta                float64 `yaml:"beta" default:"1.4"`
	MarketRiskPremium   float64 `yaml:"market_risk_premium" default:"0.06"`
	UtilityGrowthRate   float64 `yaml:"utility_growth_rate" default:"0.08"`
	UtilityDiscountRate float64 `yaml:"utility_discount_rate" default:"0.12"`
	PriceGrowthRate     float64 `yaml:"price_growth_rate" default:"0.10"`
	PriceDiscountRate   float64 `yaml:"price_discount_rate" default:"0.15"`
	RegulatoryHaircut   float64 `yaml:"regulatory_haircut" default:"0.20"`
	ProjectionYears     int     `yaml:"projection_years" default:"5" validate:"gt=0"`
}

// Config is the full analysis configuration.
type Config struct {
	Assets []Asset `yaml:"assets" validate:"required,min=1,dive"`

	Range struct {
		Start string `yaml:"start" validate:"required,datetime=2006-01-02"`
		End   string `yaml:"end" validate:"omitempty,datetime=2006-01-02"`
	} `yaml:"range"`

	Parameters Parameters `yaml:"parameters"`

	Binance struct {
		BaseURL   string `yaml:"base_url" default:"https://api.binance.com" validate:"required,url"`
		StreamURL string `yaml:"stream_url" default:"wss://stream.binance.com:9443/ws" validate:"required"`
	} `yaml:"binance"`

	Storage struct {
		PostgresDSN   string `yaml:"postgres_dsn"`
		ClickhouseDSN string `yaml:"clickhouse_dsn"`
	} `yaml:"storage"`

	Output struct {
		Dir string `yaml:"dir" default:"reports"`
	} `yaml:"output"`
}

// Load reads, defaults and validates a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply config defaults: %w", err)
	}
	if err := validate.Struct(&c); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	start, _ := time.Parse(dateLayout, c.Range.Start)
	if c.Range.End != "" {
		end, _ := time.Parse(dateLayout, c.Range.End)
		if end.Before(start) {
			return nil, fmt.Errorf("range end %s before start %s", c.Range.End, c.Range.Start)
		}
	}
	return &c, nil
}

// Window returns the analysis range as UTC instants. An absent end means
// "up to now" and resolves against the supplied clock value.
func (c *Config) Window(now time.Time) (start, end time.Time) {
	start, _ = time.Parse(dateLayout, c.Range.Start)
	if c.Range.End == "" {
		return start, now.UTC()
	}
	end, _ = time.Parse(dateLayout, c.Range.End)
	return start, end
}

// ParametersFor binds the run-level rate assumptions to one asset's supply.
func (c *Config) ParametersFor(a Asset) domain.StaticParameters {
	p := c.Parameters
	return domain.StaticParameters{
		CirculatingSupply:   a.CirculatingSupply,
		StakingAPY:          p.StakingAPY,
		PeerStakingAPY:      p.PeerStakingAPY,
		RiskFreeRate:        p.RiskFreeRate,
		Beta:                p.Beta,
		MarketRiskPremium:   p.MarketRiskPremium,
		UtilityGrowthRate:   p.UtilityGrowthRate,
		UtilityDiscountRate: p.UtilityDiscountRate,
		PriceGrowthRate:     p.PriceGrowthRate,
		PriceDiscountRate:   p.PriceDiscountRate,
		RegulatoryHaircut:   p.RegulatoryHaircut,
		ProjectionYears:     p.ProjectionYears,
	}
}

// Asset looks up a configured asset by symbol.
func (c *Config) Asset(symbol string) (Asset, bool) {
	for _, a := range c.Assets {
		if a.Symbol == symbol {
			return a, true
		}
	}
	return Asset{}, false
}
