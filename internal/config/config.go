// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Pool kinds accepted in the pools section.
const (
	PoolKindLP     = "lp"
	PoolKindTokens = "tokens"
	PoolKindStaked = "staked"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Ethereum  EthereumConfig  `mapstructure:"ethereum"`
	Aura      AuraConfig      `mapstructure:"aura"`
	Prices    PricesConfig    `mapstructure:"prices"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Notify    NotifyConfig    `mapstructure:"notify"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Health    HealthConfig    `mapstructure:"health"`
	Pools     []PoolConfig    `mapstructure:"pools"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
	TUIMode     bool   `mapstructure:"-"` // Set at runtime, not from config file
}

// EthereumConfig holds Ethereum node configuration.
type EthereumConfig struct {
	HTTPURL        string        `mapstructure:"http_url"`
	ChainID        uint64        `mapstructure:"chain_id"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	RateLimitRPS   float64       `mapstructure:"rate_limit_rps"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`
}

// AuraConfig holds the Aura cache endpoint and protocol-wide contracts.
type AuraConfig struct {
	AprURL           string        `mapstructure:"apr_url"`
	CompositePoolIDs []string      `mapstructure:"composite_pool_ids"`
	RequestTimeout   time.Duration `mapstructure:"request_timeout"`
	ConverterAddress string        `mapstructure:"converter_address"`
	VaultAddress     string        `mapstructure:"vault_address"`
}

// VaultAddressHex returns the Balancer vault address.
func (c *AuraConfig) VaultAddressHex() common.Address {
	return common.HexToAddress(c.VaultAddress)
}

// PricesConfig holds the token price API configuration.
type PricesConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	APIKey         string        `mapstructure:"api_key"`
	Platform       string        `mapstructure:"platform"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	RateLimitRPS   float64       `mapstructure:"rate_limit_rps"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`
}

// SchedulerConfig controls the periodic recomputation.
type SchedulerConfig struct {
	Spec           string `mapstructure:"spec"`
	MaxConcurrency int    `mapstructure:"max_concurrency"`
	RunOnStart     bool   `mapstructure:"run_on_start"`
}

// NotifyConfig holds alerting thresholds and the webhook target.
type NotifyConfig struct {
	DiscordWebhookURL string  `mapstructure:"discord_webhook_url"`
	MinAPY            float64 `mapstructure:"min_apy"`
	DeviationPercent  float64 `mapstructure:"deviation_percent"`
}

// MinAPYDecimal returns min_apy as decimal.Decimal.
func (c *NotifyConfig) MinAPYDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.MinAPY)
}

// DeviationPercentDecimal returns deviation_percent as decimal.Decimal.
func (c *NotifyConfig) DeviationPercentDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.DeviationPercent)
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	TraceProvider  string `mapstructure:"trace_provider"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// HealthConfig holds the health server settings.
type HealthConfig struct {
	Port int `mapstructure:"port"`
}

// PoolConfig describes one Aura position to track.
type PoolConfig struct {
	Name       string `mapstructure:"name"`
	Kind       string `mapstructure:"kind"`
	BalReward  string `mapstructure:"bal_reward"`
	AuraReward string `mapstructure:"aura_reward"`
	Asset      string `mapstructure:"asset"`
	Vault      string `mapstructure:"vault"`
	PoolID     string `mapstructure:"pool_id"`
	AuraID     string `mapstructure:"aura_id"`
}

// BalRewardHex returns the BAL reward distributor address.
func (p *PoolConfig) BalRewardHex() common.Address {
	return common.HexToAddress(p.BalReward)
}

// AuraRewardHex returns the AURA converter address for this pool.
func (p *PoolConfig) AuraRewardHex() common.Address {
	return common.HexToAddress(p.AuraReward)
}

// AssetHex returns the LP token override, zero when unset.
func (p *PoolConfig) AssetHex() common.Address {
	if p.Asset == "" {
		return common.Address{}
	}
	return common.HexToAddress(p.Asset)
}

// VaultHex returns the Balancer vault address.
func (p *PoolConfig) VaultHex() common.Address {
	return common.HexToAddress(p.Vault)
}

// PoolIDBytes decodes the Balancer pool id.
func (p *PoolConfig) PoolIDBytes() ([32]byte, error) {
	var id [32]byte
	raw, err := hexutil.Decode(p.PoolID)
	if err != nil {
		return id, fmt.Errorf("pool %s: invalid pool_id: %w", p.Name, err)
	}
	if len(raw) != 32 {
		return id, fmt.Errorf("pool %s: pool_id must be 32 bytes, got %d", p.Name, len(raw))
	}
	copy(id[:], raw)
	return id, nil
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("AURA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnvVars(v)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyPoolDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "AURA_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "AURA_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "AURA_LOG_LEVEL", "LOG_LEVEL")

	// Ethereum
	v.BindEnv("ethereum.http_url", "AURA_ETH_HTTP_URL", "ETHEREUM_NODE")
	v.BindEnv("ethereum.chain_id", "AURA_ETH_CHAIN_ID", "ETH_CHAIN_ID")

	// Prices
	v.BindEnv("prices.api_key", "AURA_PRICES_API_KEY", "COINGECKO_API_KEY")

	// Notify
	v.BindEnv("notify.discord_webhook_url", "AURA_DISCORD_URL", "DISCORD_URL")
	v.BindEnv("notify.min_apy", "AURA_MIN_APY", "THRESHOLD1")
	v.BindEnv("notify.deviation_percent", "AURA_DEVIATION_PERCENT", "THRESHOLD2")

	// Telemetry
	v.BindEnv("telemetry.enabled", "AURA_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "AURA_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "AURA_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "aura-yield")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("ethereum.chain_id", 1)
	v.SetDefault("ethereum.request_timeout", "15s")
	v.SetDefault("ethereum.rate_limit_rps", 20)
	v.SetDefault("ethereum.rate_limit_burst", 40)

	// Aura mainnet defaults
	v.SetDefault("aura.apr_url", "https://cache.aura.finance")
	v.SetDefault("aura.composite_pool_ids", []string{"auraBal"})
	v.SetDefault("aura.request_timeout", "10s")
	v.SetDefault("aura.converter_address", "0x744Be650cea753de1e69BF6BAd3c98490A855f52")
	v.SetDefault("aura.vault_address", "0xBA12222222228d8Ba445958a75a0704d566BF2C8")

	v.SetDefault("prices.base_url", "https://api.coingecko.com/api/v3")
	v.SetDefault("prices.platform", "ethereum")
	v.SetDefault("prices.cache_ttl", "5m")
	v.SetDefault("prices.request_timeout", "10s")
	v.SetDefault("prices.rate_limit_rps", 0.5)
	v.SetDefault("prices.rate_limit_burst", 5)

	v.SetDefault("scheduler.spec", "@every 10m")
	v.SetDefault("scheduler.max_concurrency", 4)
	v.SetDefault("scheduler.run_on_start", true)

	v.SetDefault("notify.min_apy", 0)
	v.SetDefault("notify.deviation_percent", 25)

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "aura-yield")
	v.SetDefault("telemetry.trace_provider", "zipkin")
	v.SetDefault("telemetry.prometheus_port", 9090)

	v.SetDefault("health.port", 8081)
}

// applyPoolDefaults fills protocol-wide contracts into pools that omit them.
func (c *Config) applyPoolDefaults() {
	for i := range c.Pools {
		p := &c.Pools[i]
		if p.AuraReward == "" {
			p.AuraReward = c.Aura.ConverterAddress
		}
		if p.Kind == PoolKindTokens && p.Vault == "" {
			p.Vault = c.Aura.VaultAddress
		}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Ethereum.HTTPURL == "" {
		return fmt.Errorf("ethereum.http_url is required")
	}
	if c.Aura.AprURL == "" {
		return fmt.Errorf("aura.apr_url is required")
	}
	if c.Scheduler.MaxConcurrency < 1 {
		return fmt.Errorf("scheduler.max_concurrency must be at least 1")
	}

	seen := make(map[string]struct{}, len(c.Pools))
	for i := range c.Pools {
		p := &c.Pools[i]
		if p.Name == "" {
			return fmt.Errorf("pools[%d].name is required", i)
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("pools[%d]: duplicate name %q", i, p.Name)
		}
		seen[p.Name] = struct{}{}

		if !common.IsHexAddress(p.BalReward) {
			return fmt.Errorf("pool %s: invalid bal_reward: %s", p.Name, p.BalReward)
		}
		if !common.IsHexAddress(p.AuraReward) {
			return fmt.Errorf("pool %s: invalid aura_reward: %s", p.Name, p.AuraReward)
		}

		switch p.Kind {
		case PoolKindLP:
			if p.Asset != "" && !common.IsHexAddress(p.Asset) {
				return fmt.Errorf("pool %s: invalid asset: %s", p.Name, p.Asset)
			}
			if p.AuraID == "" {
				return fmt.Errorf("pool %s: aura_id is required for lp pools", p.Name)
			}
		case PoolKindStaked:
			if p.AuraID == "" {
				return fmt.Errorf("pool %s: aura_id is required for staked pools", p.Name)
			}
		case PoolKindTokens:
			if !common.IsHexAddress(p.Vault) {
				return fmt.Errorf("pool %s: invalid vault: %s", p.Name, p.Vault)
			}
			if _, err := p.PoolIDBytes(); err != nil {
				return err
			}
		default:
			return fmt.Errorf("pool %s: unknown kind %q", p.Name, p.Kind)
		}
	}
	return nil
}
