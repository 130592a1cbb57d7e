package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/tcgmarket/market-indexer/internal/domain"
)

const (
	// serviceName is used for the service-specific config directory and env file
	serviceName = "indexer"
	// envPrefix is the prefix of every environment variable read by the indexer
	envPrefix = "MARKET_INDEXER"
)

// CardOwnershipMode selects how card transfers are folded into the ownership index
type CardOwnershipMode string

const (
	// CardOwnershipCurrent keeps one record per token under its latest holder
	CardOwnershipCurrent CardOwnershipMode = "current"
	// CardOwnershipHistory appends one record per transfer to the recipient, never removing earlier ones
	CardOwnershipHistory CardOwnershipMode = "history"
)

// Valid reports whether the mode is supported
func (m CardOwnershipMode) Valid() bool {
	return m == CardOwnershipCurrent || m == CardOwnershipHistory
}

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // in seconds
}

// ABIConfig holds optional paths to compiled contract artifacts
// An empty path selects the built-in ABI fragment
type ABIConfig struct {
	Registry   string `mapstructure:"registry"`
	Collection string `mapstructure:"collection"`
	Booster    string `mapstructure:"booster"`
}

// EthereumConfig holds Ethereum-specific configuration
type EthereumConfig struct {
	RPCURL          string    `mapstructure:"rpc_url"`
	RegistryAddress string    `mapstructure:"registry_address"`
	ABI             ABIConfig `mapstructure:"abi"`
}

// CatalogConfig holds card catalog API configuration
type CatalogConfig struct {
	APIURL      string        `mapstructure:"api_url"`
	APIKey      string        `mapstructure:"api_key"`
	SetID       string        `mapstructure:"set_id"`
	PageSize    int           `mapstructure:"page_size"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
}

// WorkerConfig holds worker configuration
type WorkerConfig struct {
	WorkerPoolSize  int `mapstructure:"pool_size"`
	WorkerQueueSize int `mapstructure:"queue_size"`
}

// ReconcilerConfig holds reconciliation pass configuration
type ReconcilerConfig struct {
	Interval          time.Duration     `mapstructure:"interval"`
	CardOwnershipMode CardOwnershipMode `mapstructure:"card_ownership_mode"`
	Worker            WorkerConfig      `mapstructure:"worker"`
}

// NATSConfig holds NATS configuration for snapshot notifications
// An empty URL disables notifications
type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	SubjectPrefix  string        `mapstructure:"subject_prefix"`
	ConnectionName string        `mapstructure:"connection_name"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
}

// IndexerConfig holds configuration for the indexer service
type IndexerConfig struct {
	BaseConfig      `mapstructure:",squash"`
	Server          ServerConfig     `mapstructure:"server"`
	Ethereum        EthereumConfig   `mapstructure:"ethereum"`
	Catalog         CatalogConfig    `mapstructure:"catalog"`
	Reconciler      ReconcilerConfig `mapstructure:"reconciler"`
	NATS            NATSConfig       `mapstructure:"nats"`
	ShutdownTimeout time.Duration    `mapstructure:"shutdown_timeout"`
}

// LoadIndexerConfig loads configuration for the indexer service
func LoadIndexerConfig(configFile string, envPath string) (*IndexerConfig, error) {
	v := configureViper(serviceName, configFile, envPath)

	// Set defaults
	v.SetDefault("debug", false)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("ethereum.rpc_url", "http://127.0.0.1:8545")
	v.SetDefault("catalog.api_url", "https://api.pokemontcg.io")
	v.SetDefault("catalog.set_id", domain.DEFAULT_CARD_SET_ID)
	v.SetDefault("catalog.page_size", 250)
	v.SetDefault("catalog.http_timeout", "30s")
	v.SetDefault("reconciler.interval", "5s")
	v.SetDefault("reconciler.card_ownership_mode", string(CardOwnershipCurrent))
	v.SetDefault("reconciler.worker.pool_size", 16)
	v.SetDefault("reconciler.worker.queue_size", 1024)
	v.SetDefault("nats.subject_prefix", "market.snapshots")
	v.SetDefault("nats.connection_name", "market-indexer")
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("shutdown_timeout", "30s")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use defaults and environment variables
	}

	var cfg IndexerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the fields the indexer cannot start without
func (c *IndexerConfig) Validate() error {
	if c.Ethereum.RPCURL == "" {
		return errors.New("ethereum.rpc_url is required")
	}
	if c.Ethereum.RegistryAddress == "" {
		return errors.New("ethereum.registry_address is required")
	}
	if !c.Reconciler.CardOwnershipMode.Valid() {
		return fmt.Errorf("reconciler.card_ownership_mode must be %q or %q, got %q",
			CardOwnershipCurrent, CardOwnershipHistory, c.Reconciler.CardOwnershipMode)
	}
	if c.Reconciler.Interval <= 0 {
		return errors.New("reconciler.interval must be positive")
	}
	return nil
}

// Addr returns the listen address of the HTTP server
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	loadEnv(envPath, service)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		v.AddConfigPath("config/")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds every key so env vars are picked up when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		// Ethereum
		"ethereum.rpc_url",
		"ethereum.registry_address",
		"ethereum.abi.registry",
		"ethereum.abi.collection",
		"ethereum.abi.booster",
		// Catalog
		"catalog.api_url",
		"catalog.api_key",
		"catalog.set_id",
		"catalog.page_size",
		"catalog.http_timeout",
		// Reconciler
		"reconciler.interval",
		"reconciler.card_ownership_mode",
		"reconciler.worker.pool_size",
		"reconciler.worker.queue_size",
		// NATS
		"nats.url",
		"nats.subject_prefix",
		"nats.connection_name",
		"nats.max_reconnects",
		"nats.reconnect_wait",
		"shutdown_timeout",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the env directory
func loadEnv(envPath string, service string) {
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		_ = godotenv.Overload(filepath.Join(envPath, envFile)) // later files override earlier ones
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}
