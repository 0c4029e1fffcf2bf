package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/shopspring/decimal"
)

const configPathEnv = "WALLET_CONFIG_PATH"

type WalletConfig struct {
	Env           string `yaml:"env" env:"WALLET_ENV" env-default:"local"`
	HTTPServer    `yaml:"http_server"`
	GRPCServer    `yaml:"grpc_server"`
	WalletDB      `yaml:"wallet_db"`
	LogConfig     `yaml:"log_config"`
	KafkaService  `yaml:"kafka-service"`
	RateGateway   `yaml:"rate_gateway"`
	Settlement    `yaml:"settlement"`
	Pool          `yaml:"pool"`
	MoneyChangers []MoneyChanger `yaml:"money_changers"`
}

type HTTPServer struct {
	Host         string        `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port         string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env-default:"10s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env-default:"30s"`
}

type GRPCServer struct {
	Host string `yaml:"host" env:"GRPC_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"GRPC_PORT" env-default:"50061"`
}

type WalletDB struct {
	// Driver is "postgres" or "memory".
	Driver         string `yaml:"driver" env:"WALLET_DB_DRIVER" env-default:"postgres"`
	Dsn            string `yaml:"dsn" env:"WALLET_DB_DSN"`
	MigrationsPath string `yaml:"migrations_path" env:"WALLET_MIGRATIONS_PATH" env-default:"migrations"`
	AutoMigrate    bool   `yaml:"auto_migrate" env-default:"true"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT" env-default:"text"`
	LogOutput string `yaml:"log_output" env:"LOG_OUTPUT" env-default:"stdout"`
}

type KafkaService struct {
	Enabled bool   `yaml:"enabled" env:"KAFKA_ENABLED" env-default:"false"`
	Host    string `yaml:"host" env:"KAFKA_HOST" env-default:"localhost"`
	Port    string `yaml:"port" env:"KAFKA_PORT" env-default:"9092"`
	Topic   string `yaml:"topic" env-default:"wallet-transactions"`
}

type RateGateway struct {
	Provider      string        `yaml:"provider" env-default:"freecurrencyapi"`
	BaseURL       string        `yaml:"base_url" env:"CURRENCY_API_URL" env-default:"https://api.freecurrencyapi.com/v1"`
	APIKey        string        `yaml:"api_key" env:"CURRENCY_API_KEY"`
	Timeout       time.Duration `yaml:"timeout" env-default:"5s"`
	MaxRetries    int           `yaml:"max_retries" env-default:"2"`
	RetryBackoff  time.Duration `yaml:"retry_backoff" env-default:"200ms"`
	RateTTL       time.Duration `yaml:"rate_ttl" env-default:"10s"`
	RateCacheSize int           `yaml:"rate_cache_size" env-default:"256"`
	CurrencyTTL   time.Duration `yaml:"currency_ttl" env-default:"1h"`
	Redis         RedisCache    `yaml:"redis"`
}

type RedisCache struct {
	Enabled  bool   `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env-default:"0"`
}

type Settlement struct {
	HomeCurrency      string        `yaml:"home_currency" env:"HOME_CURRENCY" env-default:"INR"`
	AmountScale       int32         `yaml:"amount_scale" env-default:"2"`
	StarterCurrencies []string      `yaml:"starter_currencies" env-default:"USD,EUR,GBP,INR"`
	CompensateTimeout time.Duration `yaml:"compensate_timeout" env-default:"10s"`
}

type Pool struct {
	// Reserve is the starting amount per currency used by pool init.
	Reserve map[string]float64 `yaml:"reserve"`
}

type MoneyChanger struct {
	ID                  string            `yaml:"id"`
	Name                string            `yaml:"name"`
	Location            string            `yaml:"location"`
	Rating              float64           `yaml:"rating"`
	MarkupPercent       float64           `yaml:"markup_percent"`
	OperatingHours      map[string]string `yaml:"operating_hours"`
	SupportedCurrencies []string          `yaml:"supported_currencies"`
}

// ReserveDecimals converts the configured pool reserve to exact amounts.
func (p Pool) ReserveDecimals() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(p.Reserve))
	for currency, amount := range p.Reserve {
		out[currency] = decimal.NewFromFloat(amount)
	}
	return out
}

func Load(configPath string) (*WalletConfig, error) {
	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	var cfg WalletConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if cfg.WalletDB.Driver != "postgres" && cfg.WalletDB.Driver != "memory" {
		return nil, fmt.Errorf("unknown wallet_db.driver %q", cfg.WalletDB.Driver)
	}
	if cfg.WalletDB.Driver == "postgres" && cfg.WalletDB.Dsn == "" {
		return nil, fmt.Errorf("wallet_db.dsn is required for the postgres driver")
	}

	return &cfg, nil
}

func MustLoad() *WalletConfig {
	// Processing env config variable and file
	configPath := os.Getenv(configPathEnv)
	if configPath == "" {
		log.Fatalf("%s was not found\n", configPathEnv)
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	return cfg
}
