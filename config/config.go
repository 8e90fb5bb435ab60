package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Log       LogConfig       `mapstructure:"log"`
	Ledger    LedgerConfig    `mapstructure:"ledger"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	// LockTimeout bounds how long an action waits for a locked descriptor or
	// balance row before failing.
	LockTimeout time.Duration `mapstructure:"lock_timeout"`
}

// DSN returns the PostgreSQL connection URL. Credentials are escaped.
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + d.DBName,
		RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
	}
	return u.String()
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r RedisConfig) Addr() string {
	return net.JoinHostPort(r.Host, strconv.Itoa(r.Port))
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// LedgerConfig describes the identity of the ledger contract.
type LedgerConfig struct {
	// ContractAccount is the registry owner; only it may create assets or register accounts.
	ContractAccount string `mapstructure:"contract_account"`
}

// SchedulerConfig tunes the settlement worker that runs deferred transfers.
type SchedulerConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
	BatchSize    int           `mapstructure:"batch_size"`
	MaxPerSecond float64       `mapstructure:"max_per_second"`
	MaxDelay     time.Duration `mapstructure:"max_delay"`
	// Lease is how long a claimed action is hidden before another worker may
	// take it over.
	Lease time.Duration `mapstructure:"lease"`
}

type TelemetryConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint"` // empty = tracing disabled
	ServiceName  string `mapstructure:"service_name"`
}

// minSecretLen is the shortest HS256 key accepted for signing tokens.
const minSecretLen = 32

var defaults = map[string]interface{}{
	"server.host":                "0.0.0.0",
	"server.port":                8080,
	"server.mode":                "debug",
	"database.host":              "localhost",
	"database.port":              5432,
	"database.user":              "postgres",
	"database.password":          "postgres",
	"database.dbname":            "asset_exchange",
	"database.sslmode":           "disable",
	"database.max_conns":         20,
	"database.min_conns":         5,
	"database.conn_max_lifetime": "30m",
	"database.lock_timeout":      "5s",
	"redis.host":                 "localhost",
	"redis.port":                 6379,
	"redis.password":             "",
	"redis.db":                   0,
	"jwt.secret":                 "",
	"jwt.expiry":                 "24h",
	"jwt.issuer":                 "asset-exchange",
	"log.level":                  "info",
	"log.pretty":                 false,
	"ledger.contract_account":    "assetex",
	"scheduler.poll_interval":    "1s",
	"scheduler.batch_size":       50,
	"scheduler.max_per_second":   200,
	"scheduler.max_delay":        "2160h", // 90 days
	"scheduler.lease":            "5m",
	"telemetry.otlp_endpoint":    "",
	"telemetry.service_name":     "asset-exchange",
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: AXL_ (Asset eXchange Ledger).
// Nested keys use underscore: AXL_DATABASE_HOST, AXL_LEDGER_CONTRACT_ACCOUNT, etc.
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("AXL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// a missing file is fine; env vars can carry everything
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// Validate reports every setting that would stop the ledger from serving
// correctly. It is separate from Load so tools can inspect partial configs.
func (c *Config) Validate() error {
	var errs []error
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("server.mode %q: want debug, release or test", c.Server.Mode))
	}
	if len(c.JWT.Secret) < minSecretLen {
		errs = append(errs, fmt.Errorf("jwt.secret: must be at least %d bytes", minSecretLen))
	}
	if c.JWT.Expiry <= 0 {
		errs = append(errs, errors.New("jwt.expiry: must be positive"))
	}
	if c.Database.MinConns > c.Database.MaxConns {
		errs = append(errs, fmt.Errorf("database.min_conns %d exceeds max_conns %d", c.Database.MinConns, c.Database.MaxConns))
	}
	if c.Database.LockTimeout < 0 {
		errs = append(errs, errors.New("database.lock_timeout: must not be negative"))
	}
	if c.Ledger.ContractAccount == "" {
		errs = append(errs, errors.New("ledger.contract_account: required"))
	}
	if c.Scheduler.PollInterval <= 0 || c.Scheduler.BatchSize <= 0 {
		errs = append(errs, errors.New("scheduler: poll_interval and batch_size must be positive"))
	}
	if c.Scheduler.MaxDelay <= 0 {
		errs = append(errs, errors.New("scheduler.max_delay: must be positive"))
	}
	if c.Scheduler.Lease < time.Minute {
		errs = append(errs, errors.New("scheduler.lease: must be at least 1m"))
	}
	return errors.Join(errs...)
}
