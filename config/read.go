package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Alijeyrad/gymdesk_backend/pkg/constants"
)

var GlobalConf *Config

func ReadConfig(configPath string) (*Config, error) {
	// A local .env is optional; real environment variables always win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	viper.SetConfigName(constants.ConfigName)
	viper.SetConfigType(constants.ConfigFormat)
	viper.AddConfigPath(configPath)

	setDefaults(viper.GetViper())

	// Allow env vars to override config values.
	// e.g. GYMDESK_DATABASE_HOST overrides database.host
	viper.SetEnvPrefix(constants.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read the config file (optional in Docker environments)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if os.Getenv(constants.EnvPrefix+"_DATABASE_HOST") == "" {
				return nil, fmt.Errorf("error reading config file: %v", err)
			}
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %v", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

func MustReadConfig(path string) *Config {
	config, err := ReadConfig(path)
	if err != nil {
		panic(err)
	}

	GlobalConf = config

	return config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.timeout_seconds", 30)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.databases", []string{"gymdesk", "gymdesk_casbin"})
	v.SetDefault("server.rate_limit.requests_per_minute", 120)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.dbname", "gymdesk")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("casbin_database.host", "localhost")
	v.SetDefault("casbin_database.port", 5432)
	v.SetDefault("casbin_database.dbname", "gymdesk_casbin")
	v.SetDefault("casbin_database.sslmode", "disable")

	v.SetDefault("redis.addr", "localhost:6379")

	v.SetDefault("authentication.session_ttl_minutes", 60*24*7)
	v.SetDefault("authentication.max_login_attempts", 5)
	v.SetDefault("authentication.lockout_minutes", 15)
	v.SetDefault("authentication.paseto.mode", "local")
	v.SetDefault("authentication.paseto.issuer", "gymdesk")
	v.SetDefault("authentication.paseto.audience", "gymdesk-backoffice")
	v.SetDefault("authentication.paseto.access_ttl_minutes", 30)
	v.SetDefault("authentication.paseto.refresh_ttl_days", 7)

	v.SetDefault("authorization.casbin_model_path", "casbin_model.conf")
	v.SetDefault("authorization.enable_audit", true)

	v.SetDefault("observability.service_name", constants.ServiceName)
	v.SetDefault("observability.metrics.path", "/metrics")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.output.stdout", true)

	v.SetDefault("nats.subject_prefix", "gymdesk")

	v.SetDefault("gym.currency", "EGP")
	v.SetDefault("gym.phone_region", "EG")
	v.SetDefault("gym.timezone", "Africa/Cairo")

	v.SetDefault("commission.sales_position", "ريسبشن")
	v.SetDefault("commission.top_sales_surcharge", 50)
	v.SetDefault("commission.top_achiever_base", 1000)
	v.SetDefault("commission.top_achiever_per_renewal", 50)
	v.SetDefault("commission.report_cache_ttl_seconds", 300)
	v.SetDefault("commission.dispatch_timeout_seconds", 15)
}
