package config

import (
	"log"
	"strconv"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Agenda (target site) configuration.
	AgendaURL      string `mapstructure:"AGENDA_URL"`
	AgendaUser     string `mapstructure:"AGENDA_USER"`
	AgendaPassword string `mapstructure:"AGENDA_PASSWORD"`
	Timezone       string `mapstructure:"TIMEZONE"`

	// Browser configuration. HeadlessOverride forces the browser mode when
	// set ("true"/"false"); empty defers to the environment rule.
	ChromeProfileDir string `mapstructure:"CHROME_PROFILE_DIR"`
	BrowserRemoteURL string `mapstructure:"BROWSER_REMOTE_URL"`
	HeadlessOverride string `mapstructure:"HEADLESS"`

	// Search policy.
	SearchWindowDays int `mapstructure:"SEARCH_WINDOW_DAYS"`

	// Redis configuration (dedup ledger).
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisLedgerDB int    `mapstructure:"REDIS_LEDGER_DB"`

	// Dedup ledger TTL policy.
	DedupTTLSeconds       int  `mapstructure:"DEDUP_TTL_SECONDS"`
	DedupTTLUntilMidnight bool `mapstructure:"DEDUP_TTL_UNTIL_MIDNIGHT"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("AGENDA_URL", "https://amor-saude.feegow.com/pre-v7.6/?P=AgendaMultipla&Pers=1")
	viper.SetDefault("TIMEZONE", "America/Sao_Paulo")
	viper.SetDefault("CHROME_PROFILE_DIR", "./chrome_profile_api")
	viper.SetDefault("BROWSER_REMOTE_URL", "")
	viper.SetDefault("HEADLESS", "")
	viper.SetDefault("SEARCH_WINDOW_DAYS", 30)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_LEDGER_DB", 0)
	viper.SetDefault("DEDUP_TTL_SECONDS", 86400)
	viper.SetDefault("DEDUP_TTL_UNTIL_MIDNIGHT", false)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// IsLocal reports whether the service is running on a developer machine. The
// browser is only torn down on shutdown in this mode; hosted deployments keep
// the authenticated browser session alive across restarts of the HTTP layer.
func IsLocal() bool {
	return GetEnv() == "local"
}

// Headless resolves the browser mode: an explicit HEADLESS setting wins,
// otherwise every non-local environment runs without a window.
func Headless() bool {
	if AppConfig.HeadlessOverride != "" {
		if forced, err := strconv.ParseBool(AppConfig.HeadlessOverride); err == nil {
			return forced
		}
		log.Printf("Ignoring invalid HEADLESS value %q", AppConfig.HeadlessOverride)
	}
	return !IsLocal()
}
