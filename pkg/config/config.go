package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	Telegram     TelegramConfig
	Shop         ShopConfig
	Session      SessionConfig
	Orders       OrdersConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CHATSHOP_APP_ENV" required:"true"`
	Port         string `envconfig:"CHATSHOP_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"CHATSHOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CHATSHOP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CHATSHOP_DB_DSN"`
	Driver string `envconfig:"CHATSHOP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CHATSHOP_DB_HOST"`
	LegacyPort     int    `envconfig:"CHATSHOP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CHATSHOP_DB_USER"`
	LegacyPassword string `envconfig:"CHATSHOP_DB_PASSWORD"`
	LegacyName     string `envconfig:"CHATSHOP_DB_NAME"`
	LegacySSLMode  string `envconfig:"CHATSHOP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CHATSHOP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CHATSHOP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CHATSHOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CHATSHOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the configured driver is the embedded sqlite driver.
func (db DBConfig) IsSQLite() bool {
	switch strings.ToLower(strings.TrimSpace(db.Driver)) {
	case DriverSQLite, "sqlite3":
		return true
	}
	return false
}

type RedisConfig struct {
	URL          string        `envconfig:"CHATSHOP_REDIS_URL"`
	Address      string        `envconfig:"CHATSHOP_REDIS_ADDR"`
	Password     string        `envconfig:"CHATSHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"CHATSHOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CHATSHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CHATSHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CHATSHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CHATSHOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CHATSHOP_REDIS_WRITE_TIMEOUT" default:"5s"`
	UpdateTTL    time.Duration `envconfig:"CHATSHOP_REDIS_UPDATE_TTL" default:"24h"`
}

// Enabled reports whether a redis endpoint was configured. Without one the
// bot keeps sessions in process memory and skips update de-duplication.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CHATSHOP_AUTO_MIGRATE" default:"false"`
}

type TelegramConfig struct {
	Token         string        `envconfig:"CHATSHOP_TELEGRAM_TOKEN" required:"true"`
	APIBaseURL    string        `envconfig:"CHATSHOP_TELEGRAM_API_URL" default:"https://api.telegram.org"`
	WebhookURL    string        `envconfig:"CHATSHOP_TELEGRAM_WEBHOOK_URL"`
	WebhookSecret string        `envconfig:"CHATSHOP_TELEGRAM_WEBHOOK_SECRET"`
	PollTimeout   time.Duration `envconfig:"CHATSHOP_TELEGRAM_POLL_TIMEOUT" default:"30s"`
	HTTPTimeout   time.Duration `envconfig:"CHATSHOP_TELEGRAM_HTTP_TIMEOUT" default:"45s"`
}

// ValidateWebhook checks what the webhook server needs beyond the bot
// token. Telegram echoes the secret on every call, so it is mandatory.
func (t TelegramConfig) ValidateWebhook() error {
	if strings.TrimSpace(t.WebhookSecret) == "" {
		return fmt.Errorf("CHATSHOP_TELEGRAM_WEBHOOK_SECRET is required in webhook mode")
	}
	return nil
}

type ShopConfig struct {
	AdminIDsRaw    string `envconfig:"CHATSHOP_ADMIN_IDS"`
	CardNumber     string `envconfig:"CHATSHOP_CARD_NUMBER" default:"Card number not configured"`
	PageSize       int    `envconfig:"CHATSHOP_PAGE_SIZE" default:"6"`
	DefaultAddress string `envconfig:"CHATSHOP_DEFAULT_ADDRESS" default:"Address not set"`
}

// AdminIDs parses the comma separated admin list. Entries that are not plain
// decimal ids are skipped rather than failing startup.
func (s ShopConfig) AdminIDs() []int64 {
	var ids []int64
	for _, part := range strings.Split(s.AdminIDsRaw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

type SessionConfig struct {
	TTL time.Duration `envconfig:"CHATSHOP_SESSION_TTL" default:"0s"`
}

type OrdersConfig struct {
	IDDigits  int   `envconfig:"CHATSHOP_ORDER_ID_DIGITS" default:"8"`
	NodeID    int64 `envconfig:"CHATSHOP_ORDER_NODE_ID" default:"1"`
	ListLimit int   `envconfig:"CHATSHOP_ORDER_LIST_LIMIT" default:"20"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		return fmt.Errorf("%s is required for the sqlite driver", EnvDBDSN)
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
