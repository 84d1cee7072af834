package config

const (
	EnvPrefix = "CHATSHOP"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	EnvAppEnv        = "CHATSHOP_APP_ENV"
	EnvPort          = "CHATSHOP_APP_PORT"
	EnvDBDSN         = "CHATSHOP_DB_DSN"
	EnvDBDriver      = "CHATSHOP_DB_DRIVER"
	EnvDBHost        = "CHATSHOP_DB_HOST"
	EnvDBUser        = "CHATSHOP_DB_USER"
	EnvDBName        = "CHATSHOP_DB_NAME"
	EnvRedisURL      = "CHATSHOP_REDIS_URL"
	EnvTelegramToken = "CHATSHOP_TELEGRAM_TOKEN"
	EnvAdminIDs      = "CHATSHOP_ADMIN_IDS"
	EnvCardNumber    = "CHATSHOP_CARD_NUMBER"
	EnvSessionTTL    = "CHATSHOP_SESSION_TTL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
