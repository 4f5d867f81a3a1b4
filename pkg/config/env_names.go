package config

// EnvPrefix is passed to envconfig; individual fields carry fully-qualified
// names so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvDBDSN  = "AGKMART_DB_DSN"
	EnvDBHost = "AGKMART_DB_HOST"
	EnvDBUser = "AGKMART_DB_USER"
	EnvDBName = "AGKMART_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
