package config

const (
	// EnvPrefix is the envconfig prefix every variable shares.
	EnvPrefix = "SKINROUTINE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "SKINROUTINE_DB_DSN"
	EnvDBHost = "SKINROUTINE_DB_HOST"
	EnvDBUser = "SKINROUTINE_DB_USER"
	EnvDBName = "SKINROUTINE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
