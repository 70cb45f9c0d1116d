package constants

const (
	ConfigName   = "config"
	ConfigFormat = "yaml"

	// EnvPrefix is prepended to every environment override, e.g. GYMDESK_DATABASE_HOST.
	EnvPrefix = "GYMDESK"

	ServiceName = "gymdesk_backend"
)
