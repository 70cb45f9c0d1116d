package authorize

import "github.com/Alijeyrad/gymdesk_backend/config"

// Config holds configuration for the authorization system
type Config struct {
	// CasbinModelPath points at the model file; ModelText is used when empty.
	CasbinModelPath string

	EnableAudit      bool
	SuperadminBypass bool

	// PolicySyncEnabled turns on the Postgres LISTEN/NOTIFY watcher so
	// policy edits reach every instance.
	PolicySyncEnabled  bool
	HealthCheckEnabled bool
}

// FromCentralConfig converts central config.AuthorizationConfig to package Config
func FromCentralConfig(c config.AuthorizationConfig) Config {
	return Config{
		CasbinModelPath:    c.CasbinModelPath,
		EnableAudit:        c.EnableAudit,
		SuperadminBypass:   c.SuperadminBypass,
		PolicySyncEnabled:  c.PolicySyncEnabled,
		HealthCheckEnabled: c.HealthCheckEnabled,
	}
}
