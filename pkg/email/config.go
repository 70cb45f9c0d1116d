package email

import (
	"time"

	"github.com/Alijeyrad/gymdesk_backend/config"
)

// Config holds email service configuration
type Config struct {
	Enabled bool
	From    string

	SMTPHost           string
	SMTPPort           int
	SMTPUsername       string
	SMTPPassword       string
	SMTPUseTLS         bool
	SMTPTimeoutSeconds int

	// Used in message templates.
	GymName  string
	Currency string
}

// SMTPTimeout returns the SMTP timeout as a duration
func (c Config) SMTPTimeout() time.Duration {
	if c.SMTPTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.SMTPTimeoutSeconds) * time.Second
}

// FromCentralConfig converts central config to package Config
func FromCentralConfig(c *config.Config) Config {
	return Config{
		Enabled:            c.Email.Enabled,
		From:               c.Email.From,
		SMTPHost:           c.Email.SMTP.Host,
		SMTPPort:           c.Email.SMTP.Port,
		SMTPUsername:       c.Email.SMTP.Username,
		SMTPPassword:       c.Email.SMTP.Password,
		SMTPUseTLS:         c.Email.SMTP.UseTLS,
		SMTPTimeoutSeconds: c.Email.SMTP.TimeoutSeconds,
		GymName:            c.Gym.Name,
		Currency:           c.Gym.Currency,
	}
}
