package config

import "os"

// Environment variables. Secrets never live in config.yaml.
const (
	EnvConfigPath        = "DENUO_CONFIG"
	EnvStripeSecretKey   = "STRIPE_SECRET_KEY"
	EnvAdminEmail        = "ADMIN_EMAIL"
	EnvAdminPasswordHash = "ADMIN_PASSWORD_HASH"
	EnvSessionSigningKey = "SESSION_SIGNING_KEY"
	EnvClerkSecretKey    = "CLERK_SECRET_KEY"
	EnvAWSAccessKeyID    = "AWS_ACCESS_KEY_ID"
	EnvAWSSecretKey      = "AWS_SECRET_ACCESS_KEY"
	EnvRedisURL          = "REDIS_URL"
	EnvDatabaseURL       = "DATABASE_URL"
)

// Env returns the variable or fallback when unset.
func Env(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
