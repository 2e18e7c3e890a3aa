package config

import "time"

const devJWTSecret = "intake-development-secret-change-me-in-production"

type JWTConfig struct {
	SecretKey      string
	Issuer         string
	Audience       []string
	AccessTokenTTL time.Duration
}

type AuthConfig struct {
	JWT JWTConfig
}

func loadAuthConfig() AuthConfig {
	return AuthConfig{
		JWT: JWTConfig{
			SecretKey:      getEnv("JWT_SECRET_KEY", ""),
			Issuer:         getEnv("JWT_ISSUER", "intake"),
			Audience:       getEnvStringSlice("JWT_AUDIENCE", []string{"intake-api"}),
			AccessTokenTTL: getEnvDuration("JWT_ACCESS_TOKEN_TTL", 15*time.Minute),
		},
	}
}
