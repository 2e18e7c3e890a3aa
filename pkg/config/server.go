package config

import "time"

type ServerConfig struct {
	Port            int
	LogLevel        string
	CORSOrigins     []string
	BodyLimit       int
	ShutdownTimeout time.Duration
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:            getEnvInt("SERVER_PORT", 8080),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		CORSOrigins:     getEnvStringSlice("CORS_ORIGINS", []string{"http://localhost:3000"}),
		BodyLimit:       getEnvInt("BODY_LIMIT_BYTES", 4*1024*1024),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}
