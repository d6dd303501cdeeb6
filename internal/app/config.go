package app

import (
	"time"

	"github.com/clientdesk/clientdesk-backend/internal/pkg/env"
	"github.com/clientdesk/clientdesk-backend/internal/pkg/logger"
)

type Config struct {
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	DocumentFillURL    string
	DocumentFillBearer string

	DocumentExtractURL    string
	DocumentExtractBearer string

	Port string
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := env.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := env.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTLSeconds := env.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	return Config{
		JWTSecretKey:    jwtSecretKey,
		AccessTokenTTL:  time.Duration(accessTokenTTLSeconds) * time.Second,
		RefreshTokenTTL: time.Duration(refreshTokenTTLSeconds) * time.Second,

		DocumentFillURL:    env.GetEnv("DOCUMENT_FILL_URL", "", log),
		DocumentFillBearer: env.GetEnv("DOCUMENT_FILL_BEARER", "", log),

		DocumentExtractURL:    env.GetEnv("DOCUMENT_EXTRACT_URL", "", log),
		DocumentExtractBearer: env.GetEnv("DOCUMENT_EXTRACT_BEARER", "", log),

		Port: env.GetEnv("PORT", "8080", log),
	}
}
