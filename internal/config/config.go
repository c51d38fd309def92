package config

import (
	"os"
	"strings"
)

type Config struct {
	HTTPAddr string

	// HS256 secret for the local JWT service.
	AuthSecret string

	// Author login. The hash is bcrypt; the default is for local
	// development only, replace it in any real deployment.
	AuthorUser     string
	AuthorPassHash string

	CORSOrigins []string
}

func FromEnv() Config {
	return Config{
		HTTPAddr:       envOr("HTTP_ADDR", ":8080"),
		AuthSecret:     envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		AuthorUser:     envOr("AUTHOR_USER", "author"),
		AuthorPassHash: envOr("AUTHOR_PASS_HASH", "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"),
		CORSOrigins:    csvOr("CORS_ORIGINS", "http://localhost:3000"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
