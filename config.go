package main

import (
	"log"
	"os"
)

type Config struct {
	Addr          string
	DatabaseURL   string
	SecretKey     []byte
	SecureCookies bool
}

// loadConfig reads configuration from the environment. Every value has
// a development default so the server runs with no setup at all.
func loadConfig() Config {
	cfg := Config{
		Addr:        envOr("ADDR", ":8080"),
		DatabaseURL: envOr("DATABASE_URL", "blog.db"),
	}

	secret := os.Getenv("SECRET_KEY")
	if secret == "" {
		log.Println("WARNING: SECRET_KEY not set, using default development key")
		secret = "insecure-dev-secret"
	}
	cfg.SecretKey = []byte(secret)

	cfg.SecureCookies = os.Getenv("SECURE_COOKIES") == "true"

	return cfg
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
