package config

import (
	"os"
	"strings"
)

type Env struct {
	AppAddr string
	GinMode string

	DBDSN string

	JWTSecret string

	PaymentBaseURL string
	PaymentAPIKey  string
	CEPBaseURL     string
	RegistryURL    string
	RegistryAPIKey string

	MigrationsDir string
}

func LoadEnv() Env {
	get := func(key, def string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return def
		}
		return v
	}

	return Env{
		AppAddr: get("APP_ADDR", ":8080"),
		GinMode: strings.TrimSpace(os.Getenv("GIN_MODE")),

		DBDSN: get("DB_DSN",
			"root:@tcp(127.0.0.1:3306)/rental_app?parseTime=true&loc=Local&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s&multiStatements=true"),

		JWTSecret: get("JWT_SECRET", "super-secret-key-change-me"),

		PaymentBaseURL: get("PAYMENT_BASE_URL", "https://psp.example.com"),
		PaymentAPIKey:  strings.TrimSpace(os.Getenv("PAYMENT_API_KEY")),
		CEPBaseURL:     get("CEP_BASE_URL", "https://viacep.com.br"),
		RegistryURL:    get("REGISTRY_BASE_URL", "https://registry.example.com"),
		RegistryAPIKey: strings.TrimSpace(os.Getenv("REGISTRY_API_KEY")),

		MigrationsDir: get("MIGRATIONS_DIR", "migrations"),
	}
}
