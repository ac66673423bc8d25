package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Server ServerConfig
	DB     DBConfig
	CORS   CORSConfig
}

type DBConfig struct {
	PgUser     string `env:"PGUSER" envDefault:"postgres"`
	PgPassword string `env:"PGPASSWORD" envDefault:"postgres"`
	PgHost     string `env:"PGHOST" envDefault:"localhost"`
	PgPort     int    `env:"PGPORT" envDefault:"5432"`
	PgDatabase string `env:"PGDATABASE" envDefault:"idp"`
	PgSSLMode  string `env:"PGSSLMODE" envDefault:"disable"`
}

type ServerConfig struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:":8080"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173"`
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.PgUser, c.PgPassword, c.PgHost, c.PgPort, c.PgDatabase, c.PgSSLMode,
	)
}

func MustLoad() *Config {
	cfg := &Config{}

	// .env is optional; real deployments configure via the environment.
	_ = godotenv.Load(".env")

	if err := env.Parse(cfg); err != nil {
		panic(err)
	}

	return cfg
}
