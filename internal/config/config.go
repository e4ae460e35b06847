package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	DBDSN     string
	MediaDir  string
	LogFile   string
	AdminUser string
	AdminPass string
}

func Load() Config {
	// Optional .env for local development; env vars win.
	_ = godotenv.Load()

	cfg := Config{
		Port:      getenv("PORT", "8080"),
		DBDSN:     getenv("DB_DSN", "mercadito.db"), // sqlite file in project root
		MediaDir:  getenv("MEDIA_DIR", "./web/media"),
		LogFile:   getenv("LOG_FILE", "./mercadito.log"),
		AdminUser: getenv("ADMIN_USER", "admin"),
		AdminPass: os.Getenv("ADMIN_PASS"), // no default: bootstrap skipped if unset
	}
	log.Printf("[config] PORT=%s DB_DSN=%s MEDIA_DIR=%s LOG_FILE=%s ADMIN_USER=%s",
		cfg.Port, cfg.DBDSN, cfg.MediaDir, cfg.LogFile, cfg.AdminUser)
	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
