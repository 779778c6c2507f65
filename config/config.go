package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DB       DBConfig
	Telegram TelegramConfig
	Server   ServerConfig
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

type TelegramConfig struct {
	Token     string
	ChannelID int64 // staff channel receiving confirmed orders
	SAdmin    int64 // super admin telegram id, always role sadmin
	WebAppURL string
}

type ServerConfig struct {
	Addr string // web app API listen address, empty disables the server
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	channelID, _ := strconv.ParseInt(getEnv("CHANNEL_ID", "0"), 10, 64)
	sadmin, _ := strconv.ParseInt(getEnv("SADMIN", "0"), 10, 64)

	return &Config{
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     port,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "shop"),
		},
		Telegram: TelegramConfig{
			Token:     getEnv("TOKEN", ""),
			ChannelID: channelID,
			SAdmin:    sadmin,
			WebAppURL: getEnv("URL", ""),
		},
		Server: ServerConfig{
			Addr: getEnv("ADDR", ":8080"),
		},
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
