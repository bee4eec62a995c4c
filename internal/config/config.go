package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Server struct {
		Port string
		Host string
		TLS  struct {
			Enabled  bool
			CertFile string
			KeyFile  string
		}
		Debug bool
	}
	Auth struct {
		TokenSecret string
	}
	Database struct {
		DSN string
	}
	SeedSampleData bool
}

func Load() (*Config, error) {
	envStack := os.Getenv("ENV_STACK")

	if envStack != "" {
		filePath := "./env-files/.env." + envStack
		err := godotenv.Load(filePath)
		if err != nil {
			fmt.Printf("Error loading .env file: %s\n", err)
		}
	}

	c := &Config{}

	c.Server.Port = os.Getenv("SERVER_PORT")
	if c.Server.Port == "" {
		c.Server.Port = "5000"
	}

	c.Server.Host = os.Getenv("SERVER_HOST")
	if c.Server.Host == "" {
		c.Server.Host = "localhost"
	}

	c.Server.Debug = os.Getenv("ENABLE_DEBUG_ENDPOINTS") == "true"

	useTLS := os.Getenv("USE_TLS")
	c.Server.TLS.Enabled = useTLS == "true" || useTLS == "1"
	c.Server.TLS.CertFile = "./certs/localhost.pem"
	c.Server.TLS.KeyFile = "./certs/localhost-key.pem"

	c.Auth.TokenSecret = os.Getenv("TOKEN_SECRET")
	if c.Auth.TokenSecret == "" {
		return c, fmt.Errorf("TOKEN_SECRET environment variable is required")
	}

	c.Database.DSN = os.Getenv("DATABASE_DSN")
	if c.Database.DSN == "" {
		return c, fmt.Errorf("DATABASE_DSN environment variable is required")
	}

	c.SeedSampleData = os.Getenv("SEED_SAMPLE_DATA") == "true"

	return c, nil
}
