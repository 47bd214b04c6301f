package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"

	"github.com/DjordjeVuckovic/embed-service/pkg/config/env"
	"github.com/labstack/echo/v4/middleware"
)

const (
	DefaultHost      = "0.0.0.0"
	DefaultPort      = "8000"
	DefaultBodyLimit = "10M"
)

type Config struct {
	Host        string
	Port        string
	UseHttp2    bool
	CorsOrigins []string
	BodyLimit   string
}

func LoadConfig() (*Config, error) {
	err := env.LoadDotEnv(os.Getenv("ENV"), "cmd/embed_api/.env")
	if err != nil {
		slog.Info("Skipping .env ...", "error", err)
	}

	port := env.String(DefaultPort, "PORT")
	if err := validatePort(port); err != nil {
		return nil, fmt.Errorf("invalid port: %w", err)
	}

	origins := env.List("CORS_ORIGINS")
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	bodyLimit := env.String(DefaultBodyLimit, "REQUEST_BODY_LIMIT")
	if err := validateBodyLimit(bodyLimit); err != nil {
		return nil, fmt.Errorf("invalid REQUEST_BODY_LIMIT: %w", err)
	}

	return &Config{
		Host:        env.String(DefaultHost, "HOST"),
		Port:        port,
		UseHttp2:    env.Bool("USE_HTTP2"),
		CorsOrigins: origins,
		BodyLimit:   bodyLimit,
	}, nil
}

func (c *Config) Address() string {
	return net.JoinHostPort(c.Host, c.Port)
}

func validatePort(port string) error {
	portNum, err := strconv.Atoi(port)

	if err != nil {
		return errors.New("port must be a number")
	}

	if portNum < 1 || portNum > 65535 {
		return errors.New("port must be between 1 and 65535")
	}

	return nil
}

// validateBodyLimit rejects expressions echo's BodyLimit middleware would panic on.
func validateBodyLimit(limit string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%q is not a size like 10M or 512K", limit)
		}
	}()
	middleware.BodyLimit(limit)
	return nil
}
