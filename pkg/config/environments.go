package config

import (
	"os"
	"strconv"
)

func loadDevelopmentConfig(cfg *Config) {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err == nil {
		cfg.ServerPort = port
	}

	cfg.Environment = "development"
	cfg.ServerHost = "127.0.0.1"
}

func loadTestConfig(cfg *Config) {
	cfg.Environment = "test"
	cfg.ServerHost = "127.0.0.1"
	cfg.ServerPort = 0
}

func loadProductionConfig(cfg *Config) {
	cfg.Environment = "production"
}
