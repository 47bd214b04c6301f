package es

import (
	"fmt"

	"github.com/DjordjeVuckovic/embed-service/pkg/config/env"
	"github.com/elastic/go-elasticsearch/v8"
)

const DefaultAddress = "http://localhost:9200"

type ClientConfig struct {
	Addresses []string
	IndexName string
	Username  string
	Password  string
}

// LoadClientConfigFromEnv reads ES_ADDRESSES, ES_USERNAME and ES_PASSWORD.
func LoadClientConfigFromEnv(indexName string) ClientConfig {
	addresses := env.List("ES_ADDRESSES")
	if len(addresses) == 0 {
		addresses = []string{DefaultAddress}
	}

	return ClientConfig{
		Addresses: addresses,
		IndexName: indexName,
		Username:  env.String("", "ES_USERNAME"),
		Password:  env.String("", "ES_PASSWORD"),
	}
}

func newClient(config ClientConfig) (*elasticsearch.TypedClient, error) {
	if len(config.Addresses) == 0 {
		return nil, fmt.Errorf("at least one elasticsearch address is required")
	}

	cfg := elasticsearch.Config{
		Addresses: config.Addresses,
	}

	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	client, err := elasticsearch.NewTypedClient(cfg)

	return client, err
}
