package mongostore

import (
	"os"

	"gopkg.in/yaml.v3"
)

// MongoConfig holds connection settings for the Mongo document store.
type MongoConfig struct {
	Host       string `yaml:"host"`
	DBName     string `yaml:"dbname"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	AuthSource string `yaml:"authSource"`
}

// Config is the top-level yaml config file shape.
type Config struct {
	Mongo MongoConfig `yaml:"mongo"`
}

// LoadConfig reads a yaml config file from path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
