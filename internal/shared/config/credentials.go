package config

import (
	"encoding/json"
	"log"
	"os"
	"strings"
)

// ServiceAccount holds the credential material loaded from a
// service-account JSON file.
type ServiceAccount struct {
	ProjectID   string `json:"project_id"`
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
}

var defaultServiceAccountPaths = []string{
	"./service-account.json",
	"./config/service-account.json",
}

// LoadServiceAccount reads the first readable service-account file,
// checking the configured path and then the conventional locations.
// A nil return means no file was found; callers fall back to ambient
// credentials rather than failing startup.
func LoadServiceAccount(configuredPath string) *ServiceAccount {
	paths := defaultServiceAccountPaths
	if trimmed := strings.TrimSpace(configuredPath); trimmed != "" {
		paths = append([]string{trimmed}, paths...)
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var sa ServiceAccount
		if err := json.Unmarshal(data, &sa); err != nil {
			log.Printf("failed to parse service account at %s: %v", path, err)
			continue
		}
		log.Printf("loaded service account from %s", path)
		return &sa
	}
	return nil
}
