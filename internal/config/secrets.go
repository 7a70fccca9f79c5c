package config

import (
	"fmt"
	"os"
	"strings"
)

// secretsDir is the standard Docker secrets mount point. Overridable in
// tests and local development via SECRETS_DIR.
func secretsDir() string {
	if dir := os.Getenv("SECRETS_DIR"); dir != "" {
		return dir
	}
	return "/run/secrets"
}

// ReadSecret reads a secret from its file. No env var fallback, so the
// behavior stays consistent across environments.
func ReadSecret(secretName string) (string, error) {
	filePath := fmt.Sprintf("%s/%s", secretsDir(), secretName)
	secretBytes, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read secret file %s: %w", filePath, err)
	}
	secret := strings.TrimSpace(string(secretBytes))
	if secret == "" {
		return "", fmt.Errorf("secret file %s is empty", filePath)
	}
	return secret, nil
}
