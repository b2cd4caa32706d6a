package quizcraft

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// DefaultSecretsFile is the secrets file consulted before the environment.
const DefaultSecretsFile = "secrets.json"

// APIKeyEnvVar is the environment variable holding the OpenAI API key.
const APIKeyEnvVar = "OPENAI_API_KEY"

// ResolveAPIKey loads the API key with the documented precedence: the secrets
// file first, then the environment. A missing or unreadable secrets file is
// not an error; a present file with no usable key falls through to the
// environment. Returns ErrMissingAPIKey when neither source has a key.
//
// Interactive entry is the caller's fallback: the CLI prompts on stdin, the
// web server refuses to start.
func ResolveAPIKey(secretsPath string) (string, error) {
	if secretsPath == "" {
		secretsPath = DefaultSecretsFile
	}

	if key := readSecretsFile(secretsPath); key != "" {
		VerboseLog("API key loaded from %s", secretsPath)
		return key, nil
	}

	if key := strings.TrimSpace(os.Getenv(APIKeyEnvVar)); key != "" {
		VerboseLog("API key loaded from %s", APIKeyEnvVar)
		return key, nil
	}

	return "", ErrMissingAPIKey
}

func readSecretsFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}

	var secrets struct {
		OpenAIKey string `json:"openai_key"`
	}
	if err := json.Unmarshal(data, &secrets); err != nil {
		VerboseLog("Ignoring malformed secrets file %s: %v", path, err)
		return ""
	}
	return strings.TrimSpace(secrets.OpenAIKey)
}

// MissingKeyMessage is the instructional text shown when no API key could be
// resolved.
func MissingKeyMessage(secretsPath string) string {
	if secretsPath == "" {
		secretsPath = DefaultSecretsFile
	}
	return fmt.Sprintf(
		"An OpenAI API key is required. Put it in %s as {\"openai_key\": \"...\"}, set %s, or enter it when prompted.",
		secretsPath, APIKeyEnvVar,
	)
}
