package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/tidwall/jsonc"

	"moltbook/internal/cli/clierr"
)

const (
	DefaultBaseURL = "https://www.moltbook.com/api/v1"

	EnvAPIKey    = "MOLTBOOK_API_KEY"
	EnvAgentName = "MOLTBOOK_AGENT_NAME"
	EnvConfigDir = "MOLTBOOK_CONFIG_DIR"
	EnvAPIURL    = "MOLTBOOK_API_URL"

	fileName = "credentials.json"
)

type Credentials struct {
	APIKey    string `json:"api_key"`
	AgentName string `json:"agent_name"`
}

func Path() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(EnvConfigDir)); dir != "" {
		return filepath.Join(dir, fileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", clierr.Wrap(clierr.KindIO, err, "locate home directory")
	}
	return filepath.Join(home, ".config", "moltbook", fileName), nil
}

func Load() (*Credentials, error) {
	p, err := Path()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, clierr.ConfigMissing("no credentials at %s; run `moltbook init` or `moltbook register`", p)
		}
		return nil, clierr.Wrap(clierr.KindIO, err, "read credentials")
	}
	var c Credentials
	if err := json.Unmarshal(jsonc.ToJSON(b), &c); err != nil {
		return nil, clierr.ConfigCorrupt("parse %s: %v", p, err)
	}
	c.APIKey = strings.TrimSpace(c.APIKey)
	c.AgentName = strings.TrimSpace(c.AgentName)
	if c.APIKey == "" {
		return nil, clierr.ConfigCorrupt("%s has no api_key", p)
	}
	return &c, nil
}

// Save overwrites the credentials file and leaves it readable by the owner only.
func Save(c *Credentials) error {
	p, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return clierr.Wrap(clierr.KindIO, err, "create config directory")
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return clierr.Wrap(clierr.KindIO, err, "encode credentials")
	}
	if err := os.WriteFile(p, append(b, '\n'), 0o600); err != nil {
		return clierr.Wrap(clierr.KindIO, err, "write credentials")
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(p, 0o600); err != nil {
		return clierr.Wrap(clierr.KindIO, err, "restrict credentials permissions")
	}
	return nil
}

// Resolve returns the credentials for this invocation. MOLTBOOK_API_KEY takes
// precedence over the file; without it Resolve is Load.
func Resolve() (*Credentials, error) {
	key := strings.TrimSpace(os.Getenv(EnvAPIKey))
	if key == "" {
		return Load()
	}
	c := &Credentials{APIKey: key, AgentName: strings.TrimSpace(os.Getenv(EnvAgentName))}
	if c.AgentName == "" {
		if stored, err := Load(); err == nil {
			c.AgentName = stored.AgentName
		}
	}
	return c, nil
}

// LoadDotenv reads .env from the working directory if present. Variables that
// are already set are left alone.
func LoadDotenv() {
	_ = godotenv.Load()
}

func BaseURL() string {
	if u := strings.TrimSpace(os.Getenv(EnvAPIURL)); u != "" {
		return strings.TrimRight(u, "/")
	}
	return DefaultBaseURL
}
