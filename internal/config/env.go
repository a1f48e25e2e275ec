// Package config reads process configuration from SPRINTWISE_* variables.
package config

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	"github.com/alexanderramin/sprintwise/internal/llm"
	"github.com/kelseyhightower/envconfig"
)

// AppEnv tags are full variable names so bare USER, EMAIL or DB from the
// shell are never read.
type AppEnv struct {
	DBPath   string `envconfig:"SPRINTWISE_DB"`
	User     string `envconfig:"SPRINTWISE_USER"`
	Email    string `envconfig:"SPRINTWISE_EMAIL"`
	LogLevel string `envconfig:"SPRINTWISE_LOG_LEVEL" default:"info"`
	LogFile  string `envconfig:"SPRINTWISE_LOG_FILE"`
}

type Env struct {
	AppEnv
	LLM llm.Config
}

// LoadEnv reads the application and model gateway settings. Unset paths
// default to ~/.sprintwise and the user defaults to the OS account name.
func LoadEnv() (*Env, error) {
	var app AppEnv
	if err := envconfig.Process("", &app); err != nil {
		return nil, fmt.Errorf("failed to load env: %w", err)
	}

	if app.DBPath == "" {
		dir, err := dataDir()
		if err != nil {
			return nil, err
		}
		app.DBPath = filepath.Join(dir, "sprintwise.db")
	}
	if app.User == "" {
		app.User = osUserName()
	}

	llmCfg, err := llm.LoadConfig()
	if err != nil {
		return nil, err
	}
	return &Env{AppEnv: app, LLM: llmCfg}, nil
}

// DefaultLogFile is where the interactive wizard logs when no file is
// configured, keeping stderr free for the terminal UI.
func DefaultLogFile() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "logs", "sprintwise.log"), nil
}

func dataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".sprintwise"), nil
}

func osUserName() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "local"
}
