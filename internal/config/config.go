// Package config provides centralized configuration management for the application.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/danielolaszy/glissues/internal/apperr"
	"github.com/danielolaszy/glissues/internal/logging"
)

const (
	// DefaultConfigFile is read when no --config flag is given.
	DefaultConfigFile = "config.json"
	// DefaultEnvFile is loaded into the environment when present.
	DefaultEnvFile = ".env"
)

// Config holds all configuration parameters for the application.
type Config struct {
	GitLab GitLabConfig
}

// GitLabConfig holds GitLab specific configuration.
type GitLabConfig struct {
	URL        string
	Token      string
	ProjectID  string
	AuthMethod string
	PerPage    int
	Timeout    time.Duration
}

// LoadConfig reads configuration from the JSON file at configPath, with
// environment variables taking precedence. The env file at envPath, if it
// exists, is loaded into the environment first without overriding variables
// that are already set. A missing config file is tolerated so that the
// environment alone can configure the tool.
func LoadConfig(configPath, envPath string) (*Config, error) {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, apperr.Wrap(apperr.KindConfig, err, "failed to load env file %s", envPath)
			}
		} else {
			logging.Debug("loaded env file", "path", envPath)
		}
	}

	v := viper.New()

	v.SetDefault("gitlab_url", "https://gitlab.com")
	v.SetDefault("auth_method", "bearer")
	v.SetDefault("per_page", 100)

	// Map specific environment variables
	v.BindEnv("gitlab_token", "GITLAB_TOKEN")
	v.BindEnv("project_id", "GITLAB_PROJECT_ID")
	v.BindEnv("gitlab_url", "GITLAB_URL")
	v.BindEnv("auth_method", "GITLAB_AUTH_METHOD")
	v.BindEnv("per_page", "GITLAB_PER_PAGE")
	v.BindEnv("timeout", "GITLAB_TIMEOUT")

	fileFound := false
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, apperr.Wrap(apperr.KindConfig, err, "failed to read config file %s", configPath)
			}
			logging.Warn("config file not found, using environment only", "path", configPath)
		} else {
			fileFound = true
		}
	}

	config := &Config{
		GitLab: GitLabConfig{
			URL:        strings.TrimSpace(v.GetString("gitlab_url")),
			Token:      strings.TrimSpace(v.GetString("gitlab_token")),
			ProjectID:  strings.TrimSpace(v.GetString("project_id")),
			AuthMethod: strings.ToLower(strings.TrimSpace(v.GetString("auth_method"))),
			PerPage:    v.GetInt("per_page"),
		},
	}

	if raw := strings.TrimSpace(v.GetString("timeout")); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil || timeout < 0 {
			return nil, apperr.New(apperr.KindConfig, "invalid timeout %q, expected a duration such as 30s", raw)
		}
		config.GitLab.Timeout = timeout
	}

	if err := validateConfig(config); err != nil {
		if !fileFound && configPath != "" {
			return nil, fmt.Errorf("%w (config file %s not found)", err, configPath)
		}
		return nil, err
	}

	logging.Debug("configuration loaded",
		"gitlab_url", config.GitLab.URL,
		"project_id", config.GitLab.ProjectID,
		"auth_method", config.GitLab.AuthMethod,
		"token", logging.MaskSensitive(config.GitLab.Token))

	return config, nil
}

// validateConfig ensures that all required configuration values are provided.
func validateConfig(config *Config) error {
	var missing []string

	if config.GitLab.Token == "" {
		missing = append(missing, "gitlab_token")
	}
	if config.GitLab.ProjectID == "" {
		missing = append(missing, "project_id")
	}
	if len(missing) > 0 {
		return apperr.New(apperr.KindConfig, "missing required configuration: %s", strings.Join(missing, ", "))
	}

	switch config.GitLab.AuthMethod {
	case "bearer", "private-token":
	default:
		return apperr.New(apperr.KindConfig, "invalid auth_method %q, expected bearer or private-token", config.GitLab.AuthMethod)
	}

	if config.GitLab.PerPage < 1 || config.GitLab.PerPage > 100 {
		return apperr.New(apperr.KindConfig, "per_page must be between 1 and 100, got %d", config.GitLab.PerPage)
	}

	return nil
}
