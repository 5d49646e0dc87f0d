package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielolaszy/glissues/internal/apperr"
)

var envVars = []string{
	"GITLAB_TOKEN",
	"GITLAB_PROJECT_ID",
	"GITLAB_URL",
	"GITLAB_AUTH_METHOD",
	"GITLAB_PER_PAGE",
	"GITLAB_TIMEOUT",
}

// clearEnv blanks every variable the loader reads. Empty variables are
// ignored by viper, so this isolates tests from the caller's environment.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range envVars {
		t.Setenv(name, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		env         map[string]string
		wantURL     string
		wantToken   string
		wantID      string
		wantAuth    string
		wantPage    int
		wantTimeout time.Duration
		wantErr     bool
	}{
		{
			name:      "String project id with defaults",
			content:   `{"project_id": "42", "gitlab_token": "abc"}`,
			wantURL:   "https://gitlab.com",
			wantToken: "abc",
			wantID:    "42",
			wantAuth:  "bearer",
			wantPage:  100,
		},
		{
			name:      "Numeric project id and custom url",
			content:   `{"project_id": 1234, "gitlab_token": "abc", "gitlab_url": "https://gitlab.example.com"}`,
			wantURL:   "https://gitlab.example.com",
			wantToken: "abc",
			wantID:    "1234",
			wantAuth:  "bearer",
			wantPage:  100,
		},
		{
			name:        "Optional knobs",
			content:     `{"project_id": "g/p", "gitlab_token": "abc", "auth_method": "Private-Token", "per_page": 50, "timeout": "30s"}`,
			wantURL:     "https://gitlab.com",
			wantToken:   "abc",
			wantID:      "g/p",
			wantAuth:    "private-token",
			wantPage:    50,
			wantTimeout: 30 * time.Second,
		},
		{
			name:      "Environment overrides file",
			content:   `{"project_id": "42", "gitlab_token": "abc"}`,
			env:       map[string]string{"GITLAB_TOKEN": "from-env", "GITLAB_PROJECT_ID": "7"},
			wantURL:   "https://gitlab.com",
			wantToken: "from-env",
			wantID:    "7",
			wantAuth:  "bearer",
			wantPage:  100,
		},
		{
			name:    "Missing token",
			content: `{"project_id": "42"}`,
			wantErr: true,
		},
		{
			name:    "Missing project id",
			content: `{"gitlab_token": "abc"}`,
			wantErr: true,
		},
		{
			name:    "Unknown auth method",
			content: `{"project_id": "42", "gitlab_token": "abc", "auth_method": "basic"}`,
			wantErr: true,
		},
		{
			name:    "Page size out of range",
			content: `{"project_id": "42", "gitlab_token": "abc", "per_page": 500}`,
			wantErr: true,
		},
		{
			name:    "Bad timeout",
			content: `{"project_id": "42", "gitlab_token": "abc", "timeout": "soon"}`,
			wantErr: true,
		},
		{
			name:    "Invalid JSON",
			content: `{"project_id": `,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := writeFile(t, "config.json", tt.content)

			config, err := LoadConfig(path, "")
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperr.ErrConfig)
				assert.Nil(t, config)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantURL, config.GitLab.URL)
			assert.Equal(t, tt.wantToken, config.GitLab.Token)
			assert.Equal(t, tt.wantID, config.GitLab.ProjectID)
			assert.Equal(t, tt.wantAuth, config.GitLab.AuthMethod)
			assert.Equal(t, tt.wantPage, config.GitLab.PerPage)
			assert.Equal(t, tt.wantTimeout, config.GitLab.Timeout)
		})
	}
}

func TestLoadConfigMissingFileUsesEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("GITLAB_TOKEN", "abc")
	t.Setenv("GITLAB_PROJECT_ID", "42")

	config, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json"), "")
	require.NoError(t, err)
	assert.Equal(t, "abc", config.GitLab.Token)
	assert.Equal(t, "42", config.GitLab.ProjectID)
}

func TestLoadConfigMissingFileAndEnvironment(t *testing.T) {
	clearEnv(t)

	config, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json"), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrConfig)
	assert.Contains(t, err.Error(), "gitlab_token, project_id")
	assert.Contains(t, err.Error(), "absent.json not found")
	assert.Nil(t, config)
}

func TestLoadConfigEnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv only fills variables that are unset, so drop the blanks first.
	require.NoError(t, os.Unsetenv("GITLAB_TOKEN"))
	require.NoError(t, os.Unsetenv("GITLAB_PROJECT_ID"))
	t.Cleanup(func() {
		os.Unsetenv("GITLAB_TOKEN")
		os.Unsetenv("GITLAB_PROJECT_ID")
	})

	envPath := writeFile(t, ".env", "GITLAB_TOKEN=dotenv-token\nGITLAB_PROJECT_ID=99\n")

	config, err := LoadConfig("", envPath)
	require.NoError(t, err)
	assert.Equal(t, "dotenv-token", config.GitLab.Token)
	assert.Equal(t, "99", config.GitLab.ProjectID)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  GitLabConfig
		wantErr bool
	}{
		{
			name:   "All fields present",
			config: GitLabConfig{Token: "abc", ProjectID: "42", AuthMethod: "bearer", PerPage: 100},
		},
		{
			name:    "Missing token",
			config:  GitLabConfig{ProjectID: "42", AuthMethod: "bearer", PerPage: 100},
			wantErr: true,
		},
		{
			name:    "Zero page size",
			config:  GitLabConfig{Token: "abc", ProjectID: "42", AuthMethod: "bearer"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfig(&Config{GitLab: tt.config})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
