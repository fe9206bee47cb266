package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

var workspaceRe = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// Error marks missing or invalid credentials. Raised before any
// network call is attempted.
type Error struct {
	Reason string
}

func (e *Error) Error() string { return "config: " + e.Reason }

// Settings holds the three opaque strings every API call needs plus
// client tuning. Loaded once per invocation.
type Settings struct {
	Workspace string        `yaml:"workspace"`
	Token     string        `yaml:"-"`
	DCookie   string        `yaml:"-"`
	Timeout   time.Duration `yaml:"-"`
}

// APIBase returns the workspace-scoped Web API root.
func (s *Settings) APIBase() string {
	return fmt.Sprintf("https://%s.slack.com/api", s.Workspace)
}

// fileSettings is the optional ~/.slackscope.yaml layer. Credentials
// deliberately never come from the file; only env may carry them.
type fileSettings struct {
	Workspace      string  `yaml:"workspace"`
	TimeoutSeconds float64 `yaml:"timeout_seconds"`
}

// Load builds Settings from .env (best effort), the optional config
// file, and the environment, with env winning. Missing credentials are
// a fatal *Error.
func Load(path string) (*Settings, error) {
	// .env discovery mirrors the usual dotenv behavior: silently absent.
	_ = godotenv.Load()

	s := &Settings{Timeout: 20 * time.Second}

	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, ".slackscope.yaml")
		}
	}
	if path != "" {
		if err := applyFile(s, path); err != nil {
			return nil, err
		}
	}

	if v := strings.TrimSpace(os.Getenv("SLACK_WORKSPACE")); v != "" {
		s.Workspace = v
	}
	s.Token = strings.TrimSpace(os.Getenv("SLACK_TOKEN"))
	s.DCookie = strings.TrimSpace(os.Getenv("SLACK_D_COOKIE"))

	if s.Workspace == "" {
		return nil, &Error{Reason: "missing SLACK_WORKSPACE (set it in the environment, .env, or ~/.slackscope.yaml)"}
	}
	if !workspaceRe.MatchString(s.Workspace) {
		return nil, &Error{Reason: "SLACK_WORKSPACE must look like a workspace slug (letters, numbers, hyphens)"}
	}
	if s.Token == "" {
		return nil, &Error{Reason: "missing SLACK_TOKEN"}
	}
	if s.DCookie == "" {
		return nil, &Error{Reason: "missing SLACK_D_COOKIE"}
	}
	return s, nil
}

func applyFile(s *Settings, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &Error{Reason: fmt.Sprintf("failed to read config file %s: %v", path, err)}
	}
	var fs fileSettings
	if err := yaml.Unmarshal(data, &fs); err != nil {
		return &Error{Reason: fmt.Sprintf("failed to parse config file %s: %v", path, err)}
	}
	if fs.Workspace != "" {
		s.Workspace = fs.Workspace
	}
	if fs.TimeoutSeconds > 0 {
		s.Timeout = time.Duration(fs.TimeoutSeconds * float64(time.Second))
	}
	return nil
}
