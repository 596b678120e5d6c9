package entities

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	// ParameterPrefix marks a secret resolved from the parameter store, e.g. "ssm:/slack-token".
	ParameterPrefix = "ssm:"

	defaultOctopusURL         = "https://octopus.com"
	defaultOctopusSpace       = "Spaces-1"
	defaultOctopusConcurrency = 4
	defaultOctopusTimeout     = 30 * time.Second
	defaultServerAddress      = ":8080"
	defaultBotPrefix          = "driftbot"
)

// How the latest release of a project is picked from the releases page.
const (
	// LatestReleaseNewest takes the most recently created release, as the server orders them.
	LatestReleaseNewest = "newest"
	// LatestReleaseHighestSemver takes the highest semantic version on the page.
	// A hotfix cut from an older branch after a newer release is then not reported as latest.
	LatestReleaseHighestSemver = "highest_semver"
)

// Settings is the top-level configuration for driftbot.
type Settings struct {
	Octopus OctopusSettings `yaml:"octopus"`
	Slack   SlackSettings   `yaml:"slack"`
	Bot     BotSettings     `yaml:"bot"`
	Server  ServerSettings  `yaml:"server"`
	AWS     AWSSettings     `yaml:"aws"`
}

// OctopusSettings describes the deployment-tracking API.
type OctopusSettings struct {
	URL               string            `yaml:"url"`
	WebURL            string            `yaml:"web_url"` // base of the links rendered in messages
	Space             string            `yaml:"space"`
	APIKey            string            `yaml:"api_key"` // Inline, ${ENV_VAR}, file path or ssm:/name
	Concurrency       int               `yaml:"concurrency"`
	RequestsPerSecond float64           `yaml:"requests_per_second"` // 0 disables client-side limiting
	Timeout           time.Duration     `yaml:"timeout"`
	LatestRelease     string            `yaml:"latest_release"` // newest (default) or highest_semver
	ProjectGroups     []ProjectGroupRef `yaml:"project_groups"`
}

// SlackSettings describes the chat platform credentials and channels.
type SlackSettings struct {
	BotToken          string `yaml:"bot_token"`
	AppToken          string `yaml:"app_token"`    // socket mode, only needed by "serve"
	NotifyToken       string `yaml:"notify_token"` // posts notifications, defaults to bot_token
	ProductionChannel string `yaml:"production_channel"`
}

// BotSettings holds the chat command dispatch options.
type BotSettings struct {
	Prefixes []string `yaml:"prefixes"`
	Debug    bool     `yaml:"debug"`
}

// ServerSettings holds the health and metrics endpoint options.
type ServerSettings struct {
	Address string `yaml:"address"`
}

// AWSSettings locates the parameter store.
type AWSSettings struct {
	Region string `yaml:"region"`
}

// ParameterLookup resolves a parameter store name into its (decrypted) value.
type ParameterLookup func(ctx context.Context, name string) (string, error)

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// NewSettings reads and parses a configuration file, expanding environment variables
// and resolving secret file paths. Parameter store references are kept as-is until
// ResolveParameters is called.
func NewSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var settings Settings
	if unmarshalErr := yaml.Unmarshal(data, &settings); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	for _, secret := range settings.secrets() {
		*secret = resolveSecret(*secret)
	}
	settings.applyDefaults()

	if validateErr := validateSettings(&settings); validateErr != nil {
		return nil, validateErr
	}

	return &settings, nil
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".driftbot.yaml",
		".driftbot.yml",
		"driftbot.yaml",
		"driftbot.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// NeedsParameters reports whether any secret still points at the parameter store.
func (s *Settings) NeedsParameters() bool {
	for _, secret := range s.secrets() {
		if strings.HasPrefix(*secret, ParameterPrefix) {
			return true
		}
	}
	return false
}

// ResolveParameters replaces every "ssm:" secret with the value returned by lookup.
func (s *Settings) ResolveParameters(ctx context.Context, lookup ParameterLookup) error {
	for _, secret := range s.secrets() {
		name, found := strings.CutPrefix(*secret, ParameterPrefix)
		if !found {
			continue
		}

		value, err := lookup(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to resolve parameter %q: %w", name, err)
		}
		logger.Debugf("Resolved parameter %q", name)
		*secret = value
	}

	if s.Slack.NotifyToken == "" {
		s.Slack.NotifyToken = s.Slack.BotToken
	}
	return nil
}

func (s *Settings) secrets() []*string {
	return []*string{
		&s.Octopus.APIKey,
		&s.Slack.BotToken,
		&s.Slack.AppToken,
		&s.Slack.NotifyToken,
		&s.Slack.ProductionChannel,
	}
}

func (s *Settings) applyDefaults() {
	if s.Octopus.URL == "" {
		s.Octopus.URL = defaultOctopusURL
	}
	s.Octopus.URL = strings.TrimSuffix(s.Octopus.URL, "/")
	if s.Octopus.Space == "" {
		s.Octopus.Space = defaultOctopusSpace
	}
	if s.Octopus.WebURL == "" {
		s.Octopus.WebURL = fmt.Sprintf("%s/app#/%s/", s.Octopus.URL, s.Octopus.Space)
	}
	// links are rendered as WebURL + "projects/..."
	if !strings.HasSuffix(s.Octopus.WebURL, "/") {
		s.Octopus.WebURL += "/"
	}
	if s.Octopus.Concurrency <= 0 {
		s.Octopus.Concurrency = defaultOctopusConcurrency
	}
	if s.Octopus.Timeout <= 0 {
		s.Octopus.Timeout = defaultOctopusTimeout
	}
	if s.Octopus.LatestRelease == "" {
		s.Octopus.LatestRelease = LatestReleaseNewest
	}
	if s.Slack.NotifyToken == "" {
		s.Slack.NotifyToken = s.Slack.BotToken
	}
	if len(s.Bot.Prefixes) == 0 {
		s.Bot.Prefixes = []string{defaultBotPrefix}
	}
	if s.Server.Address == "" {
		s.Server.Address = defaultServerAddress
	}
}

// resolveSecret expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the secret from the file.
func resolveSecret(raw string) string {
	if raw == "" || strings.HasPrefix(raw, ParameterPrefix) {
		return raw
	}

	// Expand ${ENV_VAR} references
	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})

	// If the resolved value is a path to an existing file, read the secret from it
	if info, statErr := os.Stat(resolved); statErr == nil && !info.IsDir() {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read secret file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Infof("Read secret from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}

// validateSettings checks for required configuration values.
func validateSettings(settings *Settings) error {
	if settings.Octopus.APIKey == "" {
		return errors.New("octopus.api_key is required (set inline, via ${ENV_VAR}, file path or ssm:/name)")
	}
	if settings.Slack.BotToken == "" {
		return errors.New("slack.bot_token is required (set inline, via ${ENV_VAR}, file path or ssm:/name)")
	}
	if settings.NeedsParameters() && settings.AWS.Region == "" {
		if os.Getenv("AWS_DEFAULT_REGION") == "" && os.Getenv("AWS_REGION") == "" {
			return errors.New("aws.region is required when secrets reference the parameter store")
		}
	}

	switch settings.Octopus.LatestRelease {
	case LatestReleaseNewest, LatestReleaseHighestSemver:
	default:
		return fmt.Errorf("octopus.latest_release must be %q or %q, got %q",
			LatestReleaseNewest, LatestReleaseHighestSemver, settings.Octopus.LatestRelease)
	}

	for i, group := range settings.Octopus.ProjectGroups {
		if group.ID == "" {
			return fmt.Errorf("octopus.project_groups[%d].id is required", i)
		}
	}

	return nil
}
