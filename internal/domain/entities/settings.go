package entities

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	// WorkDirName is the directory name every work dir is normalized to end with.
	WorkDirName = ".phpmgr"

	defaultAPIURL        = "https://api.github.com/"
	defaultOwner         = "php"
	defaultRepository    = "php-src"
	defaultArchiveURL    = "https://api.github.com/repos/php/php-src/tarball/refs/tags/php-{version}"
	defaultArchivePrefix = "php-php-src"
	defaultPageSize      = 100
	defaultMinArchive    = 12 * 1024 * 1024
	defaultUserAgent     = "phpmgr/1.0"

	// VersionPlaceholder is substituted with the version in ArchiveURL.
	VersionPlaceholder = "{version}"

	// WorkDirEnv overrides the work dir of the configuration file.
	WorkDirEnv = "PHPMGR_WORK_DIR"
)

// Settings is the configuration every command runs with.
// It is loaded once per invocation and passed explicitly to each component.
type Settings struct {
	WorkDir        string   `yaml:"work_dir"`
	APIURL         string   `yaml:"api_url"`
	Owner          string   `yaml:"owner"`
	Repository     string   `yaml:"repository"`
	Token          string   `yaml:"token"`          // Inline, ${ENV_VAR}, or file path
	TagPrefix      string   `yaml:"tag_prefix"`     // Only tags with this prefix are kept
	ArchiveURL     string   `yaml:"archive_url"`    // Must contain {version}
	ArchivePrefix  string   `yaml:"archive_prefix"` // Synthetic top-level dir of the tarball
	PageSize       int      `yaml:"page_size"`
	MinArchiveSize int      `yaml:"min_archive_size"`
	UserAgent      string   `yaml:"user_agent"`
	ConfigureFlags []string `yaml:"configure_flags"`
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// NewSettings reads the configuration file at path, or returns the defaults
// when path is empty. The work dir is normalized in both cases.
func NewSettings(path string) (*Settings, error) {
	settings := &Settings{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
		}
		if unmarshalErr := yaml.Unmarshal(data, settings); unmarshalErr != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
		}
	}

	settings.applyDefaults()
	settings.Token = resolveToken(settings.Token)

	workDir := settings.WorkDir
	if fromEnv := os.Getenv(WorkDirEnv); fromEnv != "" {
		workDir = fromEnv
	}
	if err := settings.SetWorkDir(workDir); err != nil {
		return nil, err
	}

	if validateErr := settings.validate(); validateErr != nil {
		return nil, validateErr
	}
	return settings, nil
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{"."}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".phpmgr.yaml",
		".phpmgr.yml",
		"phpmgr.yaml",
		"phpmgr.yml",
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

// NormalizeWorkDir expands "~", makes the path absolute and appends ".phpmgr"
// unless the path already ends with it. An empty dir means the home directory.
func NormalizeWorkDir(dir string) (string, error) {
	homeDir, homeErr := os.UserHomeDir()

	switch {
	case dir == "" || dir == "~":
		if homeErr != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", homeErr)
		}
		dir = homeDir
	case strings.HasPrefix(dir, "~/"):
		if homeErr != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", homeErr)
		}
		dir = filepath.Join(homeDir, dir[2:])
	}

	if filepath.Base(dir) != WorkDirName {
		dir = filepath.Join(dir, WorkDirName)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("invalid work dir %q: %w", dir, err)
	}
	return abs, nil
}

// SetWorkDir normalizes and applies a work dir, e.g. from a command line flag.
func (s *Settings) SetWorkDir(dir string) error {
	workDir, err := NormalizeWorkDir(dir)
	if err != nil {
		return err
	}
	s.WorkDir = workDir
	return nil
}

// TagsFile is the persisted catalog.
func (s *Settings) TagsFile() string {
	return filepath.Join(s.WorkDir, "tags.json")
}

// ArchivesDir holds one source tree per version.
func (s *Settings) ArchivesDir() string {
	return filepath.Join(s.WorkDir, "archives")
}

// BinDir is the active-version symlink.
func (s *Settings) BinDir() string {
	return filepath.Join(s.WorkDir, "bin")
}

// Installation returns the source tree location of a version.
func (s *Settings) Installation(version string) Installation {
	version = NormalizeVersion(version)
	return Installation{
		Version: version,
		Path:    filepath.Join(s.ArchivesDir(), version),
	}
}

// ArchiveURLFor renders ArchiveURL for a version.
func (s *Settings) ArchiveURLFor(version string) string {
	return strings.ReplaceAll(s.ArchiveURL, VersionPlaceholder, NormalizeVersion(version))
}

func (s *Settings) applyDefaults() {
	if s.APIURL == "" {
		s.APIURL = defaultAPIURL
	}
	if !strings.HasSuffix(s.APIURL, "/") {
		s.APIURL += "/"
	}
	if s.Owner == "" {
		s.Owner = defaultOwner
	}
	if s.Repository == "" {
		s.Repository = defaultRepository
	}
	if s.TagPrefix == "" {
		s.TagPrefix = VersionPrefix
	}
	if s.ArchiveURL == "" {
		s.ArchiveURL = defaultArchiveURL
	}
	if s.ArchivePrefix == "" {
		s.ArchivePrefix = defaultArchivePrefix
	}
	if s.PageSize <= 0 {
		s.PageSize = defaultPageSize
	}
	if s.MinArchiveSize <= 0 {
		s.MinArchiveSize = defaultMinArchive
	}
	if s.UserAgent == "" {
		s.UserAgent = defaultUserAgent
	}
	if len(s.ConfigureFlags) == 0 {
		s.ConfigureFlags = []string{
			"--with-curl",
			"--with-openssl",
			"--with-pear",
			"--with-zip",
			"--enable-mbstring",
		}
	}
}

// validate checks for values the defaults cannot repair.
func (s *Settings) validate() error {
	if !strings.Contains(s.ArchiveURL, VersionPlaceholder) {
		return fmt.Errorf("archive_url must contain %s", VersionPlaceholder)
	}
	if s.PageSize > 100 { //nolint:mnd // GitHub caps per_page at 100
		return fmt.Errorf("page_size must be at most 100, got %d", s.PageSize)
	}
	return nil
}

// resolveToken expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the token from the file.
func resolveToken(raw string) string {
	if raw == "" {
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

	// If the resolved value is a path to an existing file, read the token from it
	if _, statErr := os.Stat(resolved); statErr == nil {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read token file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Infof("Read token from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}
