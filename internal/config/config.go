package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	FileName            = "config.yaml"
	DirName             = "AlienNewsFeed"
	DefaultProfileName  = "default"
	DefaultDatabase     = "news_feed.db"
	DefaultCategories   = "news+worldnews+politics+technology"
	DefaultTheme        = "Default"
	DefaultMediaPlayer  = "mpv"
	DefaultUserAgent    = "alienfeed/1.0 (terminal news reader)"
	DefaultSource       = "public"
	DefaultIntervalSecs = 300
	MinIntervalSecs     = 15
	IntervalStepSecs    = 15
)

var (
	ErrEmptyProfileName     = errors.New("profile name cannot be empty")
	ErrDuplicateProfile     = errors.New("a profile with that name already exists")
	ErrDeleteDefaultProfile = errors.New("the default profile cannot be deleted")
	ErrDeleteActiveProfile  = errors.New("switch to another profile before deleting this one")
	ErrUnknownProfile       = errors.New("no such profile")
)

// Config is the persisted application configuration.
type Config struct {
	General       General   `yaml:"general"`
	ActiveProfile string    `yaml:"active_profile"`
	Profiles      []Profile `yaml:"profiles"`
	LogLevel      string    `yaml:"log_level"`

	// Dir is where the config file, databases, logs and backups live.
	Dir    string     `yaml:"-"`
	Reddit RedditAuth `yaml:"-"`

	env overrides
}

// override remembers the file value a process-level setting replaced, so Save
// writes the file value back unless the field was changed since.
type override[T comparable] struct {
	set  bool
	file T
	with T
}

func (o *override[T]) apply(field *T, v T) {
	if !o.set {
		o.file = *field
	}
	o.set = true
	o.with = v
	*field = v
}

func (o override[T]) persisted(cur T) T {
	if o.set && cur == o.with {
		return o.file
	}
	return cur
}

type overrides struct {
	source    override[string]
	theme     override[string]
	userAgent override[string]
	logLevel  override[string]
	profile   override[string]
	interval  override[int]
}

type General struct {
	Theme                 string   `yaml:"theme"`
	FetchIntervalSeconds  int      `yaml:"fetch_interval_seconds"`
	ShowClock             bool     `yaml:"show_clock"`
	BlockedDomains        []string `yaml:"blocked_domains"`
	MediaPlayer           string   `yaml:"media_player"`
	Source                string   `yaml:"source"`
	UserAgent             string   `yaml:"user_agent"`
	RequestTimeoutSeconds int      `yaml:"request_timeout_seconds"`
}

type Profile struct {
	Name              string   `yaml:"name"`
	Database          string   `yaml:"database"`
	Categories        string   `yaml:"categories"`
	MuteKeywords      []string `yaml:"mute_keywords"`
	HighlightKeywords []string `yaml:"highlight_keywords"`
}

// RedditAuth holds credentials for the authenticated source. Env only, never saved.
type RedditAuth struct {
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
}

func Default() Config {
	return Config{
		General: General{
			Theme:                 DefaultTheme,
			FetchIntervalSeconds:  DefaultIntervalSecs,
			ShowClock:             true,
			BlockedDomains:        []string{},
			MediaPlayer:           DefaultMediaPlayer,
			Source:                DefaultSource,
			UserAgent:             DefaultUserAgent,
			RequestTimeoutSeconds: 10,
		},
		ActiveProfile: DefaultProfileName,
		Profiles:      []Profile{defaultProfile()},
		LogLevel:      "info",
	}
}

func defaultProfile() Profile {
	return Profile{
		Name:              DefaultProfileName,
		Database:          DefaultDatabase,
		Categories:        DefaultCategories,
		MuteKeywords:      []string{},
		HighlightKeywords: []string{},
	}
}

// DefaultDir is ALIENFEED_CONFIG_DIR or the per-user config directory.
func DefaultDir() (string, error) {
	if v := strings.TrimSpace(os.Getenv("ALIENFEED_CONFIG_DIR")); v != "" {
		return v, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate user config dir: %w", err)
	}
	return filepath.Join(base, DirName), nil
}

// Load reads dir/config.yaml on top of the defaults. A missing file is not an
// error. An optional dir/.env is loaded first so credentials can live there.
func Load(dir string) (Config, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Config{}, fmt.Errorf("create config dir %s: %w", dir, err)
	}
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", filepath.Join(dir, FileName), err)
		}
	}
	cfg.Dir = dir

	applyEnvOverrides(&cfg)
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnvOverrides layers ALIENFEED_* values over the file. They last for the
// process only; Save keeps the file's own values. The profile override lives
// in the CLI (--profile / ALIENFEED_PROFILE) so a profile switch can drop it.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ALIENFEED_SOURCE"); v != "" {
		cfg.env.source.apply(&cfg.General.Source, v)
	}
	if v := os.Getenv("ALIENFEED_THEME"); v != "" {
		cfg.env.theme.apply(&cfg.General.Theme, v)
	}
	if v := os.Getenv("ALIENFEED_USER_AGENT"); v != "" {
		cfg.env.userAgent.apply(&cfg.General.UserAgent, v)
	}
	if v := os.Getenv("ALIENFEED_FETCH_INTERVAL"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			cfg.env.interval.apply(&cfg.General.FetchIntervalSeconds, max(MinIntervalSecs, secs))
		}
	}
	if v := os.Getenv("ALIENFEED_LOG_LEVEL"); v != "" {
		cfg.env.logLevel.apply(&cfg.LogLevel, v)
	}
	cfg.Reddit = RedditAuth{
		ClientID:     os.Getenv("REDDIT_CLIENT_ID"),
		ClientSecret: os.Getenv("REDDIT_CLIENT_SECRET"),
		Username:     os.Getenv("REDDIT_USERNAME"),
		Password:     os.Getenv("REDDIT_PASSWORD"),
	}
}

func (c *Config) normalize() {
	if c.General.FetchIntervalSeconds < MinIntervalSecs {
		c.General.FetchIntervalSeconds = MinIntervalSecs
	}
	if c.General.RequestTimeoutSeconds <= 0 {
		c.General.RequestTimeoutSeconds = 10
	}
	c.General.BlockedDomains = SplitList(strings.Join(c.General.BlockedDomains, ","))

	hasDefault := false
	for _, p := range c.Profiles {
		if p.Name == DefaultProfileName {
			hasDefault = true
		}
	}
	if !hasDefault {
		c.Profiles = append([]Profile{defaultProfile()}, c.Profiles...)
	}
	if c.ProfileIndex(c.ActiveProfile) < 0 {
		c.ActiveProfile = DefaultProfileName
	}
}

func (c Config) Validate() error {
	switch c.General.Source {
	case "public", "api", "rss", "mock":
	default:
		return fmt.Errorf("general.source must be public, api, rss or mock: %s", c.General.Source)
	}
	if c.General.FetchIntervalSeconds < MinIntervalSecs {
		return fmt.Errorf("general.fetch_interval_seconds must be at least %d", MinIntervalSecs)
	}
	seen := make(map[string]struct{}, len(c.Profiles))
	for _, p := range c.Profiles {
		key := strings.ToLower(strings.TrimSpace(p.Name))
		if key == "" {
			return ErrEmptyProfileName
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateProfile, p.Name)
		}
		seen[key] = struct{}{}
		if strings.TrimSpace(p.Database) == "" {
			return fmt.Errorf("profile %s has no database", p.Name)
		}
	}
	return nil
}

// Save writes the config atomically: temp file, fsync, rename.
func (c Config) Save() error {
	if c.Dir == "" {
		return errors.New("config dir is not set")
	}
	data, err := yaml.Marshal(c.persisted())
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	tmp, err := os.CreateTemp(c.Dir, ".config-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp config: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp config: %w", err)
	}
	if err := os.Rename(tmpName, c.Path()); err != nil {
		return fmt.Errorf("replace config: %w", err)
	}
	return nil
}

// persisted is c with process-level overrides swapped back to the file values.
func (c Config) persisted() Config {
	out := c
	out.General.Source = c.env.source.persisted(c.General.Source)
	out.General.Theme = c.env.theme.persisted(c.General.Theme)
	out.General.UserAgent = c.env.userAgent.persisted(c.General.UserAgent)
	out.General.FetchIntervalSeconds = c.env.interval.persisted(c.General.FetchIntervalSeconds)
	out.LogLevel = c.env.logLevel.persisted(c.LogLevel)
	out.ActiveProfile = c.env.profile.persisted(c.ActiveProfile)
	return out
}

func (c Config) Path() string { return filepath.Join(c.Dir, FileName) }

func (c Config) BackupsDir() string { return filepath.Join(c.Dir, "backups") }

func (c Config) LogPath() string { return filepath.Join(c.Dir, "alienfeed.log") }

func (c Config) Interval() time.Duration {
	return time.Duration(c.General.FetchIntervalSeconds) * time.Second
}

func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.General.RequestTimeoutSeconds) * time.Second
}

// SplitList parses a comma separated list, trimming blanks and dropping duplicates.
func SplitList(s string) []string {
	out := []string{}
	seen := make(map[string]struct{})
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key := strings.ToLower(part)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, part)
	}
	return out
}
