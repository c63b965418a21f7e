package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

var reUnsafeName = regexp.MustCompile(`[^a-z0-9]+`)

func (c Config) ProfileIndex(name string) int {
	for i, p := range c.Profiles {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return i
		}
	}
	return -1
}

func (c Config) Profile(name string) (Profile, error) {
	i := c.ProfileIndex(name)
	if i < 0 {
		return Profile{}, fmt.Errorf("%w: %s", ErrUnknownProfile, name)
	}
	return c.Profiles[i], nil
}

// Active returns the selected profile, falling back to the default one.
func (c Config) Active() Profile {
	if p, err := c.Profile(c.ActiveProfile); err == nil {
		return p
	}
	if p, err := c.Profile(DefaultProfileName); err == nil {
		return p
	}
	return defaultProfile()
}

// DatabasePath resolves a profile's database relative to the config dir.
func (c Config) DatabasePath(p Profile) string {
	if filepath.IsAbs(p.Database) {
		return p.Database
	}
	return filepath.Join(c.Dir, p.Database)
}

func (c *Config) AddProfile(name string) (Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Profile{}, ErrEmptyProfileName
	}
	if c.ProfileIndex(name) >= 0 {
		return Profile{}, fmt.Errorf("%w: %s", ErrDuplicateProfile, name)
	}
	slug := strings.Trim(reUnsafeName.ReplaceAllString(strings.ToLower(name), "_"), "_")
	if slug == "" {
		slug = fmt.Sprintf("profile%d", len(c.Profiles))
	}
	db := "news_feed_" + slug + ".db"
	for i := 2; c.databaseInUse(db); i++ {
		db = fmt.Sprintf("news_feed_%s_%d.db", slug, i)
	}

	p := Profile{
		Name:              name,
		Database:          db,
		Categories:        DefaultCategories,
		MuteKeywords:      []string{},
		HighlightKeywords: []string{},
	}
	c.Profiles = append(c.Profiles, p)
	return p, nil
}

func (c Config) databaseInUse(db string) bool {
	for _, p := range c.Profiles {
		if strings.EqualFold(p.Database, db) {
			return true
		}
	}
	return false
}

func (c *Config) DeleteProfile(name string) error {
	i := c.ProfileIndex(name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownProfile, name)
	}
	if strings.EqualFold(c.Profiles[i].Name, DefaultProfileName) {
		return ErrDeleteDefaultProfile
	}
	if strings.EqualFold(c.Profiles[i].Name, c.ActiveProfile) {
		return ErrDeleteActiveProfile
	}
	c.Profiles = append(c.Profiles[:i:i], c.Profiles[i+1:]...)
	return nil
}

func (c *Config) SelectProfile(name string) error {
	i := c.ProfileIndex(name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownProfile, name)
	}
	c.ActiveProfile = c.Profiles[i].Name
	return nil
}

// OverrideProfile opens name for this process without making it the saved
// selection. A later SelectProfile is saved as usual.
func (c *Config) OverrideProfile(name string) error {
	i := c.ProfileIndex(name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownProfile, name)
	}
	c.env.profile.apply(&c.ActiveProfile, c.Profiles[i].Name)
	return nil
}

// UpdateProfile replaces the stored profile with the same name.
func (c *Config) UpdateProfile(p Profile) error {
	i := c.ProfileIndex(p.Name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownProfile, p.Name)
	}
	c.Profiles[i] = p
	return nil
}

// Clone returns a copy that shares no slices with c.
func (c Config) Clone() Config {
	out := c
	out.General.BlockedDomains = append([]string{}, c.General.BlockedDomains...)
	out.Profiles = make([]Profile, len(c.Profiles))
	for i, p := range c.Profiles {
		p.MuteKeywords = append([]string{}, p.MuteKeywords...)
		p.HighlightKeywords = append([]string{}, p.HighlightKeywords...)
		out.Profiles[i] = p
	}
	return out
}
