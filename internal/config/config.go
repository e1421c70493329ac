package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// NOTE: This file provides the configuration model and full YAML-based
// load/save behavior, including first-run config creation and 0600
// permissions. The data model mirrors the static invitation content:
// couple, headline date/time, venues, and the per-event agenda.

// ScheduleItem is one line of an event's run-of-show.
type ScheduleItem struct {
	Time     string `yaml:"time" json:"time"`
	Activity string `yaml:"activity" json:"activity"`
}

// EventDetail is the long-form content shown on an event's detail page.
type EventDetail struct {
	HeroImage   string         `yaml:"hero_image" json:"heroImage"`
	Headline    string         `yaml:"headline" json:"headline"`
	Description string         `yaml:"description" json:"description"`
	Highlights  []string       `yaml:"highlights" json:"highlights"`
	Schedule    []ScheduleItem `yaml:"schedule" json:"schedule"`
	Notes       []string       `yaml:"notes" json:"notes"`
	DressCode   string         `yaml:"dress_code" json:"dressCode"`
	Keepsake    string         `yaml:"keepsake" json:"keepsake"`
}

// Event is a single agenda entry.
//
// Date is an ISO calendar date (YYYY-MM-DD). StartTime/EndTime are
// free-form clock times ("11:00 AM", "17:00", "17:00:30"); they are
// normalized by the resolver, never here. TimeZone is the IANA zone
// identifier passed through to calendar exports as a display hint.
type Event struct {
	Slug        string      `yaml:"slug" json:"slug"`
	Title       string      `yaml:"title" json:"title"`
	Subheading  string      `yaml:"subheading" json:"subheading"`
	Date        string      `yaml:"date" json:"date"`
	StartTime   string      `yaml:"start_time" json:"startTime"`
	EndTime     string      `yaml:"end_time" json:"endTime"`
	TimeZone    string      `yaml:"time_zone" json:"timeZone"`
	Location    string      `yaml:"location" json:"location"`
	Address     string      `yaml:"address" json:"address"`
	Description string      `yaml:"description" json:"description"`
	ThemeTag    string      `yaml:"theme_tag" json:"themeTag"`
	Detail      EventDetail `yaml:"detail" json:"detail"`
}

// AudioConfig controls the background music block of the invitation UI.
type AudioConfig struct {
	Src           string `yaml:"src" json:"src"`
	Title         string `yaml:"title" json:"title"`
	Autoplay      bool   `yaml:"autoplay" json:"autoplay"`
	Loop          bool   `yaml:"loop" json:"loop"`
	ToastDuration int    `yaml:"toast_duration_ms" json:"toastDuration"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the Web UI/API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the invitation site and API.
	Listen string `yaml:"listen" json:"listen"`

	// BaseURL is the public URL of the site, embedded as the URL field of
	// generated calendar files. Falls back to "http://" + Listen.
	BaseURL string `yaml:"base_url" json:"base_url"`

	// Timezone is the IANA zone identifier of the celebration
	// (e.g. "Asia/Kolkata"), used as a display hint in calendar exports.
	Timezone string `yaml:"timezone" json:"timezone"`

	// UTCOffset is the literal UTC offset ("+05:30") all wall-clock agenda
	// times are anchored to. A fixed offset, not zone-database resolution.
	UTCOffset string `yaml:"utc_offset" json:"utc_offset"`

	// RefreshCron is a cron-style schedule string (e.g. "@hourly") used to
	// re-resolve the countdown target and refresh cached agenda data.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// SnapshotPath is where the landing-page PNG snapshot is written.
	// Empty disables snapshot capture.
	SnapshotPath string `yaml:"snapshot_path" json:"snapshot_path"`

	// Invitation content.
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	GroomName   string `yaml:"groom_name" json:"groomName"`
	BrideName   string `yaml:"bride_name" json:"brideName"`
	ParentGroom string `yaml:"parent_groom" json:"parentGroom"`
	ParentBride string `yaml:"parent_bride" json:"parentBride"`

	// Date is the headline wedding date (YYYY-MM-DD); Time is the headline
	// ceremony time in free form ("1:00 PM"). These drive the countdown.
	Date string `yaml:"date" json:"date"`
	Time string `yaml:"time" json:"time"`

	// Venue and maps.
	Location          string `yaml:"location" json:"location"`
	Address           string `yaml:"address" json:"address"`
	MapsURL           string `yaml:"maps_url" json:"maps_url"`
	MapsEmbed         string `yaml:"maps_embed" json:"maps_embed"`
	ReceptionLocation string `yaml:"reception_location" json:"receptionLocation"`
	ReceptionAddress  string `yaml:"reception_address" json:"receptionAddress"`
	ReceptionMapsURL  string `yaml:"reception_maps_url" json:"reception_maps_url"`
	ReceptionEmbed    string `yaml:"reception_maps_embed" json:"reception_maps_embed"`

	// Social/share assets.
	OGImage string `yaml:"og_image" json:"ogImage"`
	Favicon string `yaml:"favicon" json:"favicon"`

	// Agenda is the ordered list of celebration events.
	Agenda []Event `yaml:"agenda" json:"agenda"`

	// Audio is the background music block.
	Audio AudioConfig `yaml:"audio" json:"audio"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all
	// endpoints except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration with a
// placeholder celebration so a first run serves a working site.
func DefaultConfig() *Config {
	return &Config{
		Listen:      "127.0.0.1:8080",
		Timezone:    "Asia/Kolkata",
		UTCOffset:   "+05:30",
		RefreshCron: "@hourly",
		Title:       "Shanu and Ankit's Wedding",
		Description: "Join us for a multi-day Indian wedding filled with colour, music, and heartfelt rituals.",
		GroomName:   "Ankit",
		BrideName:   "Shanu",
		Date:        "2024-12-25",
		Time:        "1:00 PM",
		Location:    "Jaipur Bagh, Jaipur",
		Address:     "Jaipur Bagh, Sirsi Road, Jaipur, Rajasthan, India",
		Agenda: []Event{
			{
				Slug:        "wedding",
				Title:       "Wedding Ceremony",
				Subheading:  "Sacred pheras, varmala, and vows",
				Date:        "2024-12-25",
				StartTime:   "01:00 PM",
				EndTime:     "04:00 PM",
				TimeZone:    "Asia/Kolkata",
				Location:    "Lawn, Jaipur Bagh",
				Address:     "Jaipur Bagh, Sirsi Road, Jaipur",
				Description: "Gather around the sacred fire as we exchange garlands and vows.",
				ThemeTag:    "Sacred fire & sandalwood",
			},
		},
		Audio: AudioConfig{
			Src:           "/audio/song.mp3",
			Title:         "Fulfilling Humming",
			Autoplay:      true,
			Loop:          true,
			ToastDuration: 3000,
		},
		BasicAuth: nil,
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.BaseURL == "" {
		c.BaseURL = "http://" + c.Listen
	}
	if c.Timezone == "" {
		c.Timezone = "Asia/Kolkata"
	}
	if c.UTCOffset == "" {
		c.UTCOffset = "+05:30"
	}
	if c.RefreshCron == "" {
		c.RefreshCron = "@hourly"
	}
	if c.Agenda == nil {
		c.Agenda = []Event{}
	}

	// Per-event fallbacks: slug from position is not derivable, but the
	// zone fields inherit the site-wide values.
	for i := range c.Agenda {
		if c.Agenda[i].TimeZone == "" {
			c.Agenda[i].TimeZone = c.Timezone
		}
	}
}

// EventBySlug returns the agenda event with the given slug.
func (c *Config) EventBySlug(slug string) (Event, bool) {
	for _, ev := range c.Agenda {
		if ev.Slug == slug {
			return ev, true
		}
	}
	return Event{}, false
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - return the default config
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - normalize defaults
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the given configuration to the specified path.
//
// Implementation details:
//   - Ensures parent directory exists (0700).
//   - Marshals cfg to YAML.
//   - Writes atomically via a temp file + rename.
//   - Ensures final file permissions are 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	// Atomic write: write to temp file in same directory then rename.
	tmp, err := os.CreateTemp(dir, ".vivaah-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Ensure we clean up temp file on error.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}

	// Flush and close before chmod/rename.
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	// Set permissions to 0600 on temp file before rename.
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	// Rename over the target path.
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}

	return nil
}

// Save is a convenience method on Config that delegates to the
// package-level Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
