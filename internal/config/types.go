package config

import (
	"time"
)

type Config struct {
	Injection     InjectionConfig     `toml:"injection"`
	Monitor       MonitorConfig       `toml:"monitor"`
	Audit         AuditConfig         `toml:"audit"`
	Notifications NotificationsConfig `toml:"notifications"`
	Overrides     []OverrideConfig    `toml:"override"`
}

type InjectionConfig struct {
	AttemptTimeout   time.Duration `toml:"attempt_timeout"`
	ResolveTimeout   time.Duration `toml:"resolve_timeout"`
	SettleDelay      time.Duration `toml:"settle_delay"`
	RestoreClipboard bool          `toml:"restore_clipboard"`
	DisableClipboard bool          `toml:"disable_clipboard"`
}

type MonitorConfig struct {
	WindowSize  int     `toml:"window_size"`
	MinAttempts int     `toml:"min_attempts"`
	DemoteBelow float64 `toml:"demote_below"`
}

type AuditConfig struct {
	Enabled    bool   `toml:"enabled"`
	Path       string `toml:"path"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

type NotificationsConfig struct {
	Enabled bool   `toml:"enabled"`
	Type    string `toml:"type"` // "desktop", "log", "none"
}

// OverrideConfig is one user-declared per-application adjustment, e.g.
// "always use clipboard for obsidian". Overrides take precedence over
// the built-in profile table.
type OverrideConfig struct {
	Process          string        `toml:"process"`
	Class            string        `toml:"class"`
	Strategies       []string      `toml:"strategies"`
	InterKeyDelay    time.Duration `toml:"inter_key_delay"`
	PasteChord       string        `toml:"paste_chord"`
	RestoreClipboard *bool         `toml:"restore_clipboard"`
}
