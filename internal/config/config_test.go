package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/voxtype/voxtype/internal/strategy"
)

func TestConfig_Validate(t *testing.T) {
	boolPtr := func(b bool) *bool { return &b }

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "zero attempt timeout",
			mutate:  func(c *Config) { c.Injection.AttemptTimeout = 0 },
			wantErr: true,
		},
		{
			name:    "negative settle delay",
			mutate:  func(c *Config) { c.Injection.SettleDelay = -time.Second },
			wantErr: true,
		},
		{
			name:    "zero monitor window",
			mutate:  func(c *Config) { c.Monitor.WindowSize = 0 },
			wantErr: true,
		},
		{
			name:    "demote threshold above one",
			mutate:  func(c *Config) { c.Monitor.DemoteBelow = 1.5 },
			wantErr: true,
		},
		{
			name: "audit enabled without path",
			mutate: func(c *Config) {
				c.Audit.Enabled = true
				c.Audit.Path = ""
			},
			wantErr: true,
		},
		{
			name: "audit enabled with path",
			mutate: func(c *Config) {
				c.Audit.Enabled = true
				c.Audit.Path = "/tmp/voxtype-audit.log"
			},
			wantErr: false,
		},
		{
			name:    "invalid notification type",
			mutate:  func(c *Config) { c.Notifications.Type = "carrier-pigeon" },
			wantErr: true,
		},
		{
			name: "override without matcher",
			mutate: func(c *Config) {
				c.Overrides = []OverrideConfig{{Strategies: []string{"clipboard"}}}
			},
			wantErr: true,
		},
		{
			name: "override with unknown strategy",
			mutate: func(c *Config) {
				c.Overrides = []OverrideConfig{{Process: "firefox", Strategies: []string{"telepathy"}}}
			},
			wantErr: true,
		},
		{
			name: "override with unknown paste chord",
			mutate: func(c *Config) {
				c.Overrides = []OverrideConfig{{Process: "firefox", PasteChord: "ctrl+q"}}
			},
			wantErr: true,
		},
		{
			name: "valid override",
			mutate: func(c *Config) {
				c.Overrides = []OverrideConfig{{
					Process:          "firefox",
					Strategies:       []string{"clipboard", "synthetic"},
					InterKeyDelay:    2 * time.Millisecond,
					PasteChord:       "ctrl+shift+v",
					RestoreClipboard: boolPtr(false),
				}}
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	want := DefaultConfig()
	if c.Injection.AttemptTimeout != want.Injection.AttemptTimeout {
		t.Errorf("attempt timeout = %v, want default %v", c.Injection.AttemptTimeout, want.Injection.AttemptTimeout)
	}
	if c.Monitor.WindowSize != want.Monitor.WindowSize {
		t.Errorf("window size = %d, want default %d", c.Monitor.WindowSize, want.Monitor.WindowSize)
	}
}

func TestLoad_FromFile(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tempDir)

	content := `
[injection]
attempt_timeout = "750ms"
settle_delay = "200ms"
restore_clipboard = false

[monitor]
window_size = 16

[notifications]
enabled = false
type = "log"

[[override]]
process = "obsidian"
strategies = ["clipboard"]
inter_key_delay = "3ms"

[[override]]
class = "jetbrains"
paste_chord = "ctrl+shift+v"
`
	configDir := filepath.Join(tempDir, "voxtype")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}

	if c.Injection.AttemptTimeout != 750*time.Millisecond {
		t.Errorf("attempt timeout = %v, want 750ms", c.Injection.AttemptTimeout)
	}
	if c.Injection.SettleDelay != 200*time.Millisecond {
		t.Errorf("settle delay = %v, want 200ms", c.Injection.SettleDelay)
	}
	if c.Injection.RestoreClipboard {
		t.Errorf("restore_clipboard = true, want false")
	}
	// Unset fields keep their defaults.
	if c.Injection.ResolveTimeout != DefaultConfig().Injection.ResolveTimeout {
		t.Errorf("resolve timeout = %v, want default", c.Injection.ResolveTimeout)
	}
	if c.Monitor.WindowSize != 16 {
		t.Errorf("window size = %d, want 16", c.Monitor.WindowSize)
	}
	if c.Monitor.MinAttempts != DefaultConfig().Monitor.MinAttempts {
		t.Errorf("min attempts = %d, want default", c.Monitor.MinAttempts)
	}
	if c.Notifications.Type != "log" || c.Notifications.Enabled {
		t.Errorf("notifications = %+v, want disabled log", c.Notifications)
	}
	if len(c.Overrides) != 2 {
		t.Fatalf("overrides = %d, want 2", len(c.Overrides))
	}
	if c.Overrides[0].Process != "obsidian" || c.Overrides[0].InterKeyDelay != 3*time.Millisecond {
		t.Errorf("override[0] = %+v", c.Overrides[0])
	}
	if c.Overrides[1].Class != "jetbrains" || c.Overrides[1].PasteChord != "ctrl+shift+v" {
		t.Errorf("override[1] = %+v", c.Overrides[1])
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tempDir)

	configDir := filepath.Join(tempDir, "voxtype")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.toml"), []byte("[injection\nbroken"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected parse error for malformed file")
	}
}

func TestSave_RoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	c := DefaultConfig()
	c.Injection.AttemptTimeout = 900 * time.Millisecond
	c.Overrides = []OverrideConfig{{Process: "kitty", Strategies: []string{"synthetic"}}}

	if err := Save(c); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Injection.AttemptTimeout != 900*time.Millisecond {
		t.Errorf("attempt timeout = %v, want 900ms", loaded.Injection.AttemptTimeout)
	}
	if len(loaded.Overrides) != 1 || loaded.Overrides[0].Process != "kitty" {
		t.Errorf("overrides = %+v", loaded.Overrides)
	}
}

func TestProfileOverrides_Conversion(t *testing.T) {
	restore := false
	c := DefaultConfig()
	c.Overrides = []OverrideConfig{{
		Process:          "obsidian",
		Strategies:       []string{"clipboard", "synthetic"},
		InterKeyDelay:    2 * time.Millisecond,
		PasteChord:       "ctrl+v",
		RestoreClipboard: &restore,
	}}

	got := c.ProfileOverrides()
	if len(got) != 1 {
		t.Fatalf("overrides = %d, want 1", len(got))
	}
	o := got[0]
	if o.Process != "obsidian" {
		t.Errorf("process = %s", o.Process)
	}
	if len(o.Order) != 2 || o.Order[0] != strategy.ClipboardPaste || o.Order[1] != strategy.SyntheticInput {
		t.Errorf("order = %v", o.Order)
	}
	if o.PasteChord != strategy.ChordCtrlV {
		t.Errorf("chord = %s", o.PasteChord)
	}
	if o.RestoreClipboard == nil || *o.RestoreClipboard {
		t.Errorf("restore = %v, want false", o.RestoreClipboard)
	}
}

func TestMonitorSettings_Conversion(t *testing.T) {
	c := DefaultConfig()
	c.Monitor.WindowSize = 8
	c.Monitor.MinAttempts = 3
	c.Monitor.DemoteBelow = 0.25

	got := c.MonitorSettings()
	if got.WindowSize != 8 || got.MinAttempts != 3 || got.DemoteBelow != 0.25 {
		t.Errorf("MonitorSettings() = %+v", got)
	}
}
