package config

import (
	"github.com/voxtype/voxtype/internal/monitor"
	"github.com/voxtype/voxtype/internal/profile"
	"github.com/voxtype/voxtype/internal/strategy"
)

// ProfileOverrides converts the user's override table into registry
// overrides. Invalid strategy names were already rejected by Validate.
func (c *Config) ProfileOverrides() []profile.Override {
	out := make([]profile.Override, 0, len(c.Overrides))
	for _, o := range c.Overrides {
		po := profile.Override{
			Process:          o.Process,
			Class:            o.Class,
			InterKeyDelay:    o.InterKeyDelay,
			PasteChord:       strategy.PasteChord(o.PasteChord),
			RestoreClipboard: o.RestoreClipboard,
		}
		for _, s := range o.Strategies {
			if kind, err := strategy.ParseKind(s); err == nil {
				po.Order = append(po.Order, kind)
			}
		}
		out = append(out, po)
	}
	return out
}

// MonitorSettings converts the monitor section into the monitor's own
// config type.
func (c *Config) MonitorSettings() monitor.Config {
	return monitor.Config{
		WindowSize:  c.Monitor.WindowSize,
		MinAttempts: c.Monitor.MinAttempts,
		DemoteBelow: c.Monitor.DemoteBelow,
	}
}
