package config

import (
	"fmt"

	"github.com/voxtype/voxtype/internal/strategy"
)

func (c *Config) Validate() error {
	if c.Injection.AttemptTimeout <= 0 {
		return fmt.Errorf("invalid injection.attempt_timeout: %v", c.Injection.AttemptTimeout)
	}
	if c.Injection.ResolveTimeout <= 0 {
		return fmt.Errorf("invalid injection.resolve_timeout: %v", c.Injection.ResolveTimeout)
	}
	if c.Injection.SettleDelay < 0 {
		return fmt.Errorf("invalid injection.settle_delay: %v", c.Injection.SettleDelay)
	}

	if c.Monitor.WindowSize <= 0 {
		return fmt.Errorf("invalid monitor.window_size: %d", c.Monitor.WindowSize)
	}
	if c.Monitor.MinAttempts <= 0 {
		return fmt.Errorf("invalid monitor.min_attempts: %d", c.Monitor.MinAttempts)
	}
	if c.Monitor.DemoteBelow <= 0 || c.Monitor.DemoteBelow > 1 {
		return fmt.Errorf("invalid monitor.demote_below: %v (must be in (0, 1])", c.Monitor.DemoteBelow)
	}

	if c.Audit.Enabled && c.Audit.Path == "" {
		return fmt.Errorf("audit.path required when audit.enabled = true")
	}

	validTypes := map[string]bool{"desktop": true, "log": true, "none": true, "": true}
	if !validTypes[c.Notifications.Type] {
		return fmt.Errorf("invalid notifications.type: %s (must be desktop, log, or none)", c.Notifications.Type)
	}

	for i, o := range c.Overrides {
		if o.Process == "" && o.Class == "" {
			return fmt.Errorf("invalid override[%d]: needs process or class to match on", i)
		}
		for _, s := range o.Strategies {
			if _, err := strategy.ParseKind(s); err != nil {
				return fmt.Errorf("invalid override[%d]: %w", i, err)
			}
		}
		if o.PasteChord != "" {
			switch strategy.PasteChord(o.PasteChord) {
			case strategy.ChordCtrlV, strategy.ChordCtrlShiftV, strategy.ChordShiftInsert:
			default:
				return fmt.Errorf("invalid override[%d]: unknown paste_chord %q", i, o.PasteChord)
			}
		}
	}

	return nil
}
