package config

import "time"

// DefaultConfig returns the configuration used when no file exists yet
func DefaultConfig() *Config {
	return &Config{
		Injection: InjectionConfig{
			AttemptTimeout:   500 * time.Millisecond,
			ResolveTimeout:   250 * time.Millisecond,
			SettleDelay:      150 * time.Millisecond,
			RestoreClipboard: true,
			DisableClipboard: false,
		},
		Monitor: MonitorConfig{
			WindowSize:  32,
			MinAttempts: 5,
			DemoteBelow: 0.5,
		},
		Audit: AuditConfig{
			Enabled:    false,
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 30,
		},
		Notifications: NotificationsConfig{
			Enabled: true,
			Type:    "desktop",
		},
	}
}
