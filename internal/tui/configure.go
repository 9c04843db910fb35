package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/muesli/termenv"
	"github.com/voxtype/voxtype/internal/config"
)

// ConfigSection represents a section in the configure menu
type ConfigSection string

const (
	SectionTimeouts    ConfigSection = "timeouts"
	SectionOverride    ConfigSection = "override"
	SectionSaveExit    ConfigSection = "save_exit"
	SectionDiscardExit ConfigSection = "discard_exit"
)

// RunConfigure edits the config file interactively
func RunConfigure() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	for {
		clearScreen()

		var selected ConfigSection
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[ConfigSection]().
					Title("Voxtype Configuration").
					Description("↑/↓ navigate • enter select • esc cancel").
					Options(
						huh.NewOption(timeoutsLabel(cfg), SectionTimeouts),
						huh.NewOption(fmt.Sprintf("Add Application Override (%d configured)", len(cfg.Overrides)), SectionOverride),
						huh.NewOption("Save & Exit", SectionSaveExit),
						huh.NewOption("Discard & Exit", SectionDiscardExit),
					).
					Value(&selected),
			),
		).WithTheme(getTheme())

		if err := form.Run(); err != nil {
			return err
		}

		switch selected {
		case SectionTimeouts:
			if err := editTimeouts(cfg); err != nil {
				continue
			}
		case SectionOverride:
			if err := addOverride(cfg); err != nil {
				continue
			}
		case SectionSaveExit:
			if err := cfg.Validate(); err != nil {
				fmt.Printf("Invalid configuration: %v\n", err)
				continue
			}
			return config.Save(cfg)
		case SectionDiscardExit:
			return nil
		}
	}
}

func timeoutsLabel(cfg *config.Config) string {
	return fmt.Sprintf("Injection Timeouts (attempt=%s, resolve=%s, settle=%s)",
		cfg.Injection.AttemptTimeout, cfg.Injection.ResolveTimeout, cfg.Injection.SettleDelay)
}

func editTimeouts(cfg *config.Config) error {
	attempt := cfg.Injection.AttemptTimeout.String()
	resolve := cfg.Injection.ResolveTimeout.String()
	settle := cfg.Injection.SettleDelay.String()
	restore := cfg.Injection.RestoreClipboard

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Attempt timeout").
				Description("Budget per strategy attempt, e.g. 500ms").
				Value(&attempt).
				Validate(validateDuration),
			huh.NewInput().
				Title("Resolve timeout").
				Description("Budget for the focused-window query").
				Value(&resolve).
				Validate(validateDuration),
			huh.NewInput().
				Title("Settle delay").
				Description("Wait after paste before clipboard restore").
				Value(&settle).
				Validate(validateDuration),
			huh.NewConfirm().
				Title("Restore clipboard after paste?").
				Value(&restore),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return err
	}

	cfg.Injection.AttemptTimeout, _ = time.ParseDuration(attempt)
	cfg.Injection.ResolveTimeout, _ = time.ParseDuration(resolve)
	cfg.Injection.SettleDelay, _ = time.ParseDuration(settle)
	cfg.Injection.RestoreClipboard = restore
	return nil
}

func addOverride(cfg *config.Config) error {
	var process, class, order string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Process name").
				Description("Exact process to match, e.g. obsidian (leave empty to match by class)").
				Value(&process),
			huh.NewInput().
				Title("Window class substring").
				Value(&class),
			huh.NewSelect[string]().
				Title("Strategy order").
				Options(
					huh.NewOption("synthetic, clipboard (default)", "synthetic,clipboard"),
					huh.NewOption("clipboard, synthetic", "clipboard,synthetic"),
					huh.NewOption("clipboard only", "clipboard"),
					huh.NewOption("synthetic only", "synthetic"),
				).
				Value(&order),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return err
	}

	if process == "" && class == "" {
		fmt.Println("Override needs a process or class to match on")
		return nil
	}

	o := config.OverrideConfig{Process: process, Class: class}
	if order != "" {
		o.Strategies = strings.Split(order, ",")
	}
	cfg.Overrides = append(cfg.Overrides, o)
	return nil
}

func validateDuration(s string) error {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration (e.g. 500ms)")
	}
	if d <= 0 {
		return fmt.Errorf("must be positive")
	}
	return nil
}

// clearScreen clears the terminal screen
func clearScreen() {
	output := termenv.NewOutput(os.Stdout)
	output.ClearScreen()
}
