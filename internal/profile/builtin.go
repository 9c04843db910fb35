package profile

import (
	"time"

	"github.com/voxtype/voxtype/internal/strategy"
)

// builtinProfiles is the seed table. Entries differ only in strategy
// order, pacing and character policy; the code path is identical for
// every row.
func builtinProfiles() []Profile {
	typeFirst := []strategy.Kind{strategy.SyntheticInput, strategy.ClipboardPaste}
	pasteFirst := []strategy.Kind{strategy.ClipboardPaste, strategy.SyntheticInput}

	return []Profile{
		{
			ID:       "chromium",
			Category: CategoryBrowser,
			Match: Match{
				Processes: []string{"chrome", "chromium", "chromium-browser", "brave", "msedge", "vivaldi", "opera"},
				Classes:   []string{"chromium", "google-chrome", "brave-browser", "microsoft-edge"},
			},
			// Chromium address bars are known to reject bursts of
			// synthetic events; paste is the reliable path.
			Order:  pasteFirst,
			Tuning: tuning(0, strategy.ChordCtrlV),
		},
		{
			ID:       "firefox",
			Category: CategoryBrowser,
			Match: Match{
				Processes: []string{"firefox", "firefox-esr", "librewolf", "zen"},
				Classes:   []string{"firefox", "librewolf"},
			},
			Order:  typeFirst,
			Tuning: tuning(0, strategy.ChordCtrlV),
		},
		{
			ID:       "ide",
			Category: CategoryIDE,
			Match: Match{
				Processes: []string{"code", "codium", "idea", "goland", "pycharm", "clion", "webstorm", "rider", "studio"},
				Classes:   []string{"code", "jetbrains", "visual studio"},
			},
			// Editors with heavy key handling drop fast input.
			Order:  typeFirst,
			Tuning: tuning(2*time.Millisecond, strategy.ChordCtrlV),
		},
		{
			ID:       "office",
			Category: CategoryOffice,
			Match: Match{
				Processes: []string{"soffice", "soffice.bin", "libreoffice", "onlyoffice"},
				Classes:   []string{"libreoffice", "onlyoffice"},
			},
			Order:  pasteFirst,
			Tuning: tuning(0, strategy.ChordCtrlV),
		},
		{
			ID:       "terminal",
			Category: CategoryTerminal,
			Match: Match{
				Processes: []string{"alacritty", "kitty", "foot", "wezterm", "konsole", "gnome-terminal-server", "xterm", "ghostty"},
				Classes:   []string{"alacritty", "kitty", "foot", "wezterm", "konsole", "gnome-terminal", "xterm", "ghostty"},
			},
			// Terminals bind ctrl+v themselves; paste goes through
			// ctrl+shift+v there.
			Order:  typeFirst,
			Tuning: tuning(0, strategy.ChordCtrlShiftV),
		},
		{
			ID:       "chat",
			Category: CategoryChat,
			Match: Match{
				Processes: []string{"discord", "slack", "telegram-desktop", "signal-desktop", "element-desktop"},
				Classes:   []string{"discord", "slack", "telegram", "signal", "element"},
			},
			Order:  typeFirst,
			Tuning: tuning(1*time.Millisecond, strategy.ChordCtrlV),
		},
		{
			ID:       "editor",
			Category: CategoryEditor,
			Match: Match{
				Processes: []string{"gedit", "kate", "mousepad", "gnome-text-editor", "pluma"},
				Classes:   []string{"gedit", "kate", "mousepad", "org.gnome.texteditor"},
			},
			Order:  typeFirst,
			Tuning: tuning(0, strategy.ChordCtrlV),
		},
	}
}

// genericProfile is the fallback for unknown targets and unresolved
// focus: type first, paste as fallback, no special pacing.
func genericProfile() Profile {
	return Profile{
		ID:       "generic",
		Category: CategoryGeneric,
		Order:    []strategy.Kind{strategy.SyntheticInput, strategy.ClipboardPaste},
		Tuning:   strategy.DefaultTuning(),
	}
}

func tuning(delay time.Duration, chord strategy.PasteChord) strategy.Tuning {
	t := strategy.DefaultTuning()
	t.InterKeyDelay = delay
	t.PasteChord = chord
	return t
}
