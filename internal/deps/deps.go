package deps

import (
	"os/exec"
	"strings"
)

// Status represents the installation status of a dependency
type Status struct {
	Installed bool
	Path      string
	Version   string
}

// Dependency describes one external tool the engine may shell out to
type Dependency struct {
	Name     string
	Purpose  string
	Optional bool
}

// Table lists every external tool with the role it plays. At least one
// input tool and one clipboard tool must be present for injection to
// work.
func Table() []Dependency {
	return []Dependency{
		{Name: "wtype", Purpose: "synthetic input and paste chords (Wayland)"},
		{Name: "ydotool", Purpose: "synthetic input via uinput (any session)", Optional: true},
		{Name: "wl-copy", Purpose: "clipboard write (Wayland)"},
		{Name: "wl-paste", Purpose: "clipboard snapshot (Wayland)"},
		{Name: "xclip", Purpose: "clipboard access (X11)", Optional: true},
		{Name: "hyprctl", Purpose: "focused-window resolution (Hyprland)", Optional: true},
		{Name: "xdotool", Purpose: "focused-window resolution (X11)", Optional: true},
		{Name: "notify-send", Purpose: "desktop notifications", Optional: true},
	}
}

// Check looks up a tool and, when possible, its version
func Check(name string) Status {
	path, err := exec.LookPath(name)
	if err != nil {
		return Status{Installed: false}
	}

	status := Status{
		Installed: true,
		Path:      path,
	}

	// Most of these tools print version info on the first line.
	cmd := exec.Command(path, "--version")
	output, err := cmd.Output()
	if err == nil {
		lines := strings.Split(string(output), "\n")
		if len(lines) > 0 {
			status.Version = strings.TrimSpace(lines[0])
		}
	}

	return status
}
