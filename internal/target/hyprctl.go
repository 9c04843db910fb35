package target

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// hyprctlResolver asks the Hyprland compositor for the active window
type hyprctlResolver struct{}

type hyprctlWindow struct {
	Address      string `json:"address"`
	Class        string `json:"class"`
	InitialClass string `json:"initialClass"`
	PID          int    `json:"pid"`
}

func (r *hyprctlResolver) Resolve(ctx context.Context) (*Identity, error) {
	if _, err := exec.LookPath("hyprctl"); err != nil {
		return nil, nil
	}

	cmd := exec.CommandContext(ctx, "hyprctl", "activewindow", "-j")
	output, err := cmd.Output()
	if err != nil {
		// No active window, or the compositor refused the query.
		return nil, nil
	}

	return parseHyprctlWindow(output)
}

func parseHyprctlWindow(data []byte) (*Identity, error) {
	var w hyprctlWindow
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to parse hyprctl output: %w", err)
	}
	if w.Address == "" && w.Class == "" {
		return nil, nil
	}

	class := w.Class
	if class == "" {
		class = w.InitialClass
	}

	return &Identity{
		ProcessName: processName(w.PID),
		WindowClass: class,
		Handle:      w.Address,
	}, nil
}

// processName reads the command name of a pid from /proc. Empty when the
// process is gone or protected; the window class still identifies most
// targets then.
func processName(pid int) string {
	if pid <= 0 {
		return ""
	}
	comm, err := os.ReadFile(fmt.Sprintf("/proc/%d/comm", pid))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(comm))
}
