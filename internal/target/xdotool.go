package target

import (
	"context"
	"os/exec"
	"strconv"
	"strings"
)

// xdotoolResolver queries the active window on X11 via xdotool and xprop
type xdotoolResolver struct{}

func (r *xdotoolResolver) Resolve(ctx context.Context) (*Identity, error) {
	if _, err := exec.LookPath("xdotool"); err != nil {
		return nil, nil
	}

	out, err := exec.CommandContext(ctx, "xdotool", "getactivewindow").Output()
	if err != nil {
		return nil, nil
	}
	windowID := strings.TrimSpace(string(out))
	if windowID == "" {
		return nil, nil
	}

	props, err := exec.CommandContext(ctx, "xprop", "-id", windowID, "WM_CLASS", "_NET_WM_PID").Output()
	if err != nil {
		return &Identity{Handle: windowID}, nil
	}

	class, pid := parseXprop(string(props))
	return &Identity{
		ProcessName: processName(pid),
		WindowClass: class,
		Handle:      windowID,
	}, nil
}

// parseXprop pulls the window class and owning pid out of xprop output,
// e.g.:
//
//	WM_CLASS(STRING) = "Navigator", "firefox"
//	_NET_WM_PID(CARDINAL) = 1234
func parseXprop(output string) (class string, pid int) {
	for _, line := range strings.Split(output, "\n") {
		switch {
		case strings.HasPrefix(line, "WM_CLASS"):
			parts := strings.Split(line, "\"")
			// The last quoted value is the class name proper.
			if len(parts) >= 4 {
				class = parts[3]
			} else if len(parts) >= 2 {
				class = parts[1]
			}
		case strings.HasPrefix(line, "_NET_WM_PID"):
			if idx := strings.LastIndex(line, "= "); idx >= 0 {
				pid, _ = strconv.Atoi(strings.TrimSpace(line[idx+2:]))
			}
		}
	}
	return class, pid
}
