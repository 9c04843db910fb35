package notify

import (
	"fmt"
	"log"
	"os/exec"
)

// Notifier surfaces injection results to the user without ever blocking
// the caller.
type Notifier interface {
	InjectionComplete(strategy string)
	InjectionFailed(reason string)
	Error(msg string)
}

type Desktop struct{}

func (Desktop) InjectionComplete(strategy string) {
	cmd := exec.Command("notify-send", "-a", "Voxtype",
		fmt.Sprintf("Voxtype: text injected (%s)", strategy))
	if err := cmd.Run(); err != nil {
		log.Printf("Failed to send notification: %v", err)
	}
}

func (Desktop) InjectionFailed(reason string) {
	cmd := exec.Command("notify-send", "-a", "Voxtype", "-u", "critical",
		fmt.Sprintf("Voxtype: injection failed (%s) - text left on clipboard may be pasted manually", reason))
	if err := cmd.Run(); err != nil {
		log.Printf("Failed to send error notification: %v", err)
	}
}

func (Desktop) Error(msg string) {
	cmd := exec.Command("notify-send", "-a", "Voxtype", "-u", "critical", msg)
	if err := cmd.Run(); err != nil {
		log.Printf("Failed to send error notification: %v", err)
	}
}

// Log routes notifications to the daemon log instead of the desktop
type Log struct{}

func (Log) InjectionComplete(strategy string) {
	log.Printf("Notify: injection complete via %s", strategy)
}

func (Log) InjectionFailed(reason string) {
	log.Printf("Notify: injection failed: %s", reason)
}

func (Log) Error(msg string) {
	log.Printf("Notify: error: %s", msg)
}

// Nop is a Notifier that does absolutely nothing.
// Useful in unit tests or headless builds.
type Nop struct{}

func (Nop) InjectionComplete(strategy string) {}
func (Nop) InjectionFailed(reason string)     {}
func (Nop) Error(msg string)                  {}

// FromConfig maps a notifications.type setting to a Notifier
func FromConfig(enabled bool, typ string) Notifier {
	if !enabled {
		return Nop{}
	}
	switch typ {
	case "log":
		return Log{}
	case "none":
		return Nop{}
	default:
		return Desktop{}
	}
}
