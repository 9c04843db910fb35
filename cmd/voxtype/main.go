package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/voxtype/voxtype/internal/bus"
	"github.com/voxtype/voxtype/internal/daemon"
	"github.com/voxtype/voxtype/internal/deps"
	"github.com/voxtype/voxtype/internal/profile"
	"github.com/voxtype/voxtype/internal/tui"
)

func main() {
	_ = rootCmd.Execute()
}

var rootCmd = &cobra.Command{
	Use:   "voxtype",
	Short: "Universal text injection for voice dictation on Linux desktops",
}

func init() {
	rootCmd.AddCommand(
		serveCmd(),
		injectCmd(),
		statusCmd(),
		lastCmd(),
		profilesCmd(),
		doctorCmd(),
		configureCmd(),
		versionCmd(),
		stopCmd(),
	)
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the injection daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := daemon.New()
			if err != nil {
				return fmt.Errorf("failed to create daemon: %w", err)
			}
			return d.Run()
		},
	}
}

func injectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inject [text]",
		Short: "Inject text into the focused application",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := bus.SendInject(strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("failed to inject: %w (is the daemon running?)", err)
			}
			fmt.Print(resp)
			return nil
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Get the engine's current phase",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := bus.SendCommand('s')
			if err != nil {
				return fmt.Errorf("failed to get status: %w", err)
			}
			fmt.Print(resp)
			return nil
		},
	}
}

func lastCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "last",
		Short: "Show the last injection outcome",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := bus.SendCommand('p')
			if err != nil {
				return fmt.Errorf("failed to get last outcome: %w", err)
			}
			fmt.Print(resp)
			return nil
		},
	}
}

func profilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "Print the built-in compatibility profile table",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PROFILE\tCATEGORY\tORDER\tDELAY\tCHORD")
			for _, p := range profile.NewRegistry().All() {
				order := make([]string, 0, len(p.Order))
				for _, k := range p.Order {
					order = append(order, string(k))
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					p.ID, p.Category, strings.Join(order, ","),
					p.Tuning.InterKeyDelay, p.Tuning.PasteChord)
			}
			return w.Flush()
		},
	}
}

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check availability of the external tools injection relies on",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TOOL\tSTATUS\tPURPOSE")
			missing := 0
			for _, dep := range deps.Table() {
				status := deps.Check(dep.Name)
				state := "ok"
				if !status.Installed {
					state = "missing"
					if !dep.Optional {
						missing++
					} else {
						state = "missing (optional)"
					}
				} else if status.Version != "" {
					state = status.Version
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", dep.Name, state, dep.Purpose)
			}
			w.Flush()
			if missing > 0 {
				return fmt.Errorf("%d required tool(s) missing", missing)
			}
			return nil
		},
	}
}

func configureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Interactively edit injection settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.RunConfigure()
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Get protocol version",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := bus.SendCommand('v')
			if err != nil {
				return fmt.Errorf("failed to get version: %w", err)
			}
			fmt.Print(resp)
			return nil
		},
	}
}

func stopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := bus.SendCommand('q')
			if err != nil {
				return fmt.Errorf("failed to stop daemon: %w", err)
			}
			fmt.Print(resp)
			return nil
		},
	}
}
