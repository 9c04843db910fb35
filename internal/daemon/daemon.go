package daemon

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/voxtype/voxtype/internal/audit"
	"github.com/voxtype/voxtype/internal/bus"
	"github.com/voxtype/voxtype/internal/config"
	"github.com/voxtype/voxtype/internal/engine"
	"github.com/voxtype/voxtype/internal/monitor"
	"github.com/voxtype/voxtype/internal/notify"
	"github.com/voxtype/voxtype/internal/profile"
)

// Daemon owns the engine and exposes it over the control socket.
// External collaborators (the hotkey listener, the transcriber front
// end) deliver text here and await the outcome.
type Daemon struct {
	manager *config.Manager
	engine  *engine.Engine
	sink    audit.Sink

	// notifier is swapped by config reloads while handler goroutines
	// read it, so access goes through the mutex.
	mu       sync.RWMutex
	notifier notify.Notifier

	ctx    context.Context
	cancel context.CancelFunc
}

func New() (*Daemon, error) {
	ctx, cancel := context.WithCancel(context.Background())
	d := &Daemon{
		ctx:    ctx,
		cancel: cancel,
	}

	manager, err := config.NewManager(d.applyConfig)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	d.manager = manager

	cfg := manager.GetConfig()

	sink := audit.Sink(audit.Nop{})
	if cfg.Audit.Enabled {
		fileSink, err := audit.NewFileSink(audit.Config{
			Path:       cfg.Audit.Path,
			MaxSizeMB:  cfg.Audit.MaxSizeMB,
			MaxBackups: cfg.Audit.MaxBackups,
			MaxAgeDays: cfg.Audit.MaxAgeDays,
		})
		if err != nil {
			cancel()
			return nil, fmt.Errorf("failed to open audit sink: %w", err)
		}
		sink = fileSink
	}
	d.sink = sink

	eng, err := engine.NewSystem(engine.Config{
		Monitor:        monitor.New(cfg.MonitorSettings()),
		Sink:           sink,
		AttemptTimeout: cfg.Injection.AttemptTimeout,
		ResolveTimeout: cfg.Injection.ResolveTimeout,
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	d.engine = eng
	d.applyConfig(cfg)

	return d, nil
}

// applyConfig pushes reloadable settings into the running engine
func (d *Daemon) applyConfig(cfg *config.Config) {
	reg := d.engine.Registry()
	reg.SetOverrides(cfg.ProfileOverrides())
	reg.SetTuningDefaults(profile.TuningDefaults{
		SettleDelay:      cfg.Injection.SettleDelay,
		RestoreClipboard: cfg.Injection.RestoreClipboard,
	})
	d.engine.Apply(engine.Settings{
		AttemptTimeout:   cfg.Injection.AttemptTimeout,
		ResolveTimeout:   cfg.Injection.ResolveTimeout,
		DisableClipboard: cfg.Injection.DisableClipboard,
	})

	d.mu.Lock()
	d.notifier = notify.FromConfig(cfg.Notifications.Enabled, cfg.Notifications.Type)
	d.mu.Unlock()
}

func (d *Daemon) currentNotifier() notify.Notifier {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.notifier
}

func (d *Daemon) Run() error {
	if err := bus.CheckExistingDaemon(); err != nil {
		return err
	}

	ln, err := bus.Listen()
	if err != nil {
		return err
	}
	defer ln.Close()

	if err := bus.CreatePidFile(); err != nil {
		return fmt.Errorf("failed to create PID file: %w", err)
	}
	defer bus.RemovePidFile()

	if err := d.manager.StartWatching(d.ctx); err != nil {
		log.Printf("Daemon: config watching unavailable: %v", err)
	}
	defer d.manager.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigCh)

	go func() {
		sig := <-sigCh
		log.Printf("Received signal %v, shutting down gracefully", sig)
		d.cancel()
	}()

	// Close the listener when context is done
	go func() {
		<-d.ctx.Done()
		ln.Close()
	}()

	log.Printf("Daemon started, listening on socket")

	for {
		c, err := ln.Accept()
		if err != nil {
			if d.ctx.Err() != nil {
				log.Printf("Shutdown requested")
				return nil
			}
			log.Printf("Accept error: %v", err)
			return fmt.Errorf("accept failed: %w", err)
		}
		go d.handle(c)
	}
}

func (d *Daemon) handle(c net.Conn) {
	defer c.Close()

	line, err := bufio.NewReader(c).ReadString('\n')
	if err != nil {
		log.Printf("Client read error: %v", err)
		fmt.Fprintf(c, "ERR read_error: %v\n", err)
		return
	}
	line = strings.TrimRight(line, "\n")
	if len(line) == 0 {
		fmt.Fprint(c, "ERR empty\n")
		return
	}
	cmd := line[0]

	switch cmd {
	case 'i':
		d.inject(c, line[1:])
	case 's':
		fmt.Fprintf(c, "STATUS phase=%s\n", d.engine.Phase())
	case 'p':
		d.lastOutcome(c)
	case 'v':
		fmt.Fprintf(c, "STATUS proto=%s\n", bus.ProtoVer)
	case 'q':
		fmt.Fprint(c, "OK quitting\n")
		d.cancel()
	default:
		log.Printf("Unknown command: %c", cmd)
		fmt.Fprintf(c, "ERR unknown=%q\n", cmd)
	}
}

func (d *Daemon) inject(c net.Conn, payload string) {
	text, err := bus.DecodePayload(payload)
	if err != nil {
		fmt.Fprintf(c, "ERR bad_payload: %v\n", err)
		return
	}

	outcome, err := d.engine.Inject(d.ctx, text, engine.Options{})
	if err != nil {
		fmt.Fprintf(c, "ERR %v\n", err)
		return
	}

	n := d.currentNotifier()
	if outcome.Success {
		go n.InjectionComplete(string(outcome.Strategy))
		fmt.Fprintf(c, "OK injected strategy=%s fallbacks=%d dur=%s\n",
			outcome.Strategy, outcome.Fallbacks, outcome.Duration.Round(1e6))
		return
	}

	go n.InjectionFailed(string(outcome.FailureKind))
	fmt.Fprintf(c, "FAIL kind=%s fallbacks=%d dur=%s\n",
		outcome.FailureKind, outcome.Fallbacks, outcome.Duration.Round(1e6))
}

func (d *Daemon) lastOutcome(c net.Conn) {
	o := d.engine.LastOutcome()
	if o == nil {
		fmt.Fprint(c, "STATUS last=none\n")
		return
	}
	fmt.Fprintf(c, "STATUS last=%s success=%t strategy=%s profile=%s kind=%s\n",
		o.CorrelationID, o.Success, o.Strategy, o.ProfileID, o.FailureKind)
}
