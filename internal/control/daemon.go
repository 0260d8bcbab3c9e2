package control

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"golang.org/x/sys/unix"
)

// Handler executes a command inside the running instance.
type Handler func(Command) error

// DaemonConfig holds configuration for the command daemon.
type DaemonConfig struct {
	Paths   Paths
	Handler Handler
	Logger  *log.Logger
}

// Daemon receives commands for a running instance. It reacts both to
// changes of the command files and to SIGUSR1, so clients that only
// signal and clients that only write are served alike.
type Daemon struct {
	paths  Paths
	handle Handler
	logger *log.Logger

	watcher *fsnotify.Watcher
	signals chan os.Signal
	cancel  context.CancelFunc
	done    chan struct{}

	// publish serialises status file writes.
	publish sync.Mutex
}

// NewDaemon creates a daemon. Nothing is touched on disk until Start.
func NewDaemon(cfg DaemonConfig) *Daemon {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Daemon{
		paths:   cfg.Paths,
		handle:  cfg.Handler,
		logger:  logger,
		signals: make(chan os.Signal, 1),
		done:    make(chan struct{}),
	}
}

// Start claims the runtime directory and begins processing commands in
// the background until ctx is cancelled or Stop is called.
func (d *Daemon) Start(ctx context.Context) error {
	if pid, err := d.paths.LookupPID(); err == nil && pid != os.Getpid() && processAlive(pid) {
		return fmt.Errorf("tilewm already running (pid %d)", pid)
	}

	if err := os.WriteFile(d.paths.PidFile(), []byte(strconv.Itoa(os.Getpid())), 0o600); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		_ = os.Remove(d.paths.PidFile())
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(d.paths.Dir); err != nil {
		_ = watcher.Close()
		_ = os.Remove(d.paths.PidFile())
		return fmt.Errorf("failed to watch %s: %w", d.paths.Dir, err)
	}
	d.watcher = watcher

	signal.Notify(d.signals, unix.SIGUSR1)

	ctx, d.cancel = context.WithCancel(ctx)
	d.logger.Info("command channel ready", "dir", d.paths.Dir, "pid", os.Getpid())

	// Commands written before we started watching.
	d.drain()

	go d.loop(ctx)
	return nil
}

// Run starts the daemon and blocks until ctx is done.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.Start(ctx); err != nil {
		return err
	}
	<-d.done
	return d.Close()
}

// Stop signals the daemon to stop.
func (d *Daemon) Stop() {
	if d.cancel != nil {
		d.cancel()
	}
}

// Wait blocks until the processing loop has exited.
func (d *Daemon) Wait() {
	<-d.done
}

func (d *Daemon) loop(ctx context.Context) {
	defer close(d.done)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-d.watcher.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if ch, ok := d.paths.channelOf(ev.Name); ok {
				d.process(ch)
			}
		case err, ok := <-d.watcher.Errors:
			if !ok {
				return
			}
			d.logger.Warn("watcher error", "err", err)
		case <-d.signals:
			d.logger.Debug("woken by SIGUSR1")
			d.drain()
		}
	}
}

func (d *Daemon) drain() {
	d.process(ChannelTiling)
	d.process(ChannelWorkspace)
}

// process consumes the pending command of a channel, if any.
func (d *Daemon) process(ch Channel) {
	path := d.paths.CommandFile(ch)
	line, err := readLine(path)
	if errors.Is(err, os.ErrNotExist) {
		return
	}
	if err != nil {
		d.logger.Warn("failed to read command file", "path", path, "err", err)
		return
	}
	if line == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		d.logger.Warn("failed to remove command file", "path", path, "err", err)
	}

	cmd, err := Parse(ch, line)
	if err != nil {
		d.logger.Warn("ignoring command", "channel", ch, "line", line, "err", err)
		return
	}
	d.logger.Debug("command", "channel", ch, "cmd", cmd)
	if d.handle == nil {
		return
	}
	if err := d.handle(cmd); err != nil {
		d.logger.Error("command failed", "cmd", cmd, "err", err)
	}
}

// Publish writes the status files read by clients.
func (d *Daemon) Publish(mode, workspace string) error {
	d.publish.Lock()
	defer d.publish.Unlock()

	if err := writeLine(d.paths.StatusFile(), mode); err != nil {
		return fmt.Errorf("failed to write status file: %w", err)
	}
	if err := writeLine(d.paths.WorkspaceFile(), workspace); err != nil {
		return fmt.Errorf("failed to write workspace file: %w", err)
	}
	return nil
}

// Close releases the watcher and removes the pid and status files. Call it
// after the loop has exited.
func (d *Daemon) Close() error {
	signal.Stop(d.signals)
	var errs []error
	if d.watcher != nil {
		errs = append(errs, d.watcher.Close())
	}
	for _, p := range []string{d.paths.PidFile(), d.paths.StatusFile(), d.paths.WorkspaceFile()} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	d.logger.Info("command channel closed")
	return errors.Join(errs...)
}

// processAlive checks pid with signal 0. EPERM still means it exists.
func processAlive(pid int) bool {
	err := unix.Kill(pid, 0)
	return err == nil || errors.Is(err, unix.EPERM)
}
