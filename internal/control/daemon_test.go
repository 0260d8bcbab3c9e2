package control

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

func startDaemon(t *testing.T, handled chan<- Command) (*Daemon, Paths) {
	t.Helper()
	t.Setenv(PIDEnv, "")

	p := Paths{Dir: t.TempDir()}
	d := NewDaemon(DaemonConfig{
		Paths: p,
		Handler: func(c Command) error {
			handled <- c
			return nil
		},
	})
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(func() {
		d.Stop()
		d.Wait()
		_ = d.Close()
	})
	return d, p
}

func waitFor(t *testing.T, handled <-chan Command) Command {
	t.Helper()
	select {
	case c := <-handled:
		return c
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for command")
	}
	return Command{}
}

func TestDaemonWritesPidFile(t *testing.T) {
	_, p := startDaemon(t, make(chan Command, 1))

	pid, err := p.LookupPID()
	if err != nil {
		t.Fatalf("LookupPID failed: %v", err)
	}
	if pid != os.Getpid() {
		t.Errorf("pid file = %d, want %d", pid, os.Getpid())
	}
}

func TestDaemonReceivesCommands(t *testing.T) {
	handled := make(chan Command, 4)
	_, p := startDaemon(t, handled)

	// No-op signal: delivery relies on the file watcher alone.
	c := &Client{Paths: p, Signal: func(int) error { return nil }}
	if err := c.Send(Tiling(CmdGridMode, ArgToggle)); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if got := waitFor(t, handled); got != Tiling(CmdGridMode, ArgToggle) {
		t.Errorf("handled %+v", got)
	}

	if err := c.Send(Workspace(CmdSwitch, "2")); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if got := waitFor(t, handled); got != Workspace(CmdSwitch, "2") {
		t.Errorf("handled %+v", got)
	}

	if _, err := os.Stat(p.CommandFile(ChannelTiling)); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("command file not consumed: %v", err)
	}
}

func TestDaemonSignal(t *testing.T) {
	handled := make(chan Command, 4)
	_, p := startDaemon(t, handled)

	c := &Client{Paths: p}
	if err := c.Send(Tiling(CmdRecalculate, "")); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if got := waitFor(t, handled); got != Tiling(CmdRecalculate, "") {
		t.Errorf("handled %+v", got)
	}

	select {
	case extra := <-handled:
		t.Errorf("command delivered twice: %+v", extra)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestDaemonPendingCommand(t *testing.T) {
	t.Setenv(PIDEnv, "")
	p := Paths{Dir: t.TempDir()}
	if err := writeLine(p.CommandFile(ChannelTiling), "disable"); err != nil {
		t.Fatal(err)
	}

	handled := make(chan Command, 1)
	d := NewDaemon(DaemonConfig{Paths: p, Handler: func(c Command) error {
		handled <- c
		return nil
	}})
	if err := d.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer func() {
		d.Stop()
		d.Wait()
		_ = d.Close()
	}()

	if got := waitFor(t, handled); got != Tiling(CmdDisable, "") {
		t.Errorf("handled %+v", got)
	}
}

func TestDaemonPublishAndClose(t *testing.T) {
	t.Setenv(PIDEnv, "")
	p := Paths{Dir: t.TempDir()}
	d := NewDaemon(DaemonConfig{Paths: p})

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- d.Run(ctx) }()

	c := &Client{Paths: p}
	deadline := time.Now().Add(5 * time.Second)
	for {
		if err := d.Publish("smart", "1"); err == nil {
			if s, err := c.Status(); err == nil && s == "smart" {
				break
			}
		}
		if time.Now().After(deadline) {
			t.Fatal("status never published")
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	if err := <-errc; err != nil {
		t.Fatalf("Run returned %v", err)
	}
	for _, path := range []string{p.PidFile(), p.StatusFile(), p.WorkspaceFile()} {
		if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("%s left behind", path)
		}
	}
}

func TestDaemonRefusesSecondInstance(t *testing.T) {
	t.Setenv(PIDEnv, "")
	p := Paths{Dir: t.TempDir()}
	// pid 1 is always alive.
	if err := os.WriteFile(p.PidFile(), []byte("1"), 0o600); err != nil {
		t.Fatal(err)
	}
	d := NewDaemon(DaemonConfig{Paths: p})
	if err := d.Start(context.Background()); err == nil {
		d.Stop()
		t.Error("expected an error while another instance is running")
	}
}
