package control

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Client talks to a running instance through the runtime directory.
type Client struct {
	Paths Paths
	// Signal delivers the wake-up to the running instance. Nil uses
	// SIGUSR1 via kill(2).
	Signal func(pid int) error
}

// NewClient returns a client for $XDG_RUNTIME_DIR.
func NewClient() (*Client, error) {
	p, err := RuntimePaths()
	if err != nil {
		return nil, err
	}
	return &Client{Paths: p}, nil
}

func signalUSR1(pid int) error {
	return unix.Kill(pid, unix.SIGUSR1)
}

// Send writes cmd to its command file and wakes the running instance.
func (c *Client) Send(cmd Command) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	pid, err := c.Paths.LookupPID()
	if err != nil {
		return err
	}

	if err := writeLine(c.Paths.CommandFile(cmd.Channel), cmd.String()); err != nil {
		return fmt.Errorf("failed to write command file: %w", err)
	}

	signal := c.Signal
	if signal == nil {
		signal = signalUSR1
	}
	if err := signal(pid); err != nil {
		return fmt.Errorf("failed to signal tilewm (pid %d): %w", pid, err)
	}
	return nil
}

// Status returns the published tiling mode: stacking, grid or smart.
func (c *Client) Status() (string, error) {
	s, err := readLine(c.Paths.StatusFile())
	if err != nil {
		return "", fmt.Errorf("failed to read tiling status file: %w", err)
	}
	if s == "" {
		return "", fmt.Errorf("tiling status file %s is empty", c.Paths.StatusFile())
	}
	return s, nil
}

// CurrentWorkspace returns the published workspace name.
func (c *Client) CurrentWorkspace() (string, error) {
	s, err := readLine(c.Paths.WorkspaceFile())
	if err != nil {
		return "", fmt.Errorf("failed to read workspace status file: %w", err)
	}
	if s == "" {
		return "", fmt.Errorf("workspace status file %s is empty", c.Paths.WorkspaceFile())
	}
	return s, nil
}
