package control

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Errors reported while locating the running instance.
var (
	ErrNoRuntimeDir = errors.New("XDG_RUNTIME_DIR not set")
	ErrNoPID        = errors.New("TILEWM_PID not set - tilewm is not running")
)

// PIDEnv names the variable the running instance exports to its children.
const PIDEnv = "TILEWM_PID"

const prefix = "tilewm"

// Paths locates the command and status files inside a runtime directory.
type Paths struct {
	Dir string
}

// RuntimePaths returns the paths under $XDG_RUNTIME_DIR.
func RuntimePaths() (Paths, error) {
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		return Paths{}, ErrNoRuntimeDir
	}
	return Paths{Dir: dir}, nil
}

// CommandFile is where clients write commands for a channel.
func (p Paths) CommandFile(ch Channel) string {
	return filepath.Join(p.Dir, fmt.Sprintf("%s-%s-cmd", prefix, ch))
}

// StatusFile holds the current tiling mode.
func (p Paths) StatusFile() string {
	return filepath.Join(p.Dir, prefix+"-tiling-status")
}

// WorkspaceFile holds the current workspace name.
func (p Paths) WorkspaceFile() string {
	return filepath.Join(p.Dir, prefix+"-workspace-current")
}

// PidFile holds the pid of the running instance.
func (p Paths) PidFile() string {
	return filepath.Join(p.Dir, prefix+".pid")
}

// channelOf maps a command file name back to its channel.
func (p Paths) channelOf(path string) (Channel, bool) {
	for _, ch := range []Channel{ChannelTiling, ChannelWorkspace} {
		if filepath.Clean(path) == p.CommandFile(ch) {
			return ch, true
		}
	}
	return "", false
}

// readLine returns the first line of a small state file.
func readLine(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(string(data), "\n")
	return strings.TrimSpace(line), nil
}

// writeLine replaces path with a single line. The content goes to a
// temporary file first so readers never see a partial write.
func writeLine(path, line string) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(line+"\n"), 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// LookupPID finds the running instance: the environment wins, the pid
// file written by serve is the fallback.
func (p Paths) LookupPID() (int, error) {
	if v := os.Getenv(PIDEnv); v != "" {
		pid, err := strconv.Atoi(v)
		if err != nil || pid <= 0 {
			return 0, fmt.Errorf("invalid %s %q", PIDEnv, v)
		}
		return pid, nil
	}
	line, err := readLine(p.PidFile())
	if err != nil {
		return 0, ErrNoPID
	}
	pid, err := strconv.Atoi(line)
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid pid file %s: %q", p.PidFile(), line)
	}
	return pid, nil
}
