// Package clipboard copies formatted citations to the system clipboard via shell commands.
package clipboard

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// ErrClipboardUnavailable is returned when clipboard access is not available.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// tool is a clipboard command and its arguments.
type tool struct {
	name string
	args []string
}

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// candidates lists clipboard tools in preference order for an OS.
// Wayland's wl-copy is preferred when WAYLAND_DISPLAY is set.
func candidates(goos string, wayland bool) []tool {
	switch goos {
	case "darwin":
		return []tool{{name: "pbcopy"}}
	case "windows":
		return []tool{{name: "clip.exe"}}
	case "linux", "freebsd", "openbsd", "netbsd":
		tools := []tool{
			{name: "xclip", args: []string{"-selection", "clipboard"}},
			{name: "xsel", args: []string{"--clipboard", "--input"}},
			{name: "clip.exe"}, // WSL
		}
		if wayland {
			tools = append([]tool{{name: "wl-copy"}}, tools...)
		}
		return tools
	default:
		return nil
	}
}

// findTool returns the first installed clipboard tool.
func findTool() (tool, error) {
	for _, t := range candidates(runtime.GOOS, os.Getenv("WAYLAND_DISPLAY") != "") {
		if _, err := lookPath(t.name); err == nil {
			return t, nil
		}
	}
	return tool{}, ErrClipboardUnavailable
}

// IsAvailable checks if clipboard functionality is available on this system.
func IsAvailable() bool {
	_, err := findTool()
	return err == nil
}

// Copy copies the given text to the system clipboard.
// Returns ErrClipboardUnavailable if no clipboard tool is installed.
func Copy(text string) error {
	t, err := findTool()
	if err != nil {
		return err
	}

	cmd := exec.Command(t.name, t.args...)
	cmd.Stdin = strings.NewReader(text)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", t.name, err, strings.TrimSpace(string(out)))
	}
	return nil
}
