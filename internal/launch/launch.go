// Package launch opens the preview page in the user's browser.
package launch

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// Command returns the argv that opens url on goos.
func Command(goos, url string) ([]string, error) {
	switch goos {
	case "darwin":
		return []string{"open", url}, nil
	case "windows":
		return []string{"rundll32", "url.dll,FileProtocolHandler", url}, nil
	default:
		for _, bin := range []string{"xdg-open", "wslview", "sensible-browser"} {
			if p, err := lookPath(bin); err == nil {
				return []string{p, url}, nil
			}
		}
		return nil, fmt.Errorf("no browser opener found (tried xdg-open, wslview, sensible-browser)")
	}
}

// Open starts the browser detached from our process group, so quitting
// the editor does not take the browser with it. It does not wait.
func Open(url string) error {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("launch: refusing non-http url %q", url)
	}
	argv, err := Command(runtime.GOOS, url)
	if err != nil {
		return fmt.Errorf("launch: %w", err)
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.SysProcAttr = detachedSysProcAttr()
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch: start %s: %w", argv[0], err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
