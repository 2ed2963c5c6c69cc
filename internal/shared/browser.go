package shared

import (
	"fmt"
	"os/exec"
	"runtime"
)

// browserCommand returns the argv that launches the platform's default
// browser for url, or nil when the platform has no known launcher.
func browserCommand(goos, url string) []string {
	switch goos {
	case "darwin":
		return []string{"open", url}
	case "linux":
		return []string{"xdg-open", url}
	case "windows":
		return []string{"cmd", "/c", "start", url}
	}
	return nil
}

// OpenBrowser opens url in the default system browser. The process is
// started and not waited on.
func OpenBrowser(url string) error {
	argv := browserCommand(runtime.GOOS, url)
	if argv == nil {
		return fmt.Errorf("%w: no browser launcher for %s", ErrNotImplemented, runtime.GOOS)
	}

	if err := exec.Command(argv[0], argv[1:]...).Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}
