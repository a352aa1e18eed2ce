//go:build !windows

package cli

import "syscall"

// terminate asks pid to exit; both edit and serve shut down on SIGTERM.
func terminate(pid int) error {
	if pid <= 0 {
		return syscall.ESRCH
	}
	return syscall.Kill(pid, syscall.SIGTERM)
}
