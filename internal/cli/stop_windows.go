//go:build windows

package cli

import (
	"errors"
	"os"
)

func terminate(pid int) error {
	if pid <= 0 {
		return errors.New("invalid pid")
	}
	p, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return p.Kill()
}
