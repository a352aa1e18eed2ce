package ports

import (
	"fmt"
	"net"
	"strconv"
)

// FindFreePort asks the kernel for an unused port on host.
func FindFreePort(host string) (int, error) {
	l, err := net.Listen("tcp", net.JoinHostPort(host, "0"))
	if err != nil {
		return 0, fmt.Errorf("listen: %w", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

// IsFree reports whether host:port can be bound right now.
func IsFree(host string, port int) bool {
	ln, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return false
	}
	_ = ln.Close()
	return true
}

// Pick returns preferred if it is free, else the next free port within
// tries, else a kernel-assigned one. A preferred port of 0 goes straight
// to the kernel.
func Pick(host string, preferred, tries int) (int, error) {
	if preferred > 0 {
		for p := preferred; p < preferred+tries && p <= 65535; p++ {
			if IsFree(host, p) {
				return p, nil
			}
		}
	}
	return FindFreePort(host)
}
