//go:build !windows

package cmd

import (
	"os"
	"syscall"
)

// terminateSignals returns the OS signals that cancel a running session
// without recording it.
func terminateSignals() []os.Signal {
	return []os.Signal{syscall.SIGTERM, syscall.SIGHUP}
}
