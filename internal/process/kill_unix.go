//go:build !windows

package process

import "syscall"

// KillProcessGroup sends SIGKILL to the process group led by pid so that
// Chrome's renderer and GPU helpers die with the browser.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	// Best effort; launcher.Kill covers the main process.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
