//go:build !windows

// Package process force-terminates rendering engine instances. A hung
// engine must be killed with its children, not abandoned.
package process

import "syscall"

// KillProcessGroup kills a process and all its children by sending
// SIGKILL to the process group (negative PID).
func KillProcessGroup(pid int) {
	// Best-effort cleanup; error ignored as launcher.Kill() provides fallback
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
