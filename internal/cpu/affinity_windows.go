//go:build windows

package cpu

import (
	"syscall"
)

var (
	kernel32              = syscall.NewLazyDLL("kernel32.dll")
	setThreadAffinityMask = kernel32.NewProc("SetThreadAffinityMask")
	getCurrentThread      = kernel32.NewProc("GetCurrentThread")
)

// pinToCore restricts the current OS thread to cpuID and returns the
// previous affinity mask.
// Must be called after runtime.LockOSThread().
func pinToCore(cpuID int) (uintptr, error) {
	handle, _, _ := getCurrentThread.Call()

	// Bit N = CPU N
	mask := uintptr(1 << cpuID)

	prevMask, _, err := setThreadAffinityMask.Call(handle, mask)
	if prevMask == 0 {
		return 0, err
	}

	return prevMask, nil
}
