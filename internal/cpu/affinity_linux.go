//go:build linux

package cpu

import (
	"golang.org/x/sys/unix"
)

// pinToCore restricts the current OS thread to cpuID.
// Must be called after runtime.LockOSThread().
func pinToCore(cpuID int) (uintptr, error) {
	var mask unix.CPUSet
	mask.Zero()
	mask.Set(cpuID)

	if err := unix.SchedSetaffinity(0, &mask); err != nil { // 0 = current thread
		return 0, err
	}

	return uintptr(cpuID), nil
}

// CurrentAffinity returns the cores the calling thread may run on.
func CurrentAffinity() ([]int, error) {
	var mask unix.CPUSet
	if err := unix.SchedGetaffinity(0, &mask); err != nil {
		return nil, err
	}

	cores := make([]int, 0, mask.Count())
	for i := range NumCPU() {
		if mask.IsSet(i) {
			cores = append(cores, i)
		}
	}
	return cores, nil
}
