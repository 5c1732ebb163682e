//go:build !linux && !darwin && !windows

package cpu

import "errors"

var errPinUnsupported = errors.New("cpu: thread pinning is not supported on this platform")

func pinToCore(int) (uintptr, error) {
	return 0, errPinUnsupported
}
