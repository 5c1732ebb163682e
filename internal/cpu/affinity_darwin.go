//go:build darwin

package cpu

import "errors"

// errPinUnsupported is returned where thread affinity cannot be set.
var errPinUnsupported = errors.New("cpu: thread pinning is not supported on darwin")

// pinToCore is unavailable on macOS; the thread stays locked but unpinned.
func pinToCore(int) (uintptr, error) {
	return 0, errPinUnsupported
}
