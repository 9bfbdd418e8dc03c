//go:build !linux && !windows

package cpu

import (
	"errors"
	"runtime"
)

// ErrPinningUnsupported is returned by Bind when the platform cannot pin threads to cores.
var ErrPinningUnsupported = errors.New("cpu pinning is not supported on " + runtime.GOOS)

func availableParallelism() int {
	return runtime.NumCPU()
}

func pinToAllowedCore(int) (int, error) {
	return -1, ErrPinningUnsupported
}
