//go:build windows

package cpu

import (
	"runtime"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	kernel32               = windows.NewLazySystemDLL("kernel32.dll")
	setThreadAffinityMask  = kernel32.NewProc("SetThreadAffinityMask")
	getProcessAffinityMask = kernel32.NewProc("GetProcessAffinityMask")
)

func availableParallelism() int {
	return runtime.NumCPU()
}

// pinToAllowedCore pins the current OS thread to the workerID-th core of the
// process affinity mask. Must be called after runtime.LockOSThread().
func pinToAllowedCore(workerID int) (int, error) {
	var processMask, systemMask uintptr
	ok, _, err := getProcessAffinityMask.Call(
		uintptr(windows.CurrentProcess()),
		uintptr(unsafe.Pointer(&processMask)),
		uintptr(unsafe.Pointer(&systemMask)),
	)
	if ok == 0 {
		return -1, err
	}

	// Bit N = CPU N
	cpuID := nthSetBit(int(unsafe.Sizeof(processMask))*8, workerID, func(bit int) bool {
		return processMask&(uintptr(1)<<bit) != 0
	})
	if cpuID < 0 {
		return -1, errEmptyAffinityMask
	}

	prev, _, err := setThreadAffinityMask.Call(uintptr(windows.CurrentThread()), uintptr(1)<<cpuID)
	if prev == 0 {
		return -1, err
	}
	return cpuID, nil
}
