//go:build linux

package cpu

import (
	"golang.org/x/sys/unix"
)

// maxCPUs is the number of cores a unix.CPUSet can describe.
const maxCPUs = 1024

// availableParallelism counts the CPUs in the process affinity mask, which honours
// taskset and cpuset restrictions.
func availableParallelism() int {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(unix.Getpid(), &set); err != nil {
		return 0
	}
	return set.Count()
}

// pinToAllowedCore pins the current OS thread to the workerID-th core of the
// process affinity mask. Must be called after runtime.LockOSThread().
func pinToAllowedCore(workerID int) (int, error) {
	var allowed unix.CPUSet
	if err := unix.SchedGetaffinity(unix.Getpid(), &allowed); err != nil {
		return -1, err
	}

	cpuID := nthSetBit(maxCPUs, workerID, allowed.IsSet)
	if cpuID < 0 {
		return -1, errEmptyAffinityMask
	}

	var mask unix.CPUSet
	mask.Zero()
	mask.Set(cpuID)

	if err := unix.SchedSetaffinity(0, &mask); err != nil { // 0 = current thread
		return -1, err
	}
	return cpuID, nil
}
