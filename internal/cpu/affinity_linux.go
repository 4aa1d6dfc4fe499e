//go:build linux

package cpu

import (
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

// Available returns the number of CPUs the process may run on. It honours
// the scheduler affinity mask (taskset, cgroup cpusets) and falls back to
// runtime.NumCPU when the mask cannot be read.
func Available() int {
	var mask unix.CPUSet
	if err := unix.SchedGetaffinity(0, &mask); err != nil {
		return runtime.NumCPU()
	}
	if n := mask.Count(); n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// nthAllowed returns the CPU holding position n (mod the mask size) among
// the CPUs set in mask. The second result is false for an empty mask.
func nthAllowed(mask *unix.CPUSet, n int) (int, bool) {
	count := mask.Count()
	if count == 0 {
		return 0, false
	}
	n = ((n % count) + count) % count

	for cpu, seen := 0, 0; seen < count; cpu++ {
		if !mask.IsSet(cpu) {
			continue
		}
		if seen == n {
			return cpu, true
		}
		seen++
	}
	return 0, false
}

// pinToCore pins the current OS thread to the slot-th CPU the thread is
// allowed to run on and returns a function restoring the previous mask.
// Must be called after runtime.LockOSThread().
func pinToCore(slot int) (func(), error) {
	var prev unix.CPUSet
	if err := unix.SchedGetaffinity(0, &prev); err != nil {
		return nil, fmt.Errorf("read affinity: %w", err)
	}

	cpuID, ok := nthAllowed(&prev, slot)
	if !ok {
		return nil, errors.New("empty affinity mask")
	}

	var mask unix.CPUSet
	mask.Zero()
	mask.Set(cpuID)

	if err := unix.SchedSetaffinity(0, &mask); err != nil { // 0 = current thread
		return nil, fmt.Errorf("pin to cpu %d: %w", cpuID, err)
	}

	return func() {
		_ = unix.SchedSetaffinity(0, &prev)
	}, nil
}

// SetupWorkerAffinity locks the calling goroutine to its OS thread and pins
// that thread to one of the CPUs in its affinity mask, chosen by workerID.
// The returned function restores the thread's original mask and unlocks it;
// it is never nil, even when pinning failed and err is set.
func SetupWorkerAffinity(workerID int) (func(), error) {
	runtime.LockOSThread()
	restore, err := pinToCore(workerID)

	return func() {
		if err == nil {
			restore()
		}
		runtime.UnlockOSThread()
	}, err
}
