//go:build windows

package cpu

import (
	"errors"
	"fmt"
	"math/bits"
	"runtime"
	"syscall"
	"unsafe"
)

var (
	kernel32               = syscall.NewLazyDLL("kernel32.dll")
	setThreadAffinityMask  = kernel32.NewProc("SetThreadAffinityMask")
	getCurrentThread       = kernel32.NewProc("GetCurrentThread")
	getCurrentProcess      = kernel32.NewProc("GetCurrentProcess")
	getProcessAffinityMask = kernel32.NewProc("GetProcessAffinityMask")
)

// Available returns the number of CPUs set in the process affinity mask,
// or runtime.NumCPU when the mask cannot be read.
func Available() int {
	handle, _, _ := getCurrentProcess.Call()

	var processMask, systemMask uintptr
	ok, _, _ := getProcessAffinityMask.Call(
		handle,
		uintptr(unsafe.Pointer(&processMask)),
		uintptr(unsafe.Pointer(&systemMask)),
	)
	if ok == 0 || processMask == 0 {
		return runtime.NumCPU()
	}
	return bits.OnesCount64(uint64(processMask))
}

// nthSetBit returns the bit index holding position n (mod the number of set
// bits) in mask. The second result is false for an empty mask.
func nthSetBit(mask uint64, n int) (int, bool) {
	count := bits.OnesCount64(mask)
	if count == 0 {
		return 0, false
	}
	n = ((n % count) + count) % count

	for i := 0; i < 64; i++ {
		if mask&(1<<uint(i)) == 0 {
			continue
		}
		if n == 0 {
			return i, true
		}
		n--
	}
	return 0, false
}

// pinToCore pins the current OS thread to the slot-th CPU of the process
// affinity mask and returns a function restoring the previous mask. Must be
// called after runtime.LockOSThread().
func pinToCore(slot int) (func(), error) {
	process, _, _ := getCurrentProcess.Call()

	var processMask, systemMask uintptr
	ok, _, err := getProcessAffinityMask.Call(
		process,
		uintptr(unsafe.Pointer(&processMask)),
		uintptr(unsafe.Pointer(&systemMask)),
	)
	if ok == 0 {
		return nil, fmt.Errorf("read affinity: %w", err)
	}

	cpuID, found := nthSetBit(uint64(processMask), slot)
	if !found {
		return nil, errors.New("empty affinity mask")
	}

	handle, _, _ := getCurrentThread.Call()

	// Bit N = CPU N
	prevMask, _, err := setThreadAffinityMask.Call(handle, uintptr(1)<<uint(cpuID))
	if prevMask == 0 {
		return nil, fmt.Errorf("pin to cpu %d: %w", cpuID, err)
	}

	return func() {
		h, _, _ := getCurrentThread.Call()
		_, _, _ = setThreadAffinityMask.Call(h, prevMask)
	}, nil
}

// SetupWorkerAffinity locks the calling goroutine to its OS thread and pins
// that thread to one of the process's CPUs, chosen by workerID. The returned
// function restores the thread's original mask and unlocks it; it is never
// nil, even when pinning failed and err is set.
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
