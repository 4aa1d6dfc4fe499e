//go:build darwin

package cpu

import (
	"runtime"
)

// Available returns the number of logical CPUs. macOS exposes no affinity
// mask, so this is runtime.NumCPU.
func Available() int {
	return runtime.NumCPU()
}

// SetupWorkerAffinity locks the goroutine to an OS thread.
// CPU pinning is not available on macOS.
func SetupWorkerAffinity(workerID int) (func(), error) {
	runtime.LockOSThread()

	return func() {
		runtime.UnlockOSThread()
	}, nil
}
