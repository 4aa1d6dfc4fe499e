//go:build !linux && !darwin && !windows

package cpu

import "runtime"

func Available() int {
	return runtime.NumCPU()
}

func SetupWorkerAffinity(workerID int) (func(), error) {
	return func() {}, nil
}
