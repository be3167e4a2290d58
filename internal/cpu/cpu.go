// Package cpu binds worker goroutines to CPU cores.
package cpu

import "runtime"

// NumCPU returns the number of logical CPUs usable by the process.
func NumCPU() int {
	return runtime.NumCPU()
}

// slotFor maps a worker id onto [0, n).
func slotFor(workerID, n int) int {
	if n <= 0 {
		return 0
	}
	if workerID < 0 {
		workerID = -workerID
	}
	return workerID % n
}
