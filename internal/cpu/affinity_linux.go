//go:build linux

package cpu

import (
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

var errNoCPU = errors.New("affinity mask has no CPU set")

// allowedCPU returns the idx-th CPU set in mask, counting from the lowest.
func allowedCPU(mask *unix.CPUSet, idx int) int {
	for cpu, seen := 0, 0; ; cpu++ {
		if mask.IsSet(cpu) {
			if seen == idx {
				return cpu
			}
			seen++
		}
	}
}

// Pin locks the calling goroutine to its OS thread and binds that thread to
// one of the CPUs the thread was allowed to run on, chosen by workerID. The
// returned release func restores the original mask and then unlocks the
// thread; it must run on the same goroutine. If the mask cannot be restored
// the thread stays locked, so the runtime discards it when the goroutine
// exits instead of reusing it.
func Pin(workerID int) (release func(), err error) {
	runtime.LockOSThread()

	// pid 0 is the calling thread
	var orig unix.CPUSet
	if err := unix.SchedGetaffinity(0, &orig); err != nil {
		runtime.UnlockOSThread()
		return func() {}, fmt.Errorf("read affinity: %w", err)
	}
	n := orig.Count()
	if n == 0 {
		runtime.UnlockOSThread()
		return func() {}, errNoCPU
	}

	cpu := allowedCPU(&orig, slotFor(workerID, n))
	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		runtime.UnlockOSThread()
		return func() {}, fmt.Errorf("pin to cpu %d: %w", cpu, err)
	}

	return func() {
		if unix.SchedSetaffinity(0, &orig) == nil {
			runtime.UnlockOSThread()
		}
	}, nil
}
