//go:build linux

package cpu

import (
	"runtime"
	"testing"

	"golang.org/x/sys/unix"
)

func TestAllowedCPU(t *testing.T) {
	var mask unix.CPUSet
	for _, c := range []int{4, 5, 6, 7} {
		mask.Set(c)
	}

	for idx, want := range []int{4, 5, 6, 7} {
		if got := allowedCPU(&mask, idx); got != want {
			t.Errorf("allowedCPU(idx %d) = %d, want %d", idx, got, want)
		}
	}
	if got := allowedCPU(&mask, slotFor(5, mask.Count())); got != 5 {
		t.Errorf("worker 5 on a 4-7 cpuset got cpu %d, want 5", got)
	}
}

func TestPin_RestoresMask(t *testing.T) {
	done := make(chan struct{})
	go func() {
		defer close(done)

		// Keep the thread after release so its mask can be inspected.
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		var orig unix.CPUSet
		if err := unix.SchedGetaffinity(0, &orig); err != nil {
			t.Errorf("SchedGetaffinity: %v", err)
			return
		}

		for id := range orig.Count() + 1 {
			release, err := Pin(id)
			if err != nil {
				t.Logf("Pin(%d) returned %v", id, err)
				return
			}

			var pinned unix.CPUSet
			if err := unix.SchedGetaffinity(0, &pinned); err != nil {
				t.Errorf("SchedGetaffinity: %v", err)
				return
			}
			want := allowedCPU(&orig, slotFor(id, orig.Count()))
			if pinned.Count() != 1 || !pinned.IsSet(want) {
				t.Errorf("worker %d: pinned mask has %d cpus, want only cpu %d", id, pinned.Count(), want)
			}

			release()

			var after unix.CPUSet
			if err := unix.SchedGetaffinity(0, &after); err != nil {
				t.Errorf("SchedGetaffinity: %v", err)
				return
			}
			if after != orig {
				t.Errorf("worker %d: mask not restored after release", id)
			}
		}
	}()
	<-done
}
