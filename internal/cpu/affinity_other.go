//go:build !linux

package cpu

import "runtime"

// Pin locks the calling goroutine to its OS thread. Binding the thread to a
// core is only supported on Linux; elsewhere the lock is all that happens.
func Pin(workerID int) (release func(), err error) {
	runtime.LockOSThread()
	return runtime.UnlockOSThread, nil
}
