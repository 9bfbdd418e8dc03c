//go:build linux

package cpu

import (
	"testing"

	"golang.org/x/sys/unix"
)

func TestBind_Pin(t *testing.T) {
	var allowed unix.CPUSet
	if err := unix.SchedGetaffinity(unix.Getpid(), &allowed); err != nil {
		t.Fatalf("reading affinity mask: %v", err)
	}
	count := allowed.Count()

	type outcome struct {
		b    Binding
		mask unix.CPUSet
		err  error
	}

	// worker ids past the allowed count must wrap onto allowed cores
	for _, workerID := range []int{0, count - 1, count, 2*count + 1} {
		res := make(chan outcome, 1)
		go func() {
			b, release, err := Bind(workerID, true, true)
			defer release()

			var mask unix.CPUSet
			if err == nil {
				err = unix.SchedGetaffinity(0, &mask)
			}
			res <- outcome{b, mask, err}
		}()

		o := <-res
		if o.err != nil {
			t.Fatalf("worker %d: unexpected error: %v", workerID, o.err)
		}
		if want := nthSetBit(maxCPUs, workerID, allowed.IsSet); o.b.CPU != want {
			t.Errorf("worker %d: expected cpu %d, got %d", workerID, want, o.b.CPU)
		}
		if !allowed.IsSet(o.b.CPU) {
			t.Errorf("worker %d: cpu %d is outside the allowed set", workerID, o.b.CPU)
		}
		if o.mask.Count() != 1 || !o.mask.IsSet(o.b.CPU) {
			t.Errorf("worker %d: thread mask not pinned to cpu %d", workerID, o.b.CPU)
		}
	}
}
