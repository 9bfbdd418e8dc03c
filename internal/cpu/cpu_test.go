package cpu

import (
	"runtime"
	"testing"
)

func TestAvailableParallelism_AtLeastOne(t *testing.T) {
	n := AvailableParallelism()
	if n < 1 {
		t.Fatalf("expected at least 1, got %d", n)
	}
	if n > runtime.NumCPU() {
		t.Errorf("expected at most NumCPU (%d), got %d", runtime.NumCPU(), n)
	}
}

func TestBind_NoLock(t *testing.T) {
	b, release, err := Bind(0, false, true)
	defer release()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Locked || b.CPU != -1 {
		t.Errorf("expected unlocked unpinned binding, got %+v", b)
	}
}

func TestBind_LockWithoutPin(t *testing.T) {
	done := make(chan Binding, 1)
	errs := make(chan error, 1)

	go func() {
		b, release, err := Bind(3, true, false)
		defer release()
		errs <- err
		done <- b
	}()

	if err := <-errs; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b := <-done
	if !b.Locked || b.CPU != -1 {
		t.Errorf("expected locked unpinned binding, got %+v", b)
	}
}

func TestNthSetBit(t *testing.T) {
	restricted := func(bit int) bool { return bit >= 4 && bit <= 7 }

	tests := []struct {
		name  string
		n     int
		isSet func(int) bool
		want  int
	}{
		{"first allowed", 0, restricted, 4},
		{"last allowed", 3, restricted, 7},
		{"wraps around allowed set", 5, restricted, 5},
		{"single core", 9, func(bit int) bool { return bit == 2 }, 2},
		{"empty mask", 0, func(int) bool { return false }, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nthSetBit(64, tt.n, tt.isSet); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}
