package service_test

import (
	"testing"

	"github.com/msomdec/pomodeck/internal/service"
)

func TestThrottle_AllowsUpToCapacity(t *testing.T) {
	th := service.NewThrottle(1, 3)

	for i := 0; i < 3; i++ {
		if !th.Allow("ada@example.com") {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	if th.Allow("ada@example.com") {
		t.Fatal("4th attempt should be denied")
	}
}

func TestThrottle_DifferentKeysAreIndependent(t *testing.T) {
	th := service.NewThrottle(0, 1)

	if !th.Allow("a") {
		t.Fatal("a first attempt should be allowed")
	}
	if th.Allow("a") {
		t.Fatal("a second attempt should be denied")
	}
	if !th.Allow("b") {
		t.Fatal("b has its own bucket")
	}
}

func TestThrottle_ForgetRestoresCapacity(t *testing.T) {
	th := service.NewThrottle(0, 1)

	th.Allow("k")
	if th.Allow("k") {
		t.Fatal("expected bucket to be empty")
	}
	th.Forget("k")
	if !th.Allow("k") {
		t.Fatal("expected fresh bucket after Forget")
	}
}
