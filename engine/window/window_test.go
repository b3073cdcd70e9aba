package window

import "testing"

func TestPointerTrackerIgnoresMotionWhileFree(t *testing.T) {
	var p pointerTracker
	if _, _, ok := p.move(10, 10); ok {
		t.Fatal("motion reported while unlocked")
	}
}

func TestPointerTrackerSeedsAfterLock(t *testing.T) {
	var p pointerTracker
	p.lock()
	if _, _, ok := p.move(400, 300); ok {
		t.Fatal("first position after lock should only seed the tracker")
	}

	tests := []struct {
		x, y   float64
		dx, dy float32
	}{
		{410, 300, 10, 0},
		{410, 290, 0, 10},  // screen up is positive
		{405, 295, -5, -5}, // left and down
	}
	for _, tt := range tests {
		dx, dy, ok := p.move(tt.x, tt.y)
		if !ok || dx != tt.dx || dy != tt.dy {
			t.Fatalf("move(%v, %v) = (%v, %v, %v), want (%v, %v, true)", tt.x, tt.y, dx, dy, ok, tt.dx, tt.dy)
		}
	}

	if _, _, ok := p.move(405, 295); ok {
		t.Error("zero motion should not be reported")
	}
}

func TestPointerTrackerReleaseAndRelock(t *testing.T) {
	var p pointerTracker
	p.lock()
	p.move(0, 0)
	p.release()
	if _, _, ok := p.move(50, 50); ok {
		t.Fatal("motion reported after release")
	}

	p.lock()
	if _, _, ok := p.move(900, 900); ok {
		t.Fatal("relock should reseed instead of reporting the jump")
	}
	if dx, dy, ok := p.move(901, 899); !ok || dx != 1 || dy != 1 {
		t.Fatalf("move = (%v, %v, %v), want (1, 1, true)", dx, dy, ok)
	}
}
