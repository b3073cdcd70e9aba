package profiler

import (
	"testing"
	"time"
)

func TestTickAt(t *testing.T) {
	tests := []struct {
		name      string
		interval  time.Duration
		frames    int
		step      time.Duration
		wantTicks int
		wantFPS   float64
	}{
		{"under interval", time.Second, 10, 10 * time.Millisecond, 0, 0},
		{"one window at 100 fps", time.Second, 100, 10 * time.Millisecond, 1, 100},
		{"two windows at 50 fps", time.Second, 100, 20 * time.Millisecond, 2, 50},
		{"default interval", 0, 61, time.Second / 60, 1, 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProfiler(tt.interval)
			start := p.lastTime
			ticks := 0
			var last Stats
			for i := 1; i <= tt.frames; i++ {
				if s, ok := p.TickAt(start.Add(time.Duration(i) * tt.step)); ok {
					ticks++
					last = s
				}
			}
			if ticks != tt.wantTicks {
				t.Fatalf("reports = %d, want %d", ticks, tt.wantTicks)
			}
			if tt.wantTicks == 0 {
				return
			}
			if diff := last.FPS - tt.wantFPS; diff > 0.5 || diff < -0.5 {
				t.Errorf("FPS = %v, want %v", last.FPS, tt.wantFPS)
			}
			if last.AvgFrameTime <= 0 || last.HeapMB <= 0 {
				t.Errorf("stats not populated: %+v", last)
			}
		})
	}
}

func TestTickAtResetsWindow(t *testing.T) {
	p := NewProfiler(time.Second)
	start := p.lastTime
	if _, ok := p.TickAt(start.Add(2 * time.Second)); !ok {
		t.Fatal("expected a report")
	}
	if p.frameCount != 0 || !p.lastTime.Equal(start.Add(2*time.Second)) {
		t.Errorf("window not reset: frames=%d last=%v", p.frameCount, p.lastTime)
	}
}
