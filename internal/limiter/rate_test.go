package limiter

import (
	"testing"
	"time"
)

func TestWindowAllowUpToLimit(t *testing.T) {
	t.Parallel()

	w := NewWindow(3)
	for i := 0; i < 3; i++ {
		if !w.Allow() {
			t.Fatalf("request %d should be allowed", i)
		}
	}
	if w.Allow() {
		t.Fatal("request over the limit should be rejected")
	}
}

func TestWindowSlides(t *testing.T) {
	t.Parallel()

	w := NewWindow(2)
	w.Allow()
	w.Allow()
	if w.Allow() {
		t.Fatal("window should be full")
	}

	// Đẩy các request cũ ra khỏi cửa sổ một giây
	w.mu.Lock()
	for i := range w.requestTimes {
		w.requestTimes[i] = w.requestTimes[i].Add(-2 * time.Second)
	}
	w.mu.Unlock()

	if !w.Allow() {
		t.Fatal("request should be allowed after the window slides")
	}
}
