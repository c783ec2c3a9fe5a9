package limiter

import (
	"sync"
	"time"
)

// Giới hạn số lượng request trong 1 giây
type Window struct {
	requestTimes []time.Time
	maxRequests  int
	mu           sync.Mutex
}

func NewWindow(maxRequests int) *Window {
	return &Window{
		requestTimes: make([]time.Time, 0, maxRequests),
		maxRequests:  maxRequests,
	}
}

// Allow kiểm tra xem có thể thực hiện request mới hay không
func (w *Window) Allow() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	oneSecondAgo := now.Add(-1 * time.Second)

	// Xóa các request cũ hơn 1 giây
	validTimes := make([]time.Time, 0, len(w.requestTimes))
	for _, t := range w.requestTimes {
		if t.After(oneSecondAgo) {
			validTimes = append(validTimes, t)
		}
	}
	w.requestTimes = validTimes

	// Nếu số lượng request trong 1 giây vừa qua nhỏ hơn giới hạn thì
	// add request mới và cho phép thực hiện
	if len(w.requestTimes) < w.maxRequests {
		w.requestTimes = append(w.requestTimes, now)
		return true
	}

	return false
}
