// Gói crawlinfo gom số liệu của một chu kỳ refresh để log tổng kết khi
// chạy xong

package crawlinfo

import (
	"sync"
	"sync/atomic"
	"time"
)

// Summary là kết quả của một chu kỳ refresh. Các counter được cập nhật
// đồng thời từ nhiều worker nên dùng atomic.
type Summary struct {
	Version    string
	StartedAt  time.Time
	FinishedAt time.Time

	topics       int64
	repos        int64
	contributors int64

	mu           sync.Mutex
	failedTopics []string
}

func NewSummary(version string) *Summary {
	return &Summary{
		Version:   version,
		StartedAt: time.Now(),
	}
}

func (s *Summary) AddTopics(n int)       { atomic.AddInt64(&s.topics, int64(n)) }
func (s *Summary) AddRepos(n int)        { atomic.AddInt64(&s.repos, int64(n)) }
func (s *Summary) AddContributors(n int) { atomic.AddInt64(&s.contributors, int64(n)) }

func (s *Summary) Topics() int64       { return atomic.LoadInt64(&s.topics) }
func (s *Summary) Repos() int64        { return atomic.LoadInt64(&s.repos) }
func (s *Summary) Contributors() int64 { return atomic.LoadInt64(&s.contributors) }

// MarkFailed ghi nhận một topic không xử lý được để log lại cuối chu kỳ
func (s *Summary) MarkFailed(topicName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failedTopics = append(s.failedTopics, topicName)
}

func (s *Summary) FailedTopics() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.failedTopics))
	copy(out, s.failedTopics)
	return out
}

// Finish chốt thời điểm kết thúc chu kỳ
func (s *Summary) Finish() {
	s.FinishedAt = time.Now()
}

func (s *Summary) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}
