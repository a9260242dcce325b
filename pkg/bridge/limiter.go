package bridge

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// AdmissionStore manages per-key token buckets: "type-context" -> limiter.
// Refill is continuous and proportional to elapsed wall-clock time.
type AdmissionStore struct {
	limiters     map[string]*rate.Limiter
	mu           sync.Mutex
	defaultRate  rate.Limit
	defaultBurst int
}

func NewAdmissionStore(maxTokens int, refillRate int, window time.Duration) *AdmissionStore {
	return &AdmissionStore{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  rate.Limit(float64(refillRate) / window.Seconds()),
		defaultBurst: maxTokens,
	}
}

func (s *AdmissionStore) GetLimiter(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, exists := s.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(s.defaultRate, s.defaultBurst)
		s.limiters[key] = limiter
	}
	return limiter
}

func (s *AdmissionStore) SetLimiter(key string, keyRate rate.Limit, keyBurst int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limiters[key] = rate.NewLimiter(keyRate, keyBurst)
}

func (s *AdmissionStore) Allow(key string) bool {
	return s.GetLimiter(key).Allow()
}
