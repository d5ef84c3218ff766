package service

import (
	"sync"
	"time"

	"github.com/xiaobei/subhub/internal/logger"
	"github.com/xiaobei/subhub/internal/storage"
	"github.com/xiaobei/subhub/pkg/utils"
)

// Scheduler periodically refreshes the traffic counters of enabled remote
// subscriptions so that served summaries stay current.
type Scheduler struct {
	store storage.Store

	stopCh   chan struct{}
	running  bool
	interval time.Duration
	mu       sync.Mutex
}

// NewScheduler creates a scheduler
func NewScheduler(store storage.Store) *Scheduler {
	return &Scheduler{
		store:  store,
		stopCh: make(chan struct{}),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	settings := s.store.GetSettings()
	if settings.SubUpdateInterval <= 0 {
		logger.Println("[Scheduler] Scheduled refresh disabled")
		return
	}

	s.interval = time.Duration(settings.SubUpdateInterval) * time.Minute
	s.running = true
	s.stopCh = make(chan struct{})

	go s.run()
	logger.Printf("[Scheduler] Started, refresh interval: %v", s.interval)
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	close(s.stopCh)
	s.running = false
	logger.Println("[Scheduler] Stopped")
}

// Restart restarts the scheduler (call after updating settings)
func (s *Scheduler) Restart() {
	s.Stop()
	s.Start()
}

// IsRunning checks if the scheduler is running
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// run runs the scheduled task
func (s *Scheduler) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.RefreshAll()
		}
	}
}

// RefreshAll re-fetches every enabled remote subscription and stores its
// reported traffic counters. Failures skip the entry and continue.
func (s *Scheduler) RefreshAll() {
	subs := s.store.GetSubscriptions()
	for _, sub := range subs {
		if !sub.Enabled || !sub.IsRemote() {
			continue
		}
		if err := s.refresh(&sub); err != nil {
			logger.Printf("[Scheduler] Failed to refresh %s: %v", sub.Name, err)
			continue
		}
		if err := s.store.UpdateSubscription(sub); err != nil {
			logger.Printf("[Scheduler] Failed to save %s: %v", sub.Name, err)
		}
	}
}

// refresh updates a single subscription's traffic counters in place.
func (s *Scheduler) refresh(sub *storage.Subscription) error {
	_, info, err := utils.FetchSubscription(sub.URL, "")
	if err != nil {
		return err
	}

	if info != nil {
		sub.Upload = info.Upload
		sub.Download = info.Download
		sub.Total = info.Total
		sub.ExpireAt = info.Expire
	}
	sub.UpdatedAt = time.Now()

	return nil
}
