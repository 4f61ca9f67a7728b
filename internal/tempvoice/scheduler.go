package tempvoice

import (
	"context"
	"sync"
	"time"

	"github.com/FolkiDevv/partysys/internal/logger"
)

// Scheduler runs the two reconciliation sweeps: deleting expired
// advertisements and firing idle reminders. Both walk snapshots of the
// registry so sweep actions can mutate it freely.
type Scheduler struct {
	mgr      *Manager
	log      *logger.Logger
	interval time.Duration

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

func NewScheduler(mgr *Manager, log *logger.Logger, interval time.Duration) *Scheduler {
	return &Scheduler{
		mgr:      mgr,
		log:      log,
		interval: interval,
	}
}

// Start launches the sweep loop. Calling it again while running is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.running = true

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.run(ctx)
	s.log.Info("Temp voice scheduler started")
}

// Stop cancels the sweep loop and waits for the current tick to finish.
// A no-op when not running.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.running = false
	s.cancel()
	<-s.done
	s.log.Info("Temp voice scheduler stopped")
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.sweepAdvs(now)
			s.sweepReminders(now)
		}
	}
}

func (s *Scheduler) sweepAdvs(now time.Time) {
	for _, srv := range s.mgr.Servers() {
		for _, room := range srv.Rooms() {
			s.forRoom(room, func(r *Room) error {
				if r.AdvExpired(now) {
					return r.DeleteAdv()
				}
				return nil
			})
		}
	}
}

func (s *Scheduler) sweepReminders(now time.Time) {
	for _, srv := range s.mgr.Servers() {
		for _, room := range srv.Rooms() {
			s.forRoom(room, func(r *Room) error {
				if r.ReminderDue(now) {
					s.log.Debugf("Sending reminder to %s", r.Channel().ID)
					return r.SendReminder()
				}
				return nil
			})
		}
	}
}

// forRoom contains one room's sweep work so a single failure cannot abort
// the rest of the tick.
func (s *Scheduler) forRoom(room *Room, fn func(*Room) error) {
	defer func() {
		if rec := recover(); rec != nil {
			s.log.Errorf("sweep panic on room %s: %v", room.Channel().ID, rec)
		}
	}()
	if err := fn(room); err != nil {
		s.log.Errorf("sweep failed on room %s: %v", room.Channel().ID, err)
	}
}
