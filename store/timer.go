package store

import (
	"context"
	"log"
	"time"

	"github.com/kriswind/everything-app/dto"
	"github.com/kriswind/everything-app/model"
	"github.com/kriswind/everything-app/utils"
)

// SetTimer shallow-merges into the timer singleton, persists it to the
// local blob and starts or stops the tick loop to match IsActive.
func (s *Store) SetTimer(update dto.TimerUpdate) model.TimerState {
	utils.TrackStoreMutation("timer", "set")

	s.mu.Lock()
	if update.TimeLeft != nil {
		s.timer.TimeLeft = *update.TimeLeft
	}
	if update.Duration != nil {
		s.timer.Duration = *update.Duration
	}
	if update.IsActive != nil {
		s.timer.IsActive = *update.IsActive
	}
	timer := s.timer
	s.mu.Unlock()

	s.persistTimer(timer)
	s.syncTicker()
	return timer
}

// StartTimer starts a countdown of the given number of seconds.
func (s *Store) StartTimer(seconds int) model.TimerState {
	active := true
	return s.SetTimer(dto.TimerUpdate{
		Duration: &seconds,
		TimeLeft: &seconds,
		IsActive: &active,
	})
}

// StopTimer pauses the countdown without touching the remaining time.
func (s *Store) StopTimer() model.TimerState {
	active := false
	return s.SetTimer(dto.TimerUpdate{IsActive: &active})
}

// ResetTimer rewinds the countdown to its full duration, deactivated.
func (s *Store) ResetTimer() model.TimerState {
	s.mu.RLock()
	duration := s.timer.Duration
	s.mu.RUnlock()

	active := false
	return s.SetTimer(dto.TimerUpdate{TimeLeft: &duration, IsActive: &active})
}

func (s *Store) persistTimer(timer model.TimerState) {
	if s.local == nil {
		return
	}
	if err := s.local.SaveTimer(s.userID, timer); err != nil {
		log.Printf("failed to persist timer for user %s: %v", s.userID, err)
	}
}

// syncTicker reconciles the tick goroutine with the timer's active flag.
func (s *Store) syncTicker() {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := s.timer.IsActive && !s.closed
	running := s.tickerCancel != nil

	switch {
	case active && !running:
		ctx, cancel := context.WithCancel(context.Background())
		s.tickerCancel = cancel
		go s.runTicker(ctx)
	case !active && running:
		s.tickerCancel()
		s.tickerCancel = nil
	}
}

func (s *Store) runTicker(ctx context.Context) {
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.tick() {
				return
			}
		}
	}
}

// tick decrements the countdown by one second and persists it. Reaching
// zero deactivates the timer; the return value ends the tick loop.
func (s *Store) tick() bool {
	s.mu.Lock()
	if !s.timer.IsActive || s.closed {
		s.mu.Unlock()
		return true
	}

	s.timer.TimeLeft--
	if s.timer.TimeLeft <= 0 {
		s.timer.TimeLeft = 0
		s.timer.IsActive = false
	}
	timer := s.timer
	done := !timer.IsActive
	var cancel context.CancelFunc
	if done {
		cancel = s.tickerCancel
		s.tickerCancel = nil
	}
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.persistTimer(timer)
	return done
}
