// Package sweeper runs the daily reminder check: find every lease whose
// reminder date is today and notify its chat, plus the team chat when one is
// configured. Delivery is at-least-once; re-running on the same day re-sends.
package sweeper

import (
	"context"
	"fmt"
	"log"
	"time"

	"lease-recert-bot/internal/dates"
	"lease-recert-bot/internal/models"
)

// LeaseSource is the slice of the record store the sweeper reads.
type LeaseSource interface {
	ListLeasesDueOn(ctx context.Context, date string) ([]*models.Lease, error)
}

// Notifier delivers one outbound message. Failures are logged per recipient
// and never abort the sweep.
type Notifier interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// Sweeper is the scheduled reminder job.
type Sweeper struct {
	store      LeaseSource
	notifier   Notifier
	teamChatID int64 // 0 means no team broadcast
	hour       int
	minute     int

	// now is swappable so tests can drive arbitrary dates.
	now     func() time.Time
	metrics *Metrics
}

// New creates a sweeper firing daily at hour:minute on the host clock.
func New(store LeaseSource, notifier Notifier, teamChatID int64, hour, minute int, metrics *Metrics) *Sweeper {
	return &Sweeper{
		store:      store,
		notifier:   notifier,
		teamChatID: teamChatID,
		hour:       hour,
		minute:     minute,
		now:        time.Now,
		metrics:    metrics,
	}
}

// SetNow overrides the clock. Test hook.
func (s *Sweeper) SetNow(now func() time.Time) {
	s.now = now
}

// Run fires the sweep once per day at the configured time until ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	log.Printf("sweeper: daily reminder check scheduled for %02d:%02d", s.hour, s.minute)
	for {
		next := s.nextFire(s.now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			if err := s.RunOnce(ctx); err != nil {
				log.Printf("sweeper: run failed: %v", err)
			}
		}
	}
}

// nextFire returns the next hh:mm strictly after now.
func (s *Sweeper) nextFire(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), s.hour, s.minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// RunOnce performs a single sweep for the clock's current date. Also the
// run-now entry point used by the admin API and the sweep tool.
func (s *Sweeper) RunOnce(ctx context.Context) error {
	today := dates.Today(s.now())
	log.Printf("sweeper: checking for reminders on %s", today)
	if s.metrics != nil {
		s.metrics.Runs.Inc()
	}

	leases, err := s.store.ListLeasesDueOn(ctx, today)
	if err != nil {
		return fmt.Errorf("list leases due on %s: %w", today, err)
	}
	if len(leases) == 0 {
		log.Printf("sweeper: no reminders to send today")
		return nil
	}
	if s.metrics != nil {
		s.metrics.DueLeases.Add(float64(len(leases)))
	}

	for _, l := range leases {
		text := reminderText(l)

		if err := s.notifier.Send(ctx, l.ChatID, text); err != nil {
			log.Printf("sweeper: send reminder to chat %d: %v", l.ChatID, err)
			if s.metrics != nil {
				s.metrics.SendFailures.WithLabelValues("user").Inc()
			}
		} else {
			log.Printf("sweeper: sent reminder to chat %d for %s", l.ChatID, l.TenantName)
			if s.metrics != nil {
				s.metrics.Sent.WithLabelValues("user").Inc()
			}
		}

		if s.teamChatID == 0 {
			continue
		}
		if err := s.notifier.Send(ctx, s.teamChatID, text); err != nil {
			log.Printf("sweeper: send reminder to team chat: %v", err)
			if s.metrics != nil {
				s.metrics.SendFailures.WithLabelValues("team").Inc()
			}
		} else if s.metrics != nil {
			s.metrics.Sent.WithLabelValues("team").Inc()
		}
	}
	return nil
}

func reminderText(l *models.Lease) string {
	return fmt.Sprintf(
		"Lease recertification reminder:\n\nTenant: %s\nAddress: %s\nStart date: %s\nRecert due: %s\n\n(7 days from today)",
		l.TenantName, l.Address, l.StartDate, l.RecertDate,
	)
}
