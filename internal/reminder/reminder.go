// Package reminder implements the daily expiry-reminder sweep: one query
// across all users, one email per owner with items expiring in the next
// two days.
package reminder

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"

	"bytecart/internal/metrics"
	"bytecart/internal/model"
	"bytecart/internal/store"
)

// WindowDays is the sweep horizon: items expiring within [now, now+2d]
// trigger a reminder. Deliberately narrower than the dashboard's
// "expiring soon" window, which starts at now+3d.
const WindowDays = 2

// SendTimeout bounds each outbound email. An expired send counts as a
// per-owner failure and the sweep moves on.
const SendTimeout = 30 * time.Second

// Service runs the reminder sweep against the item store.
type Service struct {
	db     *sql.DB
	mailer Mailer
	logger *logrus.Logger
}

// NewService creates a reminder service.
func NewService(db *sql.DB, mailer Mailer, logger *logrus.Logger) *Service {
	return &Service{db: db, mailer: mailer, logger: logger}
}

// ownerBatch accumulates one owner's expiring items for a single sweep run.
// It is built and discarded per run; no state survives between sweeps, so a
// re-run within the same window re-sends the same reminders.
type ownerBatch struct {
	name  string
	email string
	items []model.Item
}

// Sweep queries every item expiring within the horizon, groups the results
// by owner, and sends one email per owner. A store failure aborts the whole
// run before anything is sent; a failed send is logged and skipped so the
// remaining owners still get their reminders.
func (s *Service) Sweep(ctx context.Context) error {
	now := time.Now()

	expiring, err := store.ListExpiringWithin(ctx, s.db, now, now.AddDate(0, 0, WindowDays))
	if err != nil {
		s.logger.WithError(err).Error("reminder sweep: failed to query expiring items")
		return fmt.Errorf("querying expiring items: %w", err)
	}

	metrics.ReminderSweeps.Inc()

	batches := make(map[int64]*ownerBatch)
	var order []int64
	for _, item := range expiring {
		batch, ok := batches[item.UserID]
		if !ok {
			batch = &ownerBatch{name: item.OwnerName, email: item.OwnerEmail}
			batches[item.UserID] = batch
			order = append(order, item.UserID)
		}
		batch.items = append(batch.items, item.Item)
	}

	sent := 0
	for _, userID := range order {
		batch := batches[userID]

		sendCtx, cancel := context.WithTimeout(ctx, SendTimeout)
		err := s.mailer.SendReminder(sendCtx, batch.email, batch.name, batch.items)
		cancel()

		if err != nil {
			metrics.ReminderEmailsFailed.Inc()
			s.logger.WithError(err).WithField("email", batch.email).Error("failed to send reminder email")
			continue
		}

		metrics.ReminderEmailsSent.Inc()
		sent++
	}

	s.logger.WithFields(logrus.Fields{"owners": len(order), "sent": sent}).Info("reminder sweep finished")
	return nil
}

// Start schedules the sweep once per day at the given local time and blocks
// until the context is cancelled. The scheduler sleeps until the next
// trigger instant rather than polling the clock.
func (s *Service) Start(ctx context.Context, hour, minute int) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(uint(hour), uint(minute), 0))),
		gocron.NewTask(func() {
			// Errors are already logged inside Sweep; the next daily
			// trigger is the retry.
			_ = s.Sweep(ctx)
		}),
	)
	if err != nil {
		return fmt.Errorf("scheduling reminder sweep: %w", err)
	}

	scheduler.Start()
	s.logger.WithFields(logrus.Fields{"hour": hour, "minute": minute}).Info("reminder scheduler started")

	<-ctx.Done()
	s.logger.Info("reminder scheduler stopped")
	return scheduler.Shutdown()
}
