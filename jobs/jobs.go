// Package jobs runs the periodic maintenance work of the API process.
package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/logger"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/services"
	"gorm.io/gorm"
)

type Settings struct {
	UploadDir       string
	BackupDir       string
	BackupRetention time.Duration
	BackupHour      int
	SessionSweep    time.Duration
	GuestSweep      time.Duration
}

// Runner owns the background goroutines. Stop them by cancelling the context passed to Start.
type Runner struct {
	db       *gorm.DB
	log      logger.Logger
	settings Settings
	now      func() time.Time
	wg       sync.WaitGroup
}

func NewRunner(db *gorm.DB, log logger.Logger, settings Settings) *Runner {
	if settings.SessionSweep <= 0 {
		settings.SessionSweep = time.Minute
	}
	if settings.GuestSweep <= 0 {
		settings.GuestSweep = time.Hour
	}
	return &Runner{db: db, log: log, settings: settings, now: time.Now}
}

func (r *Runner) Start(ctx context.Context) {
	r.every(ctx, "checkout-session-expiry", r.settings.SessionSweep, r.ExpireSessions)
	r.every(ctx, "guest-cleanup", r.settings.GuestSweep, r.CleanupGuests)
	if r.settings.UploadDir != "" && r.settings.BackupDir != "" {
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			r.dailyBackup(ctx)
		}()
	}
}

// Wait blocks until every job goroutine has returned.
func (r *Runner) Wait() {
	r.wg.Wait()
}

func (r *Runner) every(ctx context.Context, name string, interval time.Duration, fn func(context.Context) error) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := fn(ctx); err != nil && ctx.Err() == nil {
					r.log.Error("job failed", "job", name, "error", err)
				}
			}
		}
	}()
}

func (r *Runner) dailyBackup(ctx context.Context) {
	for {
		next := nextRun(r.now(), r.settings.BackupHour)
		r.log.Info("next upload backup scheduled", "at", next.Format("2006-01-02 15:04:05"))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		now := r.now()
		if dest, err := BackupUploads(r.settings.UploadDir, r.settings.BackupDir, now); err != nil {
			r.log.Error("upload backup failed", "error", err)
		} else {
			r.log.Info("uploads backed up", "dir", dest)
		}
		CleanupOldBackups(r.settings.BackupDir, r.settings.BackupRetention, now, r.log)
	}
}

// ExpireSessions marks overdue checkout sessions expired.
func (r *Runner) ExpireSessions(ctx context.Context) error {
	n, err := services.ExpireCheckoutSessions(ctx, r.db, r.now())
	if err != nil {
		return err
	}
	if n > 0 {
		r.log.Info("checkout sessions expired", "count", n)
	}
	return nil
}

// CleanupGuests deletes expired guest identities together with their carts.
func (r *Runner) CleanupGuests(ctx context.Context) error {
	now := r.now()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		expired := tx.Model(&models.GuestUser{}).Select("id").Where("expires_at < ?", now)
		carts := tx.Model(&models.Cart{}).Select("cart_id").Where("guest_id IN (?)", expired)

		if err := tx.Where("cart_id IN (?)", carts).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("guest_id IN (?)", expired).Delete(&models.Cart{}).Error; err != nil {
			return err
		}
		res := tx.Where("expires_at < ?", now).Delete(&models.GuestUser{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			r.log.Info("expired guests removed", "count", res.RowsAffected)
		}
		return nil
	})
}
