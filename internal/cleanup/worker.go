package cleanup

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// LocationSweeper определяет часть хранилища, нужную воркеру очистки.
type LocationSweeper interface {
	SweepExpired(now time.Time, ttl time.Duration) []string
}

// CleanupWorker периодически удаляет из хранилища записи, молчавшие
// дольше TTL. Работает на фиксированной каденции независимо от потока
// отчётов; срыв одного прохода не останавливает таймер.
type CleanupWorker struct {
	store    LocationSweeper
	logger   *logrus.Logger
	interval time.Duration
	ttl      time.Duration

	// Источник времени подменяется в тестах.
	now func() time.Time
}

// NewCleanupWorker создает новый CleanupWorker
func NewCleanupWorker(store LocationSweeper, logger *logrus.Logger, interval, ttl time.Duration) *CleanupWorker {
	return &CleanupWorker{
		store:    store,
		logger:   logger,
		interval: interval,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Start запускает горутину периодической очистки. Остановка - через
// отмену контекста.
func (w *CleanupWorker) Start(ctx context.Context) {
	w.logger.WithFields(logrus.Fields{
		"interval": w.interval.String(),
		"ttl":      w.ttl.String(),
	}).Info("Starting cleanup worker...")

	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				w.logger.Info("Stopping cleanup worker.")
				return
			case <-ticker.C:
				w.sweep()
			}
		}
	}()
}

// sweep выполняет один проход очистки.
func (w *CleanupWorker) sweep() {
	removed := w.store.SweepExpired(w.now(), w.ttl)
	if len(removed) == 0 {
		w.logger.Debug("Cleanup sweep found no stale locations")
		return
	}

	w.logger.WithFields(logrus.Fields{
		"removed": len(removed),
		"agents":  removed,
	}).Info("Removed stale locations")
}
