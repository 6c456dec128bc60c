package service

import (
	"context"

	"github.com/prohmpiriya/handiq-workshops/internal/domain"
	"github.com/prohmpiriya/handiq-workshops/internal/metrics"
	"github.com/prohmpiriya/handiq-workshops/internal/repository"
	"github.com/prohmpiriya/handiq-workshops/pkg/logger"
	"github.com/prohmpiriya/handiq-workshops/pkg/retry"
	"go.uber.org/zap"
)

// NotificationLogger records simulated emails as log rows
type NotificationLogger interface {
	// Log appends an entry. Failures are retried, then logged and swallowed.
	Log(ctx context.Context, entry *domain.EmailLog)
}

type notificationLogger struct {
	emailRepo repository.EmailLogRepository
	retry     *retry.Config
}

// NewNotificationLogger creates a notification logger; a nil retry config uses retry.QuickConfig
func NewNotificationLogger(emailRepo repository.EmailLogRepository, retryCfg *retry.Config) NotificationLogger {
	if retryCfg == nil {
		retryCfg = retry.QuickConfig()
	}
	return &notificationLogger{
		emailRepo: emailRepo,
		retry:     retryCfg,
	}
}

func (n *notificationLogger) Log(ctx context.Context, entry *domain.EmailLog) {
	result := retry.Do(ctx, n.retry, func(ctx context.Context) error {
		return n.emailRepo.Create(ctx, entry)
	})
	if result.Failed() {
		metrics.RecordNotificationFailure(ctx, string(entry.Type))
		logger.Get().Error("failed to record email log",
			zap.String("email_type", string(entry.Type)),
			zap.String("booking_id", entry.BookingID),
			zap.Int("attempts", result.Attempts),
			zap.Error(result.Cause()),
		)
	}
}
