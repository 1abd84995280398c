package worker

import (
	"go.uber.org/zap"

	"github.com/soporteit/support-desk/internal/events"
	"github.com/soporteit/support-desk/internal/service"
)

// StartNotificationWorker registers notification handlers on the dispatcher.
// The returned stop func drains in-flight handlers.
func StartNotificationWorker(dispatcher events.Dispatcher, notifications *service.NotificationService, logger *zap.Logger) (stop func()) {
	if notifications != nil {
		notifications.RegisterHandlers()
	}
	return func() {
		if dispatcher == nil {
			return
		}
		dispatcher.Close()
		if logger != nil {
			logger.Info("notification worker drained")
		}
	}
}
