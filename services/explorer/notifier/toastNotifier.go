package notifier

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/iulianpascalau/metrics-explorer/services/explorer/common"
	logger "github.com/multiversx/mx-chain-logger-go"
)

// DefaultCapacity is the number of notifications kept when no capacity is configured
const DefaultCapacity = 50

var log = logger.GetOrCreate("notifier")

// toastNotifier keeps the most recent notifications so the front end can display them as toasts
type toastNotifier struct {
	mut           sync.RWMutex
	capacity      int
	notifications []common.Notification
}

// NewToastNotifier creates a notifier that retains at most capacity notifications
func NewToastNotifier(capacity int) *toastNotifier {
	if capacity < 1 {
		capacity = DefaultCapacity
	}

	return &toastNotifier{
		capacity:      capacity,
		notifications: make([]common.Notification, 0, capacity),
	}
}

// Notify records the message, dropping the oldest notification when full
func (tn *toastNotifier) Notify(message string, severity common.Severity) {
	switch severity {
	case common.SeverityDanger:
		log.Warn("notification", "message", message, "severity", severity)
	default:
		log.Info("notification", "message", message, "severity", severity)
	}

	n := common.Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Severity:  severity,
		CreatedAt: time.Now().UnixMilli(),
	}

	tn.mut.Lock()
	defer tn.mut.Unlock()

	if len(tn.notifications) == tn.capacity {
		tn.notifications = append(tn.notifications[:0], tn.notifications[1:]...)
	}
	tn.notifications = append(tn.notifications, n)
}

// Recent returns the retained notifications, oldest first
func (tn *toastNotifier) Recent() []common.Notification {
	tn.mut.RLock()
	defer tn.mut.RUnlock()

	out := make([]common.Notification, len(tn.notifications))
	copy(out, tn.notifications)

	return out
}

// IsInterfaceNil returns true if the value under the interface is nil
func (tn *toastNotifier) IsInterfaceNil() bool {
	return tn == nil
}
