package testsCommon

import (
	"sync"

	"github.com/iulianpascalau/metrics-explorer/services/explorer/common"
)

// NotifierStub -
type NotifierStub struct {
	mut           sync.Mutex
	notifications []common.Notification
	NotifyHandler func(message string, severity common.Severity)
}

// Notify -
func (stub *NotifierStub) Notify(message string, severity common.Severity) {
	stub.mut.Lock()
	stub.notifications = append(stub.notifications, common.Notification{
		Message:  message,
		Severity: severity,
	})
	stub.mut.Unlock()

	if stub.NotifyHandler != nil {
		stub.NotifyHandler(message, severity)
	}
}

// Recent -
func (stub *NotifierStub) Recent() []common.Notification {
	stub.mut.Lock()
	defer stub.mut.Unlock()

	out := make([]common.Notification, len(stub.notifications))
	copy(out, stub.notifications)

	return out
}

// IsInterfaceNil -
func (stub *NotifierStub) IsInterfaceNil() bool {
	return stub == nil
}
