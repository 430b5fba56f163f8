package engine

import "errors"

// ErrStaleLoad signals a load that was superseded by a newer one before it could commit
var ErrStaleLoad = errors.New("stale load discarded")

var errNilStore = errors.New("nil metrics store")
var errNilDiscoverer = errors.New("nil discoverer")
var errNilCustomMetricsLoader = errors.New("nil custom metrics loader")
var errNilNotifier = errors.New("nil notifier")
