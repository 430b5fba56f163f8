package discovery

import "errors"

var errNilQueryService = errors.New("nil query service")
var errNilNotifier = errors.New("nil notifier")

type errSchemaMismatch string

func (e errSchemaMismatch) Error() string {
	return "schema mismatch: " + string(e)
}
