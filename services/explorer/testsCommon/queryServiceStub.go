package testsCommon

import "context"

// QueryServiceStub -
type QueryServiceStub struct {
	FetchHandler func(ctx context.Context, query string, format string) ([]byte, error)
}

// Fetch -
func (stub *QueryServiceStub) Fetch(ctx context.Context, query string, format string) ([]byte, error) {
	if stub.FetchHandler != nil {
		return stub.FetchHandler(ctx, query, format)
	}

	return []byte(`{"jsonData": [], "data": {}}`), nil
}

// IsInterfaceNil -
func (stub *QueryServiceStub) IsInterfaceNil() bool {
	return stub == nil
}
