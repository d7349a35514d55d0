package coordinator

import "context"

// MarkAsyncForTest exposes markAsync to pkg/coordinator_test so external
// tests can exercise RunSync's re-entrancy guard without going through
// a real RunAsync call.
func MarkAsyncForTest(ctx context.Context) context.Context {
	return markAsync(ctx)
}
