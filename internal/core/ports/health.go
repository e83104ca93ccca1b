package ports

import "context"

// HealthChecker is implemented by each account store so /health can report
// whether the ledger is reachable.
type HealthChecker interface {
	// Ping returns nil when the store can serve reads and writes.
	Ping(ctx context.Context) error
	// Name labels the store in the health report, e.g. "postgresql".
	Name() string
}
