package usage

import "errors"

var (
	// ErrNilStore is returned when a Recorder is built without a ledger.
	ErrNilStore = errors.New("usage: store is required")

	// ErrNilPool is returned when a PostgresStore is built without a pool.
	ErrNilPool = errors.New("usage: connection pool is required")

	// ErrRecorderStopped is returned when recording after Stop.
	ErrRecorderStopped = errors.New("usage: recorder stopped")

	// ErrQueueFull is returned when the recorder's task buffer is full and
	// an append had to be dropped.
	ErrQueueFull = errors.New("usage: recorder queue full")

	ErrFailedToMigrate = errors.New("usage: failed to apply ledger migrations")
	ErrFailedToAppend  = errors.New("usage: failed to append record")
	ErrFailedToCount   = errors.New("usage: failed to count records")
)
