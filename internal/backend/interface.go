package backend

import (
	"context"

	"cashbook/internal/amqp"
	"cashbook/internal/sources"
)

// Backend is the unified data surface the application runs on: the three
// ledger sources plus master data, behind one handle.
type Backend interface {
	sources.SaleReader
	sources.CostReader
	sources.ManualEntryStore
	sources.MasterDataReader
}

// CleanupFunc releases backend resources on shutdown.
type CleanupFunc func() error

// BackendResult bundles a created backend with its optional broker client
// and cleanup hook. AMQP is nil when the broker is unavailable or not
// configured; callers degrade to local-only operation.
type BackendResult struct {
	Backend Backend
	AMQP    *amqp.Client
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation.
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// BackendType selects the storage implementation.
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid.
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
