package ports

import "context"

// Record keys of the durable store. Each record is an opaque blob that is
// overwritten atomically as a whole.
const (
	RecordPendingQueue      = "pendingQueue"
	RecordPlayerState       = "playerState"
	RecordSession           = "session"
	RecordTransactionLedger = "transactionLedger"
)

// RecordReader reads records
type RecordReader interface {
	// Load returns domain.ErrRecordNotFound when the key was never saved
	Load(ctx context.Context, key string) ([]byte, error)
}

// RecordWriter overwrites records
type RecordWriter interface {
	Save(ctx context.Context, key string, value []byte) error
}

// DurableStore is the composite interface
type DurableStore interface {
	RecordReader
	RecordWriter
	Close() error
}
