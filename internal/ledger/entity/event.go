package entity

import "time"

// ChangeKind names the mutation that produced a ChangeEvent.
type ChangeKind string

const (
	ChangeCreated ChangeKind = "CREATED"
	ChangeUpdated ChangeKind = "UPDATED"
	ChangeDeleted ChangeKind = "DELETED"
	ChangeCleared ChangeKind = "CLEARED"
)

// ChangeEvent is emitted after a committed write.
type ChangeEvent struct {
	EventID       int64
	Kind          ChangeKind
	TransactionID int64
	// Transaction holds the state after the write for CREATED and UPDATED,
	// and the removed record for DELETED. It is empty for CLEARED.
	Transaction   Transaction
	OccurredAt    time.Time
	CorrelationID string
}
