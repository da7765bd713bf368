package models

// BatchStatus is the lifecycle status of a Batch.
type BatchStatus string

const (
	BatchCreated   BatchStatus = "CREATED"
	BatchProcessed BatchStatus = "PROCESSED"
	BatchRejected  BatchStatus = "REJECTED"
	BatchArchived  BatchStatus = "ARCHIVED"
)

func (s BatchStatus) String() string { return string(s) }

func (s BatchStatus) IsValid() bool {
	switch s {
	case BatchCreated, BatchProcessed, BatchRejected, BatchArchived:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed from s.
func (s BatchStatus) IsTerminal() bool {
	return s == BatchArchived
}

// TransferStatus is the lifecycle status of a single Transfer.
type TransferStatus string

const (
	TransferCreated TransferStatus = "CREATED"
	TransferSettled TransferStatus = "SETTLED"
	TransferError   TransferStatus = "ERROR"
)

func (s TransferStatus) String() string { return string(s) }

func (s TransferStatus) IsValid() bool {
	switch s {
	case TransferCreated, TransferSettled, TransferError:
		return true
	}
	return false
}
