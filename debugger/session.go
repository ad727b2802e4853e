package debugger

import "github.com/google/uuid"

// PauseSession identifies one pause episode. It expires as soon as the
// process is resumed and is never reused.
type PauseSession interface {
	ID() uuid.UUID
	Seq() uint64
	Reason() PausedReason
	HasExpired() bool
}

// DebuggeeState identifies a span of debuggee state that is considered valid.
// It can outlive several pause sessions when the process is resumed with
// DebuggeeStateAction_Keep.
type DebuggeeState interface {
	ID() uuid.UUID
	Seq() uint64
	HasExpired() bool
}
