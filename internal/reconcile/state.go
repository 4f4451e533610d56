package reconcile

import (
	"errors"

	"github.com/semmy-space/opsync/internal/fly"
	"github.com/semmy-space/opsync/internal/secretdiff"
)

// State is a step of a reconciliation. Operations move forward through
// Idle, Located, Fetched, Diffed, ConfirmPending, Applying and Recorded, or stop in
// Aborted or Failed.
type State int

const (
	StateIdle State = iota
	StateLocated
	StateFetched
	StateDiffed
	StateConfirmPending
	StateApplying
	StateRecorded
	StateAborted
	StateFailed
)

var stateNames = [...]string{
	StateIdle:           "idle",
	StateLocated:        "located",
	StateFetched:        "fetched",
	StateDiffed:         "diffed",
	StateConfirmPending: "confirm-pending",
	StateApplying:       "applying",
	StateRecorded:       "recorded",
	StateAborted:        "aborted",
	StateFailed:         "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// ErrAborted is returned when the user declines a confirmation.
var ErrAborted = errors.New("aborted by user")

// Outcome describes how far an operation got and what it changed.
type Outcome struct {
	State  State
	ItemID string
	Diff   secretdiff.Diff

	// Applied is set once a mutating call succeeded. It stays set when a later
	// step is declined, since nothing is rolled back.
	Applied bool
	Release *fly.Release

	// File is the local env file a local flow read or wrote.
	File string
	// ShareLink is the link of an item created by CreateLocal.
	ShareLink string

	// RecordErr holds the failure of the best-effort timestamp write.
	RecordErr error
}
